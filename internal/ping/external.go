package ping

import (
	"fmt"
	"net"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"
)

var timePattern = regexp.MustCompile(`time[=<]([0-9.]+)\s*ms`)

// ExternalClient shells out to the system ping command for environments
// without raw socket access. The identifier and sequence arguments are
// ignored; the command manages its own.
type ExternalClient struct{}

// NewExternalClient returns a prober backed by the ping binary.
func NewExternalClient() *ExternalClient {
	return &ExternalClient{}
}

// Probe runs one ping and parses the RTT from its output.
func (c *ExternalClient) Probe(addr net.IP, id, seq int, timeout time.Duration) Outcome {
	args := pingArgs(addr, timeout)
	start := time.Now()
	out, err := exec.Command(pingBinary(addr), args...).CombinedOutput()
	if err != nil {
		if looksLikeTimeout(out, err) {
			return Timeout()
		}
		return Failure(fmt.Sprintf("external ping: %v", err))
	}

	rtt := parseRTT(out)
	if rtt == 0 {
		rtt = time.Since(start)
	}
	return Success(rtt)
}

// Close is a no-op; there is no session to tear down.
func (c *ExternalClient) Close() {}

func pingBinary(addr net.IP) string {
	if addr.To4() == nil && runtime.GOOS != "darwin" {
		if _, err := exec.LookPath("ping6"); err == nil {
			return "ping6"
		}
	}
	return "ping"
}

func pingArgs(addr net.IP, timeout time.Duration) []string {
	switch runtime.GOOS {
	case "darwin":
		timeoutMs := maxInt(100, int(timeout.Milliseconds()))
		return []string{"-n", "-c", "1", "-W", strconv.Itoa(timeoutMs), addr.String()}
	default:
		timeoutSec := maxInt(1, int(timeout.Seconds()+0.5))
		return []string{"-n", "-c", "1", "-W", strconv.Itoa(timeoutSec), addr.String()}
	}
}

// looksLikeTimeout distinguishes no-reply exits from real failures. ping
// exits 1 when no reply arrived.
func looksLikeTimeout(out []byte, err error) bool {
	exitErr, ok := err.(*exec.ExitError)
	if !ok || exitErr.ExitCode() != 1 {
		return false
	}
	msg := strings.ToLower(string(out))
	return !strings.Contains(msg, "unknown host") && !strings.Contains(msg, "cannot resolve")
}

func parseRTT(output []byte) time.Duration {
	matches := timePattern.FindSubmatch(output)
	if len(matches) < 2 {
		return 0
	}
	value, err := strconv.ParseFloat(string(matches[1]), 64)
	if err != nil {
		return 0
	}
	return time.Duration(value * float64(time.Millisecond))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
