package cli

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// checkICMPPermissions reports whether raw ICMP sockets are likely to work:
// root, or on Linux a group inside the unprivileged ping range.
func checkICMPPermissions() bool {
	if runtime.GOOS == "windows" {
		return true
	}
	if os.Geteuid() == 0 {
		return true
	}
	if runtime.GOOS == "linux" {
		return gidInPingGroupRange(os.Getegid())
	}
	return false
}

func gidInPingGroupRange(gid int) bool {
	content, err := os.ReadFile("/proc/sys/net/ipv4/ping_group_range")
	if err != nil {
		return false
	}
	fields := strings.Fields(string(content))
	if len(fields) != 2 {
		return false
	}
	min, err1 := strconv.Atoi(fields[0])
	max, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return false
	}
	return gid >= min && gid <= max
}

func printPermissionHelp() {
	fmt.Fprintln(os.Stderr, "Error: pingtop requires elevated privileges to send ICMP packets.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Solutions:")
	fmt.Fprintln(os.Stderr, "  1. Run with sudo:")
	fmt.Fprintln(os.Stderr, "     sudo pingtop")
	if runtime.GOOS == "linux" {
		fmt.Fprintln(os.Stderr, "  2. Set capabilities on the binary:")
		fmt.Fprintln(os.Stderr, "     sudo setcap cap_net_raw=ep $(which pingtop)")
		fmt.Fprintln(os.Stderr, "  3. Enable unprivileged ICMP (system-wide):")
		fmt.Fprintln(os.Stderr, "     sudo sysctl net.ipv4.ping_group_range=\"0 2147483647\"")
	}
	if runtime.GOOS == "darwin" {
		fmt.Fprintln(os.Stderr, "  2. On macOS, sudo is typically required for ICMP.")
	}
}
