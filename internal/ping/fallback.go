package ping

import (
	"errors"
	"net"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// newSession opens a raw ICMP session, falling back to the system ping
// command when raw sockets are denied and the binary is available.
func newSession(addr net.IP) (prober, error) {
	client, err := NewClient(addr)
	if err == nil {
		return client, nil
	}
	if isPermissionError(err) && ExternalAvailable() {
		return NewExternalClient(), nil
	}
	return nil, err
}

// ExternalAvailable reports whether the system ping binary can be found.
func ExternalAvailable() bool {
	_, err := exec.LookPath("ping")
	return err == nil
}

func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "operation not permitted") || strings.Contains(msg, "permission denied")
}
