package ping

import (
	"errors"
	"net"
	"os"
	"testing"
	"time"
)

func TestParseRTT(t *testing.T) {
	cases := []struct {
		output string
		want   time.Duration
	}{
		{"64 bytes from 1.1.1.1: icmp_seq=0 ttl=57 time=12.5 ms", 12500 * time.Microsecond},
		{"64 bytes from 8.8.8.8: icmp_seq=1 ttl=115 time=0.8 ms", 800 * time.Microsecond},
		{"reply time<1 ms", time.Millisecond},
		{"no time here", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := parseRTT([]byte(tc.output)); got != tc.want {
			t.Fatalf("parseRTT(%q) = %v, want %v", tc.output, got, tc.want)
		}
	}
}

func TestPingArgsIncludesCountAndAddress(t *testing.T) {
	args := pingArgs(net.ParseIP("192.0.2.1"), 4*time.Second)

	foundCount := false
	foundAddr := false
	for i, arg := range args {
		if arg == "-c" && i+1 < len(args) && args[i+1] == "1" {
			foundCount = true
		}
		if arg == "192.0.2.1" {
			foundAddr = true
		}
	}
	if !foundCount {
		t.Fatalf("expected single-packet count in args: %v", args)
	}
	if !foundAddr {
		t.Fatalf("expected address in args: %v", args)
	}
	if args[len(args)-1] != "192.0.2.1" {
		t.Fatalf("expected address last: %v", args)
	}
}

func TestIsPermissionError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{os.ErrPermission, true},
		{errors.New("listen ip4:icmp 0.0.0.0: socket: operation not permitted"), true},
		{errors.New("permission denied"), true},
		{errors.New("network is unreachable"), false},
	}
	for _, tc := range cases {
		if got := isPermissionError(tc.err); got != tc.want {
			t.Fatalf("isPermissionError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestExternalClientCloseIsNoOp(t *testing.T) {
	c := NewExternalClient()
	c.Close()
	c.Close()
}
