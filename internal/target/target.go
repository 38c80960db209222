package target

import (
	"fmt"
	"net"
)

// Target identifies a single monitored host. Immutable after creation;
// the probe layer and stats engine address targets by slice index.
type Target struct {
	Name string
	Addr net.IP
}

// New returns a target for the given name and resolved address.
func New(name string, addr net.IP) Target {
	return Target{Name: name, Addr: addr}
}

// IsIPv6 reports whether the target address is IPv6.
func (t Target) IsIPv6() bool {
	return t.Addr.To4() == nil
}

// DefaultTargets returns the built-in anycast resolvers.
func DefaultTargets() []Target {
	return []Target{
		New("Cloudflare", net.ParseIP("1.1.1.1")),
		New("Google", net.ParseIP("8.8.8.8")),
		New("Quad9", net.ParseIP("9.9.9.9")),
	}
}

// Resolve turns an IP literal or hostname into an IP address.
func Resolve(host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		return ip, nil
	}
	ipAddr, err := net.ResolveIPAddr("ip", host)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", host, err)
	}
	if ipAddr.IP == nil {
		return nil, fmt.Errorf("resolve %s: no address", host)
	}
	return ipAddr.IP, nil
}

// BuildList assembles the final target list: detected gateway first (unless
// disabled), then the defaults, then user-specified hosts. Hosts that fail
// to resolve are skipped.
func BuildList(hosts []string, includeDefaults, noGateway bool) []Target {
	var targets []Target

	if !noGateway {
		if gw, ok := DetectGateway(); ok {
			targets = append(targets, gw)
		}
	}

	if includeDefaults {
		targets = append(targets, DefaultTargets()...)
	}

	for _, host := range hosts {
		ip, err := Resolve(host)
		if err != nil {
			continue
		}
		targets = append(targets, New(host, ip))
	}

	return targets
}
