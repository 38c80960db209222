package target

import (
	"net"
	"os/exec"
	"strings"
)

// DetectGateway attempts to find the local default gateway by shelling out
// to the platform routing tools. Returns false if neither tool yields one.
func DetectGateway() (Target, bool) {
	if gw, ok := detectGatewayBSD(); ok {
		return gw, true
	}
	return detectGatewayLinux()
}

// detectGatewayBSD parses `route -n get default` (macOS and the BSDs).
func detectGatewayBSD() (Target, bool) {
	out, err := exec.Command("route", "-n", "get", "default").Output()
	if err != nil {
		return Target{}, false
	}
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "gateway:") {
			continue
		}
		ipStr := strings.TrimSpace(strings.TrimPrefix(line, "gateway:"))
		if ip := net.ParseIP(ipStr); ip != nil {
			return New("Gateway", ip), true
		}
	}
	return Target{}, false
}

// detectGatewayLinux parses `ip route show default`, which prints
// "default via 192.168.1.1 dev eth0 ...".
func detectGatewayLinux() (Target, bool) {
	out, err := exec.Command("ip", "route", "show", "default").Output()
	if err != nil {
		return Target{}, false
	}
	fields := strings.Fields(string(out))
	if len(fields) >= 3 && fields[0] == "default" && fields[1] == "via" {
		if ip := net.ParseIP(fields[2]); ip != nil {
			return New("Gateway", ip), true
		}
	}
	return Target{}, false
}
