package scanner

import (
	"fmt"
	"net"
	"os"
)

// LocalIPv4 discovers the host's primary IPv4 address. The UDP dial
// never sends a packet; it only asks the kernel which source address
// routes toward the public internet. Falls back to resolving the local
// hostname when the host has no default route.
func LocalIPv4() (net.IP, error) {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err == nil {
		defer conn.Close()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			if ip := addr.IP.To4(); ip != nil {
				return ip, nil
			}
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("failed to get hostname: %w", err)
	}

	addrs, err := net.LookupIP(hostname)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve local hostname %q: %w", hostname, err)
	}
	for _, addr := range addrs {
		if ip := addr.To4(); ip != nil && !ip.IsLoopback() {
			return ip, nil
		}
	}

	return nil, fmt.Errorf("no usable IPv4 address for host %q", hostname)
}

// EnumerateHosts returns every host address in the network of the
// given prefix length containing ip, excluding the network and
// broadcast addresses. Order is ascending.
func EnumerateHosts(ip net.IP, prefixLen int) ([]string, error) {
	v4 := ip.To4()
	if v4 == nil {
		return nil, fmt.Errorf("not an IPv4 address: %s", ip)
	}
	if prefixLen < 16 || prefixLen > 30 {
		return nil, fmt.Errorf("unsupported prefix length /%d", prefixLen)
	}

	mask := net.CIDRMask(prefixLen, 32)
	network := v4.Mask(mask)

	base := ipToUint32(network)
	size := uint32(1) << (32 - prefixLen)

	hosts := make([]string, 0, size-2)
	for offset := uint32(1); offset < size-1; offset++ {
		hosts = append(hosts, uint32ToIP(base+offset).String())
	}
	return hosts, nil
}

func ipToUint32(ip net.IP) uint32 {
	v4 := ip.To4()
	return uint32(v4[0])<<24 | uint32(v4[1])<<16 | uint32(v4[2])<<8 | uint32(v4[3])
}

func uint32ToIP(n uint32) net.IP {
	return net.IPv4(byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
}
