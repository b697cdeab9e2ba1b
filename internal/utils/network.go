package utils

import (
	"net"
	"strconv"
	"strings"
)

// IsValidIPv4 checks if a string is a valid dotted-quad IPv4 address
func IsValidIPv4(ip string) bool {
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.To4() != nil
}

// IsMAC reports whether a token looks like a MAC address: six hex
// groups separated by ':' or '-'. Single-digit groups are accepted
// because BSD arp output omits leading zeros.
func IsMAC(token string) bool {
	groups := strings.Split(strings.ReplaceAll(token, "-", ":"), ":")
	if len(groups) != 6 {
		return false
	}
	for _, g := range groups {
		if len(g) == 0 || len(g) > 2 {
			return false
		}
		if _, err := strconv.ParseUint(g, 16, 8); err != nil {
			return false
		}
	}
	return true
}

// NormalizeMAC canonicalizes a MAC token to lowercase colon-separated
// form with zero-padded groups. Returns "" for invalid input.
func NormalizeMAC(token string) string {
	if !IsMAC(token) {
		return ""
	}
	groups := strings.Split(strings.ReplaceAll(token, "-", ":"), ":")
	for i, g := range groups {
		if len(g) == 1 {
			g = "0" + g
		}
		groups[i] = strings.ToLower(g)
	}
	return strings.Join(groups, ":")
}

// CompareIPv4 orders two dotted-quad addresses numerically. Invalid
// addresses sort after valid ones, then lexically.
func CompareIPv4(a, b string) int {
	ipa := net.ParseIP(a).To4()
	ipb := net.ParseIP(b).To4()
	switch {
	case ipa == nil && ipb == nil:
		return strings.Compare(a, b)
	case ipa == nil:
		return 1
	case ipb == nil:
		return -1
	}
	for i := 0; i < 4; i++ {
		if ipa[i] != ipb[i] {
			if ipa[i] < ipb[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
