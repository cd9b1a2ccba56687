package geo

import "net"

// LookupableIP reports whether an address is worth sending to the geo
// service. Loopback, private-range, link-local, and unparseable
// addresses are not.
func LookupableIP(ip string) bool {
	if ip == "" {
		return false
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}

	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() || parsed.IsUnspecified() {
		return false
	}

	return true
}
