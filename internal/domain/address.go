package domain

import (
	"strconv"
	"strings"
)

// Wildcard bind addresses; a port bound to one of these listens on every interface.
const (
	WildcardIPv4 = "0.0.0.0"
	WildcardIPv6 = "::"
	WildcardAny  = "*"
)

// AddressFamily is the result of classifying an address token
type AddressFamily int

const (
	FamilyIPv4 AddressFamily = iota
	FamilyIPv6
)

// ClassifyAddress strips an optional /prefix suffix and reports the family.
// A token is IPv6 iff a colon remains after stripping.
func ClassifyAddress(token string) (string, AddressFamily) {
	addr := strings.TrimSpace(token)
	if idx := strings.Index(addr, "/"); idx >= 0 {
		addr = addr[:idx]
	}
	if strings.Contains(addr, ":") {
		return addr, FamilyIPv6
	}
	return addr, FamilyIPv4
}

// NormalizeMAC renders a MAC address as lowercase colon-separated hex.
// Dash separated input is converted; normalizing twice is a no-op.
func NormalizeMAC(mac string) string {
	mac = strings.TrimSpace(mac)
	if mac == "" {
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(mac, "-", ":"))
}

// IsMAC reports whether s looks like xx:xx:xx:xx:xx:xx
func IsMAC(s string) bool {
	return len(s) == 17 && strings.Contains(s, ":")
}

// ValidPort reports whether s is a numeric port in range
func ValidPort(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseUint(s, 10, 16)
	return err == nil
}

// JoinHostPort builds the "ip:port" form used for bound addresses.
// IPv6 addresses are not bracketed, matching what the socket tools print.
func JoinHostPort(host, port string) string {
	return host + ":" + port
}

// SplitHostPort splits "ip:port" at the last colon.
// Returns ok=false when the trailing segment is not a port.
func SplitHostPort(s string) (host, port string, ok bool) {
	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return s, "", false
	}
	port = s[idx+1:]
	if port != WildcardAny && !ValidPort(port) {
		return s, "", false
	}
	return s[:idx], port, true
}

// BoundAddress extracts the address part of a binding: the trailing :port is
// removed, along with IPv6 brackets and any %zone suffix.
func BoundAddress(s string) string {
	host, _, ok := SplitHostPort(s)
	if !ok {
		host = s
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	if idx := strings.Index(host, "%"); idx >= 0 {
		host = host[:idx]
	}
	return host
}

// IsWildcard reports whether addr binds every interface
func IsWildcard(addr string) bool {
	switch addr {
	case WildcardIPv4, WildcardIPv6, WildcardAny:
		return true
	}
	return false
}
