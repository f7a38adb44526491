package clientip

import (
	"net/netip"
	"strings"
)

var uniqueLocalV6 = netip.MustParsePrefix("fc00::/7")

// IsPrivate reports whether raw is an address that cannot be the true client
// IP: RFC 1918 ranges, loopback, link-local and unique-local space.
// IPv4-mapped IPv6 addresses are unwrapped before the range checks.
// Unparseable input is not treated as private; the extractor passes such
// values through and lets the geo tier reject them.
func IsPrivate(raw string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	switch {
	case addr.IsPrivate(),
		addr.IsLoopback(),
		addr.IsLinkLocalUnicast(),
		addr.IsLinkLocalMulticast(),
		addr.IsUnspecified(),
		uniqueLocalV6.Contains(addr):
		return true
	}
	return false
}

// IsLocalhost reports whether the address refers to the local machine.
// Used by the geo resolver to short-circuit before any header or database
// work.
func IsLocalhost(raw string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(StripPort(raw)))
	if err != nil {
		return false
	}
	return addr.Unmap().IsLoopback()
}
