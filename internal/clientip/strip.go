package clientip

import (
	"regexp"
	"strings"
)

var hostChars = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)

// StripPort removes a trailing :port from an address string so the remainder
// matches what the GeoIP database expects. Bracketed IPv6 keeps its brackets;
// a bare IPv6 address (multiple colons, no dot) is returned unchanged.
func StripPort(address string) string {
	if strings.HasPrefix(address, "[") {
		end := strings.Index(address, "]")
		if end < 0 {
			return address
		}
		return address[:end+1]
	}

	idx := strings.LastIndex(address, ":")
	if idx < 0 {
		return address
	}
	if strings.Contains(address, ".") || hostChars.MatchString(address[:idx]) {
		return address[:idx]
	}
	return address
}
