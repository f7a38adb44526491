package clientip

import (
	"net/netip"
	"strings"
)

type blockRule struct {
	exact  string
	prefix netip.Prefix
	isCIDR bool
}

// Blocklist matches client IPs against operator-configured exact addresses
// and CIDR ranges. Parse once at startup; Contains is safe for concurrent
// use.
type Blocklist struct {
	rules []blockRule

	// Trace mirrors Extractor.Trace: diagnostics only.
	Trace func(msg string, args ...any)
}

// NewBlocklist parses a comma-separated list of exact IPs and CIDRs.
// A malformed entry is kept as an exact-match-only rule rather than aborting
// the rest of the list; a misconfigured single entry must not disable
// blocking.
func NewBlocklist(raw string) *Blocklist {
	bl := &Blocklist{}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		rule := blockRule{exact: entry}
		if strings.Contains(entry, "/") {
			if p, err := netip.ParsePrefix(entry); err == nil {
				rule.prefix = p.Masked()
				rule.isCIDR = true
			}
		}
		bl.rules = append(bl.rules, rule)
	}
	return bl
}

// Empty reports whether no rules are configured.
func (b *Blocklist) Empty() bool {
	return b == nil || len(b.rules) == 0
}

// Contains reports whether clientIP matches any rule. Exact string match is
// checked first; CIDR membership requires both sides to parse and share an
// address family.
func (b *Blocklist) Contains(clientIP string) bool {
	if b.Empty() || clientIP == "" {
		return false
	}
	addr, addrErr := netip.ParseAddr(strings.TrimSpace(clientIP))
	for _, rule := range b.rules {
		if rule.exact == clientIP {
			b.trace("ip blocked by exact rule", "ip", clientIP)
			return true
		}
		if !rule.isCIDR || addrErr != nil {
			continue
		}
		if addr.Is4() != rule.prefix.Addr().Is4() {
			continue
		}
		if rule.prefix.Contains(addr) {
			b.trace("ip blocked by cidr rule", "ip", clientIP, "cidr", rule.prefix.String())
			return true
		}
	}
	return false
}

func (b *Blocklist) trace(msg string, args ...any) {
	if b.Trace != nil {
		b.Trace(msg, args...)
	}
}
