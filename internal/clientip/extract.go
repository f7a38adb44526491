// Package clientip derives the most plausible public client IP from untrusted
// proxy and CDN headers, and matches resolved addresses against an operator
// blocklist. Headers are attacker-controllable, so extraction walks a fixed
// precedence list and skips private/internal addresses.
package clientip

import (
	"net/http"
	"strings"
)

type extractKind int

const (
	// use the header value as-is
	extractVerbatim extractKind = iota
	// comma-separated list, first element wins
	extractFirstOfList
	// RFC 7239 Forwarded header, for= token
	extractForwardedToken
)

type headerSource struct {
	name string
	kind extractKind
}

// precedence is consulted in order, most-trustworthy first. CDN-injected
// headers come before generic proxy headers, and x-forwarded-for before
// x-real-ip: intermediate proxies populate the former more reliably while the
// latter may reflect an internal hop.
var precedence = []headerSource{
	{"cf-connecting-ip", extractVerbatim},
	{"true-client-ip", extractVerbatim},
	{"x-client-ip", extractVerbatim},
	{"x-forwarded-for", extractFirstOfList},
	{"x-real-ip", extractVerbatim},
	{"forwarded", extractForwardedToken},
	{"fly-client-ip", extractVerbatim},
}

// Metrics receives extraction outcomes. Implementations must be safe for
// concurrent use; a nil Metrics disables recording.
type Metrics interface {
	ExtractionResult(source, outcome string)
}

// Extractor selects the client IP from request headers.
// The zero value is usable; fields customize behavior.
type Extractor struct {
	// OverrideHeader, when set, names a header the operator asserts trust
	// in. Its value is used without private-address filtering.
	OverrideHeader string

	// Trace, when set, receives diagnostic events about headers considered
	// and skipped. It must not influence the result.
	Trace func(msg string, args ...any)

	Metrics Metrics
}

// IPAddress returns the extracted client IP, or "" when no header yields a
// public address.
func (e *Extractor) IPAddress(h http.Header) string {
	if e.OverrideHeader != "" {
		if v := h.Get(e.OverrideHeader); v != "" {
			ip := extractValue(v, kindForHeader(e.OverrideHeader))
			e.trace("client ip from override header", "header", e.OverrideHeader, "ip", ip)
			e.record(e.OverrideHeader, "hit")
			return ip
		}
	}

	for _, src := range precedence {
		v := h.Get(src.name)
		if v == "" {
			continue
		}
		ip := extractValue(v, src.kind)
		if ip == "" {
			e.trace("header present but no address extracted", "header", src.name, "value", v)
			e.record(src.name, "empty")
			continue
		}
		if IsPrivate(ip) {
			e.trace("skipping private address", "header", src.name, "ip", ip)
			e.record(src.name, "private")
			continue
		}
		e.trace("client ip resolved", "header", src.name, "ip", ip)
		e.record(src.name, "hit")
		return ip
	}

	e.trace("no header yielded a public address")
	e.record("none", "miss")
	return ""
}

func (e *Extractor) trace(msg string, args ...any) {
	if e.Trace != nil {
		e.Trace(msg, args...)
	}
}

func (e *Extractor) record(source, outcome string) {
	if e.Metrics != nil {
		e.Metrics.ExtractionResult(source, outcome)
	}
}

func kindForHeader(name string) extractKind {
	switch strings.ToLower(name) {
	case "x-forwarded-for":
		return extractFirstOfList
	case "forwarded":
		return extractForwardedToken
	default:
		return extractVerbatim
	}
}

func extractValue(v string, kind extractKind) string {
	switch kind {
	case extractFirstOfList:
		return strings.TrimSpace(strings.Split(v, ",")[0])
	case extractForwardedToken:
		return forwardedFor(v)
	default:
		return strings.TrimSpace(v)
	}
}

// forwardedFor pulls the for= value out of an RFC 7239 Forwarded header.
// Quotes are dropped; brackets around an IPv6 node are kept so the value
// round-trips through StripPort.
func forwardedFor(v string) string {
	// Only the first element (first hop) is considered.
	if i := strings.Index(v, ","); i >= 0 {
		v = v[:i]
	}
	for _, part := range strings.Split(v, ";") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(k), "for") {
			continue
		}
		return strings.Trim(strings.TrimSpace(val), `"`)
	}
	return ""
}
