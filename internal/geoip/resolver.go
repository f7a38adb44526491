// Package geoip resolves a country/region/city location for a public client
// IP. CDN-injected geo headers are trusted first (they are cheap and already
// computed at the edge); a local GeoLite2-City database is the fallback. The
// database reader is shared across requests, opened lazily on first need and
// kept for the life of the process.
package geoip

import (
	"net"
	"net/http"

	"github.com/mwenda/tambua/internal/clientip"
)

// Location is the result of a geo lookup. Empty fields are unknown.
// Region, when set, is always a COUNTRY-SUBDIVISION compound code.
type Location struct {
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
}

// Metrics receives resolution outcomes per tier ("headers", "database",
// "miss", "local"). Nil disables recording.
type Metrics interface {
	GeoResult(tier string)
}

// Resolver owns the lazily-opened database handle and the tier policy.
type Resolver struct {
	db *lazyDB

	// SkipHeaders disables the provider-header tier entirely.
	SkipHeaders bool

	// Trace receives diagnostics; it never changes the outcome.
	Trace func(msg string, args ...any)

	Metrics Metrics
}

// New returns a Resolver reading the GeoLite2-City database at path.
// The file is not touched until the first database-tier lookup.
func New(path string) *Resolver {
	return &Resolver{db: newLazyDB(path)}
}

// Location resolves the location for ip. hasPayloadIP marks an IP supplied
// explicitly by the caller: CDN geo headers describe the edge connection, not
// that IP, so the header tier is skipped. Returns nil when no location can be
// determined; never returns an error to the caller.
func (r *Resolver) Location(ip string, h http.Header, hasPayloadIP bool) *Location {
	if ip == "" || clientip.IsLocalhost(ip) {
		r.trace("local address, skipping geo resolution", "ip", ip)
		r.record("local")
		return nil
	}

	if !r.SkipHeaders && !hasPayloadIP {
		if loc := locationFromHeaders(h); loc != nil {
			r.trace("location resolved from provider headers", "ip", ip, "country", loc.Country)
			r.record("headers")
			return loc
		}
	}

	reader := r.db.get()
	if reader == nil {
		r.record("miss")
		return nil
	}

	addr := net.ParseIP(clientip.StripPort(ip))
	if addr == nil {
		r.trace("unparseable address, no database lookup", "ip", ip)
		r.record("miss")
		return nil
	}

	var rec cityRecord
	if err := reader.Lookup(addr, &rec); err != nil {
		r.trace("database lookup failed", "ip", ip, "error", err)
		r.record("miss")
		return nil
	}

	country := rec.Country.IsoCode
	if country == "" {
		country = rec.RegisteredCountry.IsoCode
	}
	var region string
	if len(rec.Subdivisions) > 0 {
		region = rec.Subdivisions[0].IsoCode
	}
	city := rec.City.Names["en"]

	if country == "" && region == "" && city == "" {
		r.record("miss")
		return nil
	}

	r.record("database")
	return &Location{
		Country: country,
		Region:  compoundRegion(country, region),
		City:    city,
	}
}

func (r *Resolver) trace(msg string, args ...any) {
	if r.Trace != nil {
		r.Trace(msg, args...)
	}
}

func (r *Resolver) record(tier string) {
	if r.Metrics != nil {
		r.Metrics.GeoResult(tier)
	}
}
