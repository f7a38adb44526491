package geoip

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// providerHeaders lists the CDN-injected geo header triples, in trust order.
// The first triple whose country header is present wins; remaining providers
// are not consulted.
var providerHeaders = []struct {
	country, region, city string
}{
	{"cf-ipcountry", "cf-region-code", "cf-ipcity"},
	{"x-vercel-ip-country", "x-vercel-ip-country-region", "x-vercel-ip-city"},
	{"cloudfront-viewer-country", "cloudfront-viewer-country-region", "cloudfront-viewer-city"},
}

func locationFromHeaders(h http.Header) *Location {
	for _, p := range providerHeaders {
		country := h.Get(p.country)
		if country == "" {
			continue
		}
		country = fixEncoding(country)
		region := fixEncoding(h.Get(p.region))
		city := fixEncoding(h.Get(p.city))
		return &Location{
			Country: country,
			Region:  compoundRegion(country, region),
			City:    city,
		}
	}
	return nil
}

// fixEncoding repairs header values whose UTF-8 bytes were re-read as
// Latin-1 by an intermediary (city names like "São Paulo" arrive mangled).
// The value's code points are folded back to bytes; if those bytes form valid
// UTF-8 the repaired text is used, otherwise the raw value stands.
func fixEncoding(v string) string {
	if v == "" {
		return v
	}
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(v))
	if err != nil || !utf8.Valid(b) {
		return v
	}
	return string(b)
}

// compoundRegion builds the COUNTRY-SUBDIVISION code. A subdivision that
// already carries a separator is used verbatim; without both parts the bare
// subdivision (possibly empty) is returned.
func compoundRegion(country, region string) string {
	if region == "" || strings.Contains(region, "-") {
		return region
	}
	if country == "" {
		return region
	}
	return country + "-" + region
}
