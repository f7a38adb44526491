// Package clientinfo assembles one unified client identity record per
// request: public IP, approximate location, browser, OS and device class.
// Every field is advisory; a value the pipeline cannot determine is simply
// absent and never aborts the request.
package clientinfo

import (
	"net/http"
	"net/url"

	"github.com/mileusna/useragent"

	"github.com/mwenda/tambua/internal/clientip"
	"github.com/mwenda/tambua/internal/geoip"
)

// Payload carries caller-supplied overrides. A non-nil field wins over the
// value derived from request headers.
type Payload struct {
	Website   *string `json:"website,omitempty"`
	IP        *string `json:"ip,omitempty"`
	UserAgent *string `json:"userAgent,omitempty"`
	Browser   *string `json:"browser,omitempty"`
	OS        *string `json:"os,omitempty"`
	Device    *string `json:"device,omitempty"`
	Screen    *string `json:"screen,omitempty"`
}

// ClientInfo is the assembled record, immutable once returned and scoped to
// a single request.
type ClientInfo struct {
	UserAgent string `json:"userAgent,omitempty"`
	Browser   string `json:"browser,omitempty"`
	OS        string `json:"os,omitempty"`
	IP        string `json:"ip,omitempty"`
	Country   string `json:"country,omitempty"`
	Region    string `json:"region,omitempty"`
	City      string `json:"city,omitempty"`
	Device    string `json:"device"`
}

// Service wires the extraction and geo components together.
type Service struct {
	Extractor *clientip.Extractor
	Geo       *geoip.Resolver
}

// Resolve produces the ClientInfo for one request. Header-derived values are
// used unless the payload overrides them; the geo tier is told whether the IP
// came from the payload so it can distrust edge geo headers in that case.
func (s *Service) Resolve(h http.Header, p Payload) ClientInfo {
	ua := h.Get("User-Agent")
	if p.UserAgent != nil {
		ua = *p.UserAgent
	}

	hasPayloadIP := p.IP != nil && *p.IP != ""
	ip := ""
	if hasPayloadIP {
		ip = *p.IP
	} else if s.Extractor != nil {
		ip = s.Extractor.IPAddress(h)
	}

	var loc *geoip.Location
	if s.Geo != nil {
		loc = s.Geo.Location(ip, h, hasPayloadIP)
	}

	parsed := useragent.Parse(ua)
	info := ClientInfo{
		UserAgent: ua,
		IP:        ip,
		Browser:   parsed.Name,
		OS:        parsed.OS,
		Device:    Device(ua, strValue(p.Screen)),
	}
	if p.Browser != nil {
		info.Browser = *p.Browser
	}
	if p.OS != nil {
		info.OS = *p.OS
	}
	if p.Device != nil && *p.Device != "" {
		info.Device = *p.Device
	}
	if loc != nil {
		info.Country = safeDecodeURI(loc.Country)
		info.Region = safeDecodeURI(loc.Region)
		info.City = safeDecodeURI(loc.City)
	}
	return info
}

// safeDecodeURI percent-decodes a geo field, falling back to the raw value on
// malformed escapes so one bad field cannot spoil the rest of the record.
func safeDecodeURI(v string) string {
	if v == "" {
		return v
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return v
	}
	return decoded
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
