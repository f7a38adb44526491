// Package metrics provides Prometheus-backed counters for the resolution
// pipeline. It satisfies the Metrics interfaces declared by the clientip and
// geoip packages so those stay free of a prometheus dependency.
package metrics

import (
	"errors"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates the pipeline counters. Safe for concurrent use.
type Metrics struct {
	extractionTotal *prom.CounterVec
	geoTotal        *prom.CounterVec
	blockedTotal    prom.Counter
}

// New creates Metrics and registers its collectors on
// prom.DefaultRegisterer.
func New() (*Metrics, error) {
	return NewWithRegisterer(prom.DefaultRegisterer)
}

// NewWithRegisterer creates Metrics on the given registerer. Already
// registered compatible collectors are reused, so repeated construction in
// one process is harmless.
func NewWithRegisterer(registerer prom.Registerer) (*Metrics, error) {
	if registerer == nil {
		registerer = prom.DefaultRegisterer
	}

	extraction := prom.NewCounterVec(
		prom.CounterOpts{
			Name: "tambua_ip_extraction_total",
			Help: "IP extraction attempts by header source and outcome (hit, private, empty, miss).",
		},
		[]string{"source", "outcome"},
	)
	geo := prom.NewCounterVec(
		prom.CounterOpts{
			Name: "tambua_geo_resolution_total",
			Help: "Geo resolutions by tier (headers, database, local, miss).",
		},
		[]string{"tier"},
	)
	blocked := prom.NewCounter(
		prom.CounterOpts{
			Name: "tambua_blocked_ip_total",
			Help: "Requests whose client IP matched the operator blocklist.",
		},
	)

	var err error
	if extraction, err = registerCounterVec(registerer, extraction); err != nil {
		return nil, err
	}
	if geo, err = registerCounterVec(registerer, geo); err != nil {
		return nil, err
	}
	if blocked, err = registerCounter(registerer, blocked); err != nil {
		return nil, err
	}

	return &Metrics{
		extractionTotal: extraction,
		geoTotal:        geo,
		blockedTotal:    blocked,
	}, nil
}

// ExtractionResult implements clientip.Metrics.
func (m *Metrics) ExtractionResult(source, outcome string) {
	m.extractionTotal.WithLabelValues(source, outcome).Inc()
}

// GeoResult implements geoip.Metrics.
func (m *Metrics) GeoResult(tier string) {
	m.geoTotal.WithLabelValues(tier).Inc()
}

// BlockedIP counts a blocklist hit.
func (m *Metrics) BlockedIP() {
	m.blockedTotal.Inc()
}

func registerCounterVec(registerer prom.Registerer, c *prom.CounterVec) (*prom.CounterVec, error) {
	if err := registerer.Register(c); err != nil {
		var already prom.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prom.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func registerCounter(registerer prom.Registerer, c prom.Counter) (prom.Counter, error) {
	if err := registerer.Register(c); err != nil {
		var already prom.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(prom.Counter); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}
