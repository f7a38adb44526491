package geoip

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/oschwald/maxminddb-golang"

	"github.com/mwenda/tambua/internal/logging"
)

// cityRecord is the slice of the GeoLite2-City schema the resolver reads.
type cityRecord struct {
	City struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
	Country struct {
		IsoCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
	RegisteredCountry struct {
		IsoCode string `maxminddb:"iso_code"`
	} `maxminddb:"registered_country"`
	Subdivisions []subdivision `maxminddb:"subdivisions"`
}

type subdivision struct {
	IsoCode string `maxminddb:"iso_code"`
}

// cityReader is the part of *maxminddb.Reader the resolver needs; tests
// substitute a fake.
type cityReader interface {
	Lookup(ip net.IP, result any) error
}

// lazyDB opens the database on first use and keeps the reader for the
// process lifetime. A failed open is logged once but does not poison later
// attempts; the next lookup simply tries again.
type lazyDB struct {
	path    string
	openFn  func(path string) (cityReader, error)
	mu      sync.Mutex
	reader  atomic.Value // cityReader
	logOnce sync.Once
}

func newLazyDB(path string) *lazyDB {
	return &lazyDB{
		path: path,
		openFn: func(p string) (cityReader, error) {
			return maxminddb.Open(p)
		},
	}
}

// get returns the shared reader, opening it if needed. Returns nil when the
// database is unavailable; callers resolve that as "no location".
func (d *lazyDB) get() cityReader {
	if v := d.reader.Load(); v != nil {
		return v.(cityReader)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if v := d.reader.Load(); v != nil {
		return v.(cityReader)
	}

	r, err := d.openFn(d.path)
	if err != nil {
		d.logOnce.Do(func() {
			logging.L().Error("failed to open geoip database", "path", d.path, "error", err)
		})
		return nil
	}

	logging.L().Info("geoip database loaded", "path", d.path)
	d.reader.Store(r)
	return r
}
