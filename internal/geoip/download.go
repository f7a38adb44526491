package geoip

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/mwenda/tambua/internal/logging"
)

// DefaultDatabaseFile is the expected name of the city database inside the
// data directory.
const DefaultDatabaseFile = "GeoLite2-City.mmdb"

// databaseURL points at the jsDelivr mirror of the geolite2-city npm package.
const databaseURL = "https://cdn.jsdelivr.net/npm/geolite2-city/GeoLite2-City.mmdb.gz"

// DatabasePath returns the default database location under dataDir.
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, DefaultDatabaseFile)
}

// Download fetches the gzip'd GeoLite2-City database and installs it at
// dbPath. The download is best-effort: resolution degrades gracefully without
// the file, so callers treat failure as advisory.
func Download(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return err
	}

	logging.L().Info("downloading geoip database", "url", databaseURL)

	resp, err := http.Get(databaseURL)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("bad gzip stream: %w", err)
	}
	defer func() { _ = gz.Close() }()

	// Write to a temp file first so a partial download never replaces a
	// working database.
	tmp, err := os.CreateTemp(filepath.Dir(dbPath), DefaultDatabaseFile+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, gz); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), dbPath); err != nil {
		return err
	}

	logging.L().Info("geoip database installed", "path", dbPath)
	return nil
}
