package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwenda/tambua/internal/config"
	"github.com/mwenda/tambua/internal/geoip"
)

var fetchdbCmd = &cobra.Command{
	Use:   "fetchdb",
	Short: "Download the GeoLite2-City database",
	Long: `Download the GeoLite2-City database into the data directory.

The service works without the database (the CDN geo-header tier still
resolves locations); this just enables the local database tier.

Example:
  tambua fetchdb
  GEOLITE_DB_PATH=/var/lib/tambua/GeoLite2-City.mmdb tambua fetchdb`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := geoip.Download(cfg.GeoDBPath); err != nil {
			return fmt.Errorf("fetch failed: %w (you can download the database manually and place it at %s)", err, cfg.GeoDBPath)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "database installed at %s\n", cfg.GeoDBPath)
		return nil
	},
}
