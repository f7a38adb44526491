package cli

import (
	"fmt"

	fiberzap "github.com/gofiber/contrib/v3/zap"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mwenda/tambua/internal/clientinfo"
	"github.com/mwenda/tambua/internal/clientip"
	"github.com/mwenda/tambua/internal/config"
	"github.com/mwenda/tambua/internal/geoip"
	"github.com/mwenda/tambua/internal/handlers"
	"github.com/mwenda/tambua/internal/logging"
	"github.com/mwenda/tambua/internal/metrics"
	"github.com/mwenda/tambua/internal/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tambua resolver service",
	Long: `Start the HTTP service exposing the resolution API.

Environment variables:
  PORT                   Server port (default: 3000)
  DATA_DIR               GeoIP database directory (default: ./data)
  GEOLITE_DB_PATH        Override GeoLite2-City database path
  CLIENT_IP_HEADER       Trusted override header for client IP extraction
  IGNORE_IP              Comma-separated IP/CIDR blocklist
  SKIP_LOCATION_HEADERS  Disable the CDN geo-header tier
  DEBUG_GEO              Enable pipeline diagnostic tracing

Example:
  PORT=8080 tambua serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	app, err := buildApp(cfg)
	if err != nil {
		return err
	}

	logging.L().Info("tambua listening", "port", cfg.Port, "geo_db", cfg.GeoDBPath)
	return app.Listen(":" + cfg.Port)
}

// buildApp wires the pipeline and routes; split from runServe so tests can
// exercise the full stack with app.Test.
func buildApp(cfg *config.Config) (*fiber.App, error) {
	m, err := metrics.New()
	if err != nil {
		return nil, fmt.Errorf("metrics registration failed: %w", err)
	}

	trace := logging.Tracer(cfg.DebugGeo)

	extractor := &clientip.Extractor{
		OverrideHeader: cfg.ClientIPHeader,
		Trace:          trace,
		Metrics:        m,
	}
	geo := geoip.New(cfg.GeoDBPath)
	geo.SkipHeaders = cfg.SkipLocationHeaders
	geo.Trace = trace
	geo.Metrics = m

	blocklist := clientip.NewBlocklist(cfg.IgnoreIP)
	blocklist.Trace = trace

	h := &handlers.Handler{
		Service: &clientinfo.Service{
			Extractor: extractor,
			Geo:       geo,
		},
		Blocklist: blocklist,
		Metrics:   m,
	}

	requestLogger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName: "Tambua - client identity resolution",
	})

	app.Use(recover.New())
	app.Use(fiberzap.New(fiberzap.Config{
		Logger: requestLogger,
		Fields: []string{"latency", "status", "method", "url", "ip"},
	}))

	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Tambua-Version", Version)
		return c.Next()
	})

	app.Get("/healthz", handlers.HandleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Post("/api/resolve", h.HandleResolve)
	app.Get("/api/resolve", h.HandleResolve)
	app.Get("/api/lookup/:ip", h.HandleLookup, middleware.IPBlocklist(extractor, blocklist, m))

	return app, nil
}
