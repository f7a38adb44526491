package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwenda/tambua/internal/clientinfo"
	"github.com/mwenda/tambua/internal/clientip"
	"github.com/mwenda/tambua/internal/config"
	"github.com/mwenda/tambua/internal/geoip"
	"github.com/mwenda/tambua/internal/logging"
)

var (
	resolveIP      string
	resolveUA      string
	resolveScreen  string
	resolveHeaders []string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a client identity from the command line",
	Long: `Run the resolution pipeline once and print the resulting record as JSON.

Headers are supplied as repeated --header "Name: value" flags; --ip acts as a
payload-supplied IP (the CDN geo-header tier is skipped for it, as it would
be for an explicit payload IP).

Example:
  tambua resolve --ip 203.0.113.5 --ua "Mozilla/5.0 ..." --screen 1366x768
  tambua resolve --header "x-forwarded-for: 203.0.113.5, 10.0.0.1"`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveIP, "ip", "", "payload-supplied client IP")
	resolveCmd.Flags().StringVar(&resolveUA, "ua", "", "user agent string")
	resolveCmd.Flags().StringVar(&resolveScreen, "screen", "", `screen size, e.g. "1366x768"`)
	resolveCmd.Flags().StringArrayVar(&resolveHeaders, "header", nil, `request header, "Name: value"`)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	trace := logging.Tracer(cfg.DebugGeo)
	geo := geoip.New(cfg.GeoDBPath)
	geo.SkipHeaders = cfg.SkipLocationHeaders
	geo.Trace = trace

	svc := &clientinfo.Service{
		Extractor: &clientip.Extractor{
			OverrideHeader: cfg.ClientIPHeader,
			Trace:          trace,
		},
		Geo: geo,
	}

	headers := make(http.Header)
	for _, raw := range resolveHeaders {
		name, value, ok := strings.Cut(raw, ":")
		if !ok {
			return fmt.Errorf("malformed --header %q, want \"Name: value\"", raw)
		}
		headers.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	var payload clientinfo.Payload
	if resolveIP != "" {
		payload.IP = &resolveIP
	}
	if resolveUA != "" {
		payload.UserAgent = &resolveUA
	}
	if resolveScreen != "" {
		payload.Screen = &resolveScreen
	}

	info := svc.Resolve(headers, payload)
	blocked := clientip.NewBlocklist(cfg.IgnoreIP).Contains(info.IP)

	out, err := json.MarshalIndent(struct {
		clientinfo.ClientInfo
		Blocked bool `json:"blocked"`
	}{info, blocked}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
