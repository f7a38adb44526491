package cli

import (
	"encoding/json"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"strings"

	"github.com/oschwald/geoip2-golang"
	"github.com/spf13/cobra"

	"github.com/mwenda/tambua/internal/config"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on a tambua installation",
	Long: `Run health checks on a tambua installation.

Checks performed:
  - Data directory writable
  - GeoIP database exists and opens
  - IGNORE_IP blocklist rules parse

Example:
  tambua doctor
  tambua doctor --json`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output results as JSON")
}

type CheckResult struct {
	Name       string `json:"name"`
	Pass       bool   `json:"pass"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Details    string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	results := []CheckResult{
		checkDataDir(cfg),
		checkDatabase(cfg),
		checkBlocklist(cfg),
	}

	if doctorJSON {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	} else {
		for _, r := range results {
			mark := "✓"
			if !r.Pass {
				mark = "✗"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, r.Name)
			if r.Error != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "    error: %s\n", r.Error)
			}
			if r.Suggestion != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "    hint:  %s\n", r.Suggestion)
			}
		}
	}

	for _, r := range results {
		if !r.Pass {
			return fmt.Errorf("%d check(s) failed", countFailed(results))
		}
	}
	return nil
}

func countFailed(results []CheckResult) int {
	n := 0
	for _, r := range results {
		if !r.Pass {
			n++
		}
	}
	return n
}

func checkDataDir(cfg *config.Config) CheckResult {
	res := CheckResult{Name: "Data directory writable"}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		res.Error = err.Error()
		return res
	}
	probe := filepath.Join(cfg.DataDir, ".tambua-doctor")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		res.Error = err.Error()
		return res
	}
	_ = os.Remove(probe)
	res.Pass = true
	res.Details = cfg.DataDir
	return res
}

func checkDatabase(cfg *config.Config) CheckResult {
	res := CheckResult{Name: "GeoIP database opens", Details: cfg.GeoDBPath}
	if _, err := os.Stat(cfg.GeoDBPath); err != nil {
		res.Error = err.Error()
		res.Suggestion = "run 'tambua fetchdb' or set GEOLITE_DB_PATH"
		return res
	}
	db, err := geoip2.Open(cfg.GeoDBPath)
	if err != nil {
		res.Error = err.Error()
		res.Suggestion = "the file exists but is not a readable MMDB; re-fetch it"
		return res
	}
	_ = db.Close()
	res.Pass = true
	return res
}

func checkBlocklist(cfg *config.Config) CheckResult {
	res := CheckResult{Name: "IGNORE_IP rules parse"}
	var bad []string
	for _, entry := range strings.Split(cfg.IgnoreIP, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			if _, err := netip.ParsePrefix(entry); err != nil {
				bad = append(bad, entry)
			}
			continue
		}
		if _, err := netip.ParseAddr(entry); err != nil {
			bad = append(bad, entry)
		}
	}
	if len(bad) > 0 {
		// Bad rules don't break resolution, but the operator should know.
		res.Error = "unparseable rules: " + strings.Join(bad, ", ")
		res.Suggestion = "bad rules only match as exact strings; fix or remove them"
		return res
	}
	res.Pass = true
	return res
}
