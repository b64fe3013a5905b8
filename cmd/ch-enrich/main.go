// Command ch-enrich enriches a spreadsheet of Companies House company
// numbers with profile data from the public registry API.
package main

import (
	"os"

	"github.com/OdhranMac/companies-house-api/internal/config"
	"github.com/OdhranMac/companies-house-api/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logPretty  bool
)

var rootCmd = &cobra.Command{
	Use:   "ch-enrich",
	Short: "Companies House batch enrichment tool",
	Long: `ch-enrich fetches company records (name, jurisdiction, type,
registered address, and optionally directors, charges and an insolvency
flag) from the Companies House API for a spreadsheet of company numbers.

The API key is read from the config file or the CH_API_KEY environment
variable. Requests are spaced to respect the published rate limit of
600 requests per 5 minutes.`,
}

// loadConfig reads the config file (if any) and applies the global
// logging flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logPretty {
		cfg.Log.Pretty = true
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
	})

	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "pretty", false, "Human-readable log output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
