package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/OdhranMac/companies-house-api/internal/config"
	"github.com/OdhranMac/companies-house-api/internal/tabular"
	"github.com/OdhranMac/companies-house-api/pkg/batch"
	"github.com/OdhranMac/companies-house-api/pkg/logging"
	"github.com/OdhranMac/companies-house-api/pkg/registry"
	"github.com/spf13/cobra"
)

var (
	enrichInput      string
	enrichOutput     string
	enrichDelay      time.Duration
	enrichDirectors  bool
	enrichCharges    bool
	enrichInsolvency bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a CSV of company numbers with registry data",
	Long: `Enrich reads a CSV with a "Company Number" column, looks each
company up on Companies House, and writes an enriched CSV with one row
per input row. Rows that cannot be resolved get sentinel values; the
run never aborts because of a single bad row.

Examples:
  # Basic enrichment
  ch-enrich enrich --input companies.csv --output enriched.csv

  # Include directors and charges
  ch-enrich enrich -i companies.csv -o enriched.csv --directors --charges

  # Slow down to 1s between requests
  ch-enrich enrich -i companies.csv -o enriched.csv --delay 1s`,
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)

	enrichCmd.Flags().StringVarP(&enrichInput, "input", "i", "", "Input CSV path (required)")
	enrichCmd.Flags().StringVarP(&enrichOutput, "output", "o", "", "Output CSV path (required)")
	enrichCmd.Flags().DurationVar(&enrichDelay, "delay", 0, "Minimum time between API requests (default 600ms)")
	enrichCmd.Flags().BoolVar(&enrichDirectors, "directors", false, "Include a Directors column")
	enrichCmd.Flags().BoolVar(&enrichCharges, "charges", false, "Include a Charges column")
	enrichCmd.Flags().BoolVar(&enrichInsolvency, "insolvency", false, "Include an Insolvency column")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.NewLogger("ch-enrich")

	// Flags override the config file.
	if enrichInput != "" {
		cfg.Input = enrichInput
	}
	if enrichOutput != "" {
		cfg.Output = enrichOutput
	}
	if enrichDelay > 0 {
		cfg.RequestInterval = config.Duration(enrichDelay)
	}
	if enrichDirectors {
		cfg.IncludeDirectors = true
	}
	if enrichCharges {
		cfg.IncludeCharges = true
	}
	if enrichInsolvency {
		cfg.IncludeInsolvency = true
	}

	if cfg.Input == "" || cfg.Output == "" {
		return fmt.Errorf("both --input and --output are required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	numbers, err := tabular.ReadCompanyNumbers(cfg.Input)
	if err != nil {
		logger.Error().Err(err).Str("input", cfg.Input).Msg("Failed to read input")
		return err
	}
	logger.Info().Str("input", cfg.Input).Int("rows", len(numbers)).Msg("Input loaded")

	clientCfg := registry.DefaultConfig(cfg.APIKey)
	clientCfg.MinInterval = cfg.RequestInterval.Std()
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	client, err := registry.New(clientCfg)
	if err != nil {
		return fmt.Errorf("creating registry client: %w", err)
	}

	opts := batch.Options{
		IncludeDirectors:  cfg.IncludeDirectors,
		IncludeCharges:    cfg.IncludeCharges,
		IncludeInsolvency: cfg.IncludeInsolvency,
	}
	runner := batch.NewRunner(client, opts)
	runner.SetProgressFunc(func(p batch.Progress) {
		fmt.Fprintf(os.Stderr, "%d/%d (%d%%): %s | %s\n",
			p.Index+1, p.Total, p.Percent, p.CompanyNumber, p.CompanyName)
	})

	records := runner.Run(context.Background(), numbers)

	if err := tabular.WriteRecords(cfg.Output, records, opts); err != nil {
		logger.Error().Err(err).Str("output", cfg.Output).Msg("Failed to write output")
		return err
	}

	state := client.ThrottleState()
	logger.Info().
		Str("output", cfg.Output).
		Int("rows", len(records)).
		Int("requests", state.Requests).
		Dur("throttle_waited", state.TotalWaited).
		Msg("Enrichment complete")

	return nil
}
