package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/OdhranMac/companies-house-api/pkg/registry"
	"github.com/spf13/cobra"
)

var (
	lookupNumber string
	lookupName   string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look up a single company by number or name",
	Long: `Lookup fetches one company profile and prints it as JSON.
With --name, the search endpoint resolves the name to the top result
first.

Examples:
  ch-enrich lookup --number 00445790
  ch-enrich lookup --name "Example Holdings"`,
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringVarP(&lookupNumber, "number", "n", "", "Company number")
	lookupCmd.Flags().StringVar(&lookupName, "name", "", "Company name to search for")
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if lookupNumber == "" && lookupName == "" {
		return fmt.Errorf("either --number or --name is required")
	}

	clientCfg := registry.DefaultConfig(cfg.APIKey)
	clientCfg.MinInterval = cfg.RequestInterval.Std()
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	client, err := registry.New(clientCfg)
	if err != nil {
		return fmt.Errorf("creating registry client: %w", err)
	}

	ctx := context.Background()

	number := lookupNumber
	if number == "" {
		result := client.SearchFirst(ctx, lookupName)
		if result == nil {
			return fmt.Errorf("no search results for %q", lookupName)
		}
		number = result.CompanyNumber
	}

	profile := client.CompanyProfile(ctx, number)
	if profile == nil {
		return fmt.Errorf("no result for company number %q", number)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(profile)
}
