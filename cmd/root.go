// Package cmd wires the review tool's CLI: load a consignment sheet, report
// on it, export the filtered rows, or just validate its headers.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nkrka/kyc-review/internal/schema"
	"github.com/nkrka/kyc-review/pkg/config"
)

var (
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kyc-review",
	Short: "Reporting tool for KYC consignment submission sheets",
	Long: `kyc-review loads a consignment tracking sheet (.xlsx or .csv), validates
its headers against the approved template, and reports on submission
progress: KPIs, data quality, pending-scan ageing, action items and
per-division series. The filtered rows can be exported back to CSV.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.OnInitialize(initRuntime)
}

// initRuntime loads configuration and builds the shared logger. Runs before
// any subcommand's RunE.
func initRuntime() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := cfg.Log.SlogLevel()
	if verbose || cfg.Log.Verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// newMatcher builds the header matcher, merging the configured alias file
// over the built-in table when one is set.
func newMatcher() (*schema.Matcher, error) {
	if cfg.Report.AliasFile == "" {
		return schema.NewMatcher(nil), nil
	}
	aliases, err := schema.LoadAliasFile(cfg.Report.AliasFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load alias file: %w", err)
	}
	return schema.NewMatcher(aliases), nil
}
