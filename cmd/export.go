package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nkrka/kyc-review/internal/export"
	"github.com/nkrka/kyc-review/internal/session"
)

var exportFlags struct {
	filterFlags
	input  string
	output string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered rows as CSV",
	Long: `Load a consignment sheet, apply the filter flags and write the matching
rows to a CSV file with the columns in template order. Without --output the
file is named kyc_export_<date>.csv in the configured export directory.`,
	RunE: runExport,
}

func init() {
	exportFlags.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportFlags.input, "input", "i", "", "sheet to load (.xlsx or .csv)")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "path of the CSV to write")
	_ = exportCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	spec, err := exportFlags.spec()
	if err != nil {
		return err
	}
	matcher, err := newMatcher()
	if err != nil {
		return err
	}

	s := session.New(logger, matcher)
	if err := s.LoadFile(exportFlags.input); err != nil {
		return err
	}
	s.Filter = spec

	path := exportFlags.output
	if path == "" {
		path = filepath.Join(cfg.Export.Dir, export.DefaultFilename(time.Now()))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	records := s.Filtered()
	if err := export.WriteCSV(f, records); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", len(records), path)
	return nil
}
