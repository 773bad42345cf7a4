package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nkrka/kyc-review/internal/ingest"
	"github.com/nkrka/kyc-review/internal/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <sheet>",
	Short: "Check a sheet's headers against the approved template",
	Long: `Decode a sheet and match its header row against the canonical template,
reporting any missing columns without loading the data. Exits non-zero when
the sheet would be rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	matcher, err := newMatcher()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheet, err := ingest.Load(filepath.Base(path), f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	mapping, verr := matcher.Match(sheet.Headers)
	if verr != nil {
		fmt.Fprintf(out, "Missing headers: %s\n", strings.Join(verr.Missing, ", "))
		fmt.Fprintf(out, "Detected headers: %s\n", strings.Join(verr.Detected, " | "))
		return errors.New("header validation failed")
	}

	for _, field := range schema.Fields {
		if actual := mapping[field]; actual != field {
			fmt.Fprintf(out, "  %q matched via alias %q\n", field, actual)
		}
	}
	fmt.Fprintf(out, "OK: all %d headers matched, %d data rows\n", len(schema.Fields), len(sheet.Rows))
	return nil
}
