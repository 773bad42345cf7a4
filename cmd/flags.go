package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nkrka/kyc-review/internal/ingest"
	"github.com/nkrka/kyc-review/internal/report"
)

// filterFlags collects the filter options shared by report and export.
type filterFlags struct {
	division string
	office   string
	status   string
	scan     string
	from     string
	to       string
	basis    string
	view     string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.division, "division", "", "keep only this division")
	cmd.Flags().StringVar(&f.office, "office", "", "keep only this office")
	cmd.Flags().StringVar(&f.status, "status", "", "keep only this account status")
	cmd.Flags().StringVar(&f.scan, "scan", "", "keep only this exact scan/upload status")
	cmd.Flags().StringVar(&f.from, "from", "", "start of the date range (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&f.to, "to", "", "end of the date range (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&f.basis, "basis", "submission", "date basis for range and trend: submission, open or lasttran")
	cmd.Flags().StringVar(&f.view, "view", "", "free-form view label echoed in the report summary")
}

// spec converts the flag values into a filter, validating dates and basis.
func (f *filterFlags) spec() (report.Spec, error) {
	s := report.Spec{
		ViewMode: f.view,
		Division: f.division,
		Office:   f.office,
		Status:   f.status,
		Scan:     f.scan,
	}

	switch f.basis {
	case "", "submission":
		s.Basis = ingest.BasisSubmission
	case "open":
		s.Basis = ingest.BasisAccountOpen
	case "lasttran":
		s.Basis = ingest.BasisLastTran
	default:
		return s, fmt.Errorf("unknown date basis %q, expected submission, open or lasttran", f.basis)
	}

	var err error
	if s.From, err = parseDay(f.from); err != nil {
		return s, fmt.Errorf("invalid --from: %w", err)
	}
	if s.To, err = parseDay(f.to); err != nil {
		return s, fmt.Errorf("invalid --to: %w", err)
	}
	if s.From != nil && s.To != nil && s.To.Before(*s.From) {
		return s, fmt.Errorf("--to %s is before --from %s", f.to, f.from)
	}
	return s, nil
}

func parseDay(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
