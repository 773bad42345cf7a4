package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nkrka/kyc-review/internal/report"
	"github.com/nkrka/kyc-review/internal/session"
)

var reportFlags struct {
	filterFlags
	input       string
	jsonOut     bool
	listFilters bool
	autoRange   bool
	maxActions  int
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Load a sheet and print the full review report",
	Long: `Load a consignment sheet, apply the filter flags and print KPIs, data
quality counters, pending-scan ageing, action items, the submission trend
and the per-division pending series.`,
	RunE: runReport,
}

func init() {
	reportFlags.register(reportCmd)
	reportCmd.Flags().StringVarP(&reportFlags.input, "input", "i", "", "sheet to load (.xlsx or .csv)")
	reportCmd.Flags().BoolVar(&reportFlags.jsonOut, "json", false, "emit the report as JSON")
	reportCmd.Flags().BoolVar(&reportFlags.listFilters, "list-filters", false, "print the available filter values and exit")
	reportCmd.Flags().BoolVar(&reportFlags.autoRange, "auto-range", false, "default to the 30 days ending at the latest submission")
	reportCmd.Flags().IntVar(&reportFlags.maxActions, "max-actions", 20, "action items to print (0 for all)")
	_ = reportCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	spec, err := reportFlags.spec()
	if err != nil {
		return err
	}
	matcher, err := newMatcher()
	if err != nil {
		return err
	}

	s := session.New(logger, matcher)
	if err := s.LoadFile(reportFlags.input); err != nil {
		return err
	}

	if reportFlags.listFilters {
		return printFilterOptions(cmd, s)
	}

	s.Filter = spec
	if (reportFlags.autoRange || cfg.Report.AutoRange) && !spec.HasRange() {
		if !s.AutoRange() {
			logger.Warn("auto range skipped, no valid submission dates")
		}
	}
	res := s.Apply(s.Filter, time.Now())

	if reportFlags.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printReport(cmd, s, res)
	return nil
}

func printFilterOptions(cmd *cobra.Command, s *session.State) error {
	opts := report.FilterOptions(s.Table)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Divisions:     %s\n", strings.Join(opts.Divisions, ", "))
	fmt.Fprintf(out, "Offices:       %s\n", strings.Join(opts.Offices, ", "))
	fmt.Fprintf(out, "Statuses:      %s\n", strings.Join(opts.Statuses, ", "))
	fmt.Fprintf(out, "Scan statuses: %s\n", strings.Join(opts.ScanStatuses, ", "))
	return nil
}

func printReport(cmd *cobra.Command, s *session.State, res *report.Result) {
	out := cmd.OutOrStdout()

	k := res.KPIs
	fmt.Fprintf(out, "KPIs\n")
	fmt.Fprintf(out, "  Total rows           %d\n", k.Total)
	fmt.Fprintf(out, "  Submitted            %d\n", k.Submitted)
	fmt.Fprintf(out, "  Scan done            %d\n", k.ScanDone)
	fmt.Fprintf(out, "  Pending scan         %d\n", k.PendingScan)
	fmt.Fprintf(out, "  Missing consignment  %d\n", k.MissingConsignment)
	fmt.Fprintf(out, "  Omissions            %d (%.1f%%)\n", k.Omissions, k.OmissionRate)
	fmt.Fprintf(out, "  Unique SOL IDs       %d\n", k.UniqueSolIDs)
	fmt.Fprintf(out, "  Unique accounts      %d\n", k.UniqueAccounts)
	fmt.Fprintf(out, "  Missing CIF / name   %d / %d\n", k.MissingCIF, k.MissingName)
	fmt.Fprintf(out, "  Divisions            %d\n", k.DivisionCount)
	if len(k.TopSchemes) > 0 {
		fmt.Fprintf(out, "  Top schemes          ")
		for i, sc := range k.TopSchemes {
			if i > 0 {
				fmt.Fprint(out, ", ")
			}
			fmt.Fprintf(out, "%s (%d)", sc.Code, sc.Count)
		}
		fmt.Fprintln(out)
	}

	q := res.Quality
	fmt.Fprintf(out, "\nData quality\n")
	fmt.Fprintf(out, "  Invalid dates        submission %d, open %d, last txn %d\n",
		q.InvalidSubmissionDates, q.InvalidOpenDates, q.InvalidLastTranDates)
	fmt.Fprintf(out, "  Duplicates           accounts %d, consignments %d\n",
		q.DuplicateAccounts, q.DuplicateConsignments)
	fmt.Fprintf(out, "  Missing core IDs     %d\n", q.MissingCoreIdentifiers)

	fmt.Fprintf(out, "\nPending scan ageing (%d pending)\n", res.Ageing.PendingTotal)
	for i, label := range report.AgeingLabels {
		fmt.Fprintf(out, "  %-10s %d\n", label, res.Ageing.Buckets[i])
	}

	fmt.Fprintf(out, "\nScan status: done %d, pending %d, blank %d\n",
		res.Scan.Done, res.Scan.Pending, res.Scan.Blank)

	if len(res.Divisions) > 0 {
		fmt.Fprintf(out, "\nPending %% by division\n")
		for _, d := range res.Divisions {
			fmt.Fprintf(out, "  %-20s %.2f%%\n", d.Division, d.PendingPct)
		}
	}

	if len(res.Trend) > 0 {
		fmt.Fprintf(out, "\nTrend (%s)\n", s.Filter.Basis)
		for _, p := range res.Trend {
			fmt.Fprintf(out, "  %s  %d\n", p.Day, p.Count)
		}
	}

	if len(res.Actions) > 0 {
		limit := reportFlags.maxActions
		if limit <= 0 || limit > len(res.Actions) {
			limit = len(res.Actions)
		}
		fmt.Fprintf(out, "\nAction items (%d, showing %d)\n", len(res.Actions), limit)
		for _, a := range res.Actions[:limit] {
			fmt.Fprintf(out, "  %s / %s / %s / %s: %s\n",
				a.Division, a.Office, a.SolID, a.AccountNo, a.FlagSummary())
		}
	}

	fmt.Fprintf(out, "\n%s\n", report.Summary(res.Rows, s.Filter))
}
