// Package report filters the canonical consignment table and derives every
// figure the review dashboard shows: KPIs, data-quality counters, ageing
// buckets, action items and chart series. All computations are pure; each
// call recomputes from the records it is handed.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkrka/kyc-review/internal/ingest"
	"github.com/nkrka/kyc-review/internal/schema"
)

// scanDoneSynonyms marks a scan/upload status as complete when the text
// contains any of them. Substring matching is deliberate: sheets carry
// values like "Uploaded on 12/01" or "scan done".
var scanDoneSynonyms = []string{"done", "completed", "complete", "uploaded", "scanned", "ok", "yes"}

// IsDoneScan reports whether a scan/upload status value counts as complete.
func IsDoneScan(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	for _, k := range scanDoneSynonyms {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func hasText(v string) bool { return strings.TrimSpace(v) != "" }

// SchemeCount is one entry of the top-schemes KPI.
type SchemeCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// KPIs are the headline figures over the filtered set.
type KPIs struct {
	Total              int           `json:"total"`
	Submitted          int           `json:"submitted"`
	ScanDone           int           `json:"scan_done"`
	PendingScan        int           `json:"pending_scan"`
	MissingConsignment int           `json:"missing_consignment"`
	Omissions          int           `json:"omissions"`
	OmissionRate       float64       `json:"omission_rate"`
	UniqueSolIDs       int           `json:"unique_sol_ids"`
	UniqueAccounts     int           `json:"unique_accounts"`
	MissingCIF         int           `json:"missing_cif"`
	MissingName        int           `json:"missing_name"`
	TopSchemes         []SchemeCount `json:"top_schemes"`
	DivisionCount      int           `json:"division_count"`
}

// ComputeKPIs derives the headline figures. A record is "submitted" when its
// submission date parsed; pending scan means submitted but not done.
func ComputeKPIs(records []ingest.Record) KPIs {
	k := KPIs{Total: len(records)}

	for _, r := range records {
		submitted := r.SubmissionDate.Valid()
		done := IsDoneScan(r.Field(schema.FieldScanStatus))

		if submitted {
			k.Submitted++
		}
		if done {
			k.ScanDone++
		}
		if submitted && !done {
			k.PendingScan++
		}
		if submitted && !hasText(r.Field(schema.FieldConsignmentNo)) {
			k.MissingConsignment++
		}
		if hasText(r.Field(schema.FieldOmissions)) {
			k.Omissions++
		}
		if !hasText(r.Field(schema.FieldCIFID)) {
			k.MissingCIF++
		}
		if !hasText(r.Field(schema.FieldAcctName)) {
			k.MissingName++
		}
	}

	if k.Total > 0 {
		k.OmissionRate = float64(k.Omissions) / float64(k.Total) * 100
	}
	k.UniqueSolIDs = uniqueCount(records, schema.FieldSolID)
	k.UniqueAccounts = uniqueCount(records, schema.FieldAccountNo)
	k.TopSchemes = topSchemes(records, 5)
	k.DivisionCount = uniqueCount(records, schema.FieldDivision)
	return k
}

// uniqueCount counts distinct non-blank values of a field, case-sensitively.
func uniqueCount(records []ingest.Record, field string) int {
	seen := make(map[string]bool)
	for _, r := range records {
		if v := r.Field(field); v != "" {
			seen[v] = true
		}
	}
	return len(seen)
}

// topSchemes ranks scheme codes by frequency. The sort is stable over
// first-encounter order, so ties keep the order they appeared in.
func topSchemes(records []ingest.Record, n int) []SchemeCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		code := r.Field(schema.FieldSchmCode)
		if code == "" {
			continue
		}
		if _, ok := counts[code]; !ok {
			order = append(order, code)
		}
		counts[code]++
	}

	out := make([]SchemeCount, 0, len(order))
	for _, code := range order {
		out = append(out, SchemeCount{Code: code, Count: counts[code]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Quality holds the data-quality counters.
type Quality struct {
	InvalidSubmissionDates int `json:"invalid_submission_dates"`
	InvalidOpenDates       int `json:"invalid_open_dates"`
	InvalidLastTranDates   int `json:"invalid_last_tran_dates"`
	DuplicateAccounts      int `json:"duplicate_accounts"`
	DuplicateConsignments  int `json:"duplicate_consignments"`
	MissingCoreIdentifiers int `json:"missing_core_identifiers"`
}

// ComputeQuality derives the quality counters. An invalid date means the
// cell held text that did not parse; blanks never count. Duplicate counts
// are the sum of (occurrences - 1) over values seen more than once.
func ComputeQuality(records []ingest.Record) Quality {
	var q Quality
	for _, r := range records {
		if r.SubmissionDate.Status == ingest.DateInvalid {
			q.InvalidSubmissionDates++
		}
		if r.AcctOpenDate.Status == ingest.DateInvalid {
			q.InvalidOpenDates++
		}
		if r.LastTranDate.Status == ingest.DateInvalid {
			q.InvalidLastTranDates++
		}

		for _, f := range []string{schema.FieldSolID, schema.FieldOffice, schema.FieldDivision, schema.FieldAccountNo} {
			if !hasText(r.Field(f)) {
				q.MissingCoreIdentifiers++
				break
			}
		}
	}
	q.DuplicateAccounts = countDuplicates(records, schema.FieldAccountNo)
	q.DuplicateConsignments = countDuplicates(records, schema.FieldConsignmentNo)
	return q
}

func countDuplicates(records []ingest.Record, field string) int {
	counts := make(map[string]int)
	for _, r := range records {
		if v := r.Field(field); v != "" {
			counts[v]++
		}
	}
	dup := 0
	for _, c := range counts {
		if c > 1 {
			dup += c - 1
		}
	}
	return dup
}

// Ageing bucket labels, oldest last.
var AgeingLabels = [4]string{"0–2 days", "3–7 days", "8–15 days", ">15 days"}

// Ageing buckets the records that are submitted but not yet scanned by how
// many whole days their submission has been outstanding.
type Ageing struct {
	PendingTotal int    `json:"pending_total"`
	Buckets      [4]int `json:"buckets"`
}

// ComputeAgeing buckets pending scans by whole-day age relative to now.
// A future-dated submission has a negative age and lands in the first
// bucket; that matches the tool's long-standing behavior and is covered by
// tests, so don't "fix" it here.
func ComputeAgeing(records []ingest.Record, now time.Time) Ageing {
	var a Ageing
	today := startOfDay(now)
	for _, r := range records {
		if !r.SubmissionDate.Valid() || IsDoneScan(r.Field(schema.FieldScanStatus)) {
			continue
		}
		a.PendingTotal++

		days := int(today.Sub(r.SubmissionDate.Time).Hours() / 24)
		switch {
		case days <= 2:
			a.Buckets[0]++
		case days <= 7:
			a.Buckets[1]++
		case days <= 15:
			a.Buckets[2]++
		default:
			a.Buckets[3]++
		}
	}
	return a
}

// Action item flag labels, in the fixed order they are reported.
const (
	FlagPendingScan        = "Pending Scan"
	FlagMissingConsignment = "Missing Consignment"
	FlagOmission           = "Omission/Rejection"
	FlagMissingCIF         = "Missing CIF"
	FlagMissingName        = "Missing Name"
)

// ActionItem is one record flagged for operator follow-up.
type ActionItem struct {
	Division       string   `json:"division"`
	Office         string   `json:"office"`
	SolID          string   `json:"sol_id"`
	AccountNo      string   `json:"account_no"`
	SubmissionDate string   `json:"submission_date"`
	ScanStatus     string   `json:"scan_status"`
	ConsignmentNo  string   `json:"consignment_no"`
	Omissions      string   `json:"omissions"`
	Flags          []string `json:"flags"`
}

// FlagSummary joins the fired flags with pipes for display.
func (a ActionItem) FlagSummary() string { return strings.Join(a.Flags, " | ") }

// ComputeActionItems flags every record needing follow-up, with the reasons
// in fixed order: pending scan, missing consignment, omission, missing CIF,
// missing name.
func ComputeActionItems(records []ingest.Record) []ActionItem {
	var items []ActionItem
	for _, r := range records {
		submitted := r.SubmissionDate.Valid()

		var flags []string
		if submitted && !IsDoneScan(r.Field(schema.FieldScanStatus)) {
			flags = append(flags, FlagPendingScan)
		}
		if submitted && !hasText(r.Field(schema.FieldConsignmentNo)) {
			flags = append(flags, FlagMissingConsignment)
		}
		if hasText(r.Field(schema.FieldOmissions)) {
			flags = append(flags, FlagOmission)
		}
		if !hasText(r.Field(schema.FieldCIFID)) {
			flags = append(flags, FlagMissingCIF)
		}
		if !hasText(r.Field(schema.FieldAcctName)) {
			flags = append(flags, FlagMissingName)
		}
		if len(flags) == 0 {
			continue
		}

		items = append(items, ActionItem{
			Division:       r.Field(schema.FieldDivision),
			Office:         r.Field(schema.FieldOffice),
			SolID:          r.Field(schema.FieldSolID),
			AccountNo:      r.Field(schema.FieldAccountNo),
			SubmissionDate: r.Field(schema.FieldSubmissionDate),
			ScanStatus:     r.Field(schema.FieldScanStatus),
			ConsignmentNo:  r.Field(schema.FieldConsignmentNo),
			Omissions:      r.Field(schema.FieldOmissions),
			Flags:          flags,
		})
	}
	return items
}

// TrendPoint is one day of the trend series.
type TrendPoint struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// ComputeTrend counts records per calendar day of the basis date. Records
// without a valid basis date are excluded; days sort ascending as ISO
// strings.
func ComputeTrend(records []ingest.Record, basis ingest.DateBasis) []TrendPoint {
	counts := make(map[string]int)
	for _, r := range records {
		d := r.DateOn(basis)
		if !d.Valid() {
			continue
		}
		counts[d.ISO()]++
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]TrendPoint, 0, len(days))
	for _, day := range days {
		out = append(out, TrendPoint{Day: day, Count: counts[day]})
	}
	return out
}

// BlankDivision is the bucket label for records with no division.
const BlankDivision = "(Blank)"

// DivisionShare is one division's pending-scan percentage.
type DivisionShare struct {
	Division   string  `json:"division"`
	PendingPct float64 `json:"pending_pct"`
}

// ComputeDivisionSeries ranks divisions by pending-scan percentage
// (pending / submitted, per division), rounded to two decimals, descending,
// capped at the top 12. Divisions with no submissions score zero.
func ComputeDivisionSeries(records []ingest.Record) []DivisionShare {
	type tally struct {
		submitted int
		pending   int
	}
	tallies := make(map[string]*tally)
	var order []string
	for _, r := range records {
		div := r.Field(schema.FieldDivision)
		if div == "" {
			div = BlankDivision
		}
		tl, ok := tallies[div]
		if !ok {
			tl = &tally{}
			tallies[div] = tl
			order = append(order, div)
		}
		if r.SubmissionDate.Valid() {
			tl.submitted++
			if !IsDoneScan(r.Field(schema.FieldScanStatus)) {
				tl.pending++
			}
		}
	}

	out := make([]DivisionShare, 0, len(order))
	for _, div := range order {
		tl := tallies[div]
		pct := 0.0
		if tl.submitted > 0 {
			raw := float64(tl.pending) / float64(tl.submitted) * 100
			pct, _ = decimal.NewFromFloat(raw).Round(2).Float64()
		}
		out = append(out, DivisionShare{Division: div, PendingPct: pct})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PendingPct > out[j].PendingPct })
	if len(out) > 12 {
		out = out[:12]
	}
	return out
}

// ScanDistribution is the three-way split of scan/upload status. The counts
// always sum to the filtered total.
type ScanDistribution struct {
	Done    int `json:"done"`
	Pending int `json:"pending"`
	Blank   int `json:"blank"`
}

// ComputeScanDistribution splits records into done / present-but-not-done /
// blank scan status.
func ComputeScanDistribution(records []ingest.Record) ScanDistribution {
	var d ScanDistribution
	for _, r := range records {
		v := r.Field(schema.FieldScanStatus)
		switch {
		case IsDoneScan(v):
			d.Done++
		case hasText(v):
			d.Pending++
		default:
			d.Blank++
		}
	}
	return d
}

// Result is one full aggregation pass over the filtered record set.
type Result struct {
	Rows      int              `json:"rows"`
	KPIs      KPIs             `json:"kpis"`
	Quality   Quality          `json:"quality"`
	Ageing    Ageing           `json:"ageing"`
	Actions   []ActionItem     `json:"actions"`
	Trend     []TrendPoint     `json:"trend"`
	Divisions []DivisionShare  `json:"divisions"`
	Scan      ScanDistribution `json:"scan"`
}

// Build filters the table and computes every derived view in one pass.
// Nothing is cached; callers re-Build whenever the filter changes.
func Build(records []ingest.Record, f Spec, now time.Time) *Result {
	filtered := Filter(records, f)
	return &Result{
		Rows:      len(filtered),
		KPIs:      ComputeKPIs(filtered),
		Quality:   ComputeQuality(filtered),
		Ageing:    ComputeAgeing(filtered, now),
		Actions:   ComputeActionItems(filtered),
		Trend:     ComputeTrend(filtered, f.basis()),
		Divisions: ComputeDivisionSeries(filtered),
		Scan:      ComputeScanDistribution(filtered),
	}
}

// Summary renders the one-line recap shown under every report.
func Summary(rows int, f Spec) string {
	rangeText := "All dates"
	if f.HasRange() {
		var from, to string
		if f.From != nil {
			from = startOfDay(*f.From).Format("2006-01-02")
		}
		if f.To != nil {
			to = startOfDay(*f.To).Format("2006-01-02")
		}
		rangeText = fmt.Sprintf("%s → %s", from, to)
	}
	line := fmt.Sprintf("Showing %d rows • Date basis: %s • Range: %s", rows, f.basis(), rangeText)
	if f.ViewMode != "" {
		line = fmt.Sprintf("View: %s • %s", f.ViewMode, line)
	}
	return line
}
