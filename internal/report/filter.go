package report

import (
	"sort"
	"time"

	"github.com/nkrka/kyc-review/internal/ingest"
	"github.com/nkrka/kyc-review/internal/schema"
)

// Spec is the declarative filter applied before every aggregation pass:
// up to four categorical equality constraints plus an optional inclusive
// day-granular range on the chosen date basis. The zero value matches
// everything on the submission-date basis.
type Spec struct {
	ViewMode string
	Basis    ingest.DateBasis

	From *time.Time
	To   *time.Time

	Division string
	Office   string
	Status   string
	Scan     string
}

// HasRange reports whether either end of the date range is set.
func (s Spec) HasRange() bool { return s.From != nil || s.To != nil }

func (s Spec) basis() ingest.DateBasis {
	if s.Basis == "" {
		return ingest.BasisSubmission
	}
	return s.Basis
}

// Filter returns the ordered subsequence of records matching the spec.
// Categorical constraints are exact string equality; a record without a
// valid date on the basis is excluded whenever a range is set.
func Filter(records []ingest.Record, f Spec) []ingest.Record {
	out := make([]ingest.Record, 0, len(records))
	for _, r := range records {
		if f.Division != "" && r.Field(schema.FieldDivision) != f.Division {
			continue
		}
		if f.Office != "" && r.Field(schema.FieldOffice) != f.Office {
			continue
		}
		if f.Status != "" && r.Field(schema.FieldStatus) != f.Status {
			continue
		}
		if f.Scan != "" && r.Field(schema.FieldScanStatus) != f.Scan {
			continue
		}
		if f.HasRange() && !inRange(r.DateOn(f.basis()), f.From, f.To) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// inRange checks [from, to] inclusive at day granularity. An absent or
// unparseable date never falls in a range.
func inRange(d ingest.CellDate, from, to *time.Time) bool {
	if !d.Valid() {
		return false
	}
	day := d.Time
	if from != nil && day.Before(startOfDay(*from)) {
		return false
	}
	if to != nil && day.After(startOfDay(*to)) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Options lists the distinct values available for each categorical filter,
// sorted and with blanks dropped, so a front end can build its pickers.
type Options struct {
	Divisions    []string `json:"divisions"`
	Offices      []string `json:"offices"`
	Statuses     []string `json:"statuses"`
	ScanStatuses []string `json:"scan_statuses"`
}

// FilterOptions collects picker values over the full table.
func FilterOptions(records []ingest.Record) Options {
	return Options{
		Divisions:    distinct(records, schema.FieldDivision),
		Offices:      distinct(records, schema.FieldOffice),
		Statuses:     distinct(records, schema.FieldStatus),
		ScanStatuses: distinct(records, schema.FieldScanStatus),
	}
}

// OfficesForDivision narrows the office picker to one division, or returns
// every office when the division is blank.
func OfficesForDivision(records []ingest.Record, division string) []string {
	if division == "" {
		return distinct(records, schema.FieldOffice)
	}
	scoped := make([]ingest.Record, 0, len(records))
	for _, r := range records {
		if r.Field(schema.FieldDivision) == division {
			scoped = append(scoped, r)
		}
	}
	return distinct(scoped, schema.FieldOffice)
}

func distinct(records []ingest.Record, field string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		v := r.Field(field)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// AutoDateRange suggests a default range: the 30 days ending at the latest
// submission date, clamped to the earliest one. ok is false when no record
// has a valid submission date.
func AutoDateRange(records []ingest.Record) (from, to time.Time, ok bool) {
	var min, max time.Time
	for _, r := range records {
		d := r.SubmissionDate
		if !d.Valid() {
			continue
		}
		if !ok || d.Time.Before(min) {
			min = d.Time
		}
		if !ok || d.Time.After(max) {
			max = d.Time
		}
		ok = true
	}
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	from = max.AddDate(0, 0, -30)
	if from.Before(min) {
		from = min
	}
	return from, max, true
}
