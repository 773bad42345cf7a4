package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkrka/kyc-review/internal/ingest"
	"github.com/nkrka/kyc-review/internal/schema"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFilter(t *testing.T) {
	records := makeRecords(t, []map[string]string{
		{schema.FieldDivision: "North", schema.FieldOffice: "Hubli", schema.FieldSubmissionDate: "2024-01-05", schema.FieldAccountNo: "A1"},
		{schema.FieldDivision: "North", schema.FieldOffice: "Dharwad", schema.FieldSubmissionDate: "2024-01-10", schema.FieldAccountNo: "A2"},
		{schema.FieldDivision: "South", schema.FieldOffice: "Mysuru", schema.FieldSubmissionDate: "2024-01-15", schema.FieldAccountNo: "A3"},
		{schema.FieldDivision: "South", schema.FieldOffice: "Mysuru", schema.FieldSubmissionDate: "junk", schema.FieldAccountNo: "A4"},
		{schema.FieldDivision: "South", schema.FieldOffice: "Mysuru", schema.FieldAccountNo: "A5"},
	})

	account := func(rs []ingest.Record) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Field(schema.FieldAccountNo))
		}
		return out
	}

	t.Run("zero spec matches everything in order", func(t *testing.T) {
		got := Filter(records, Spec{})
		assert.Equal(t, []string{"A1", "A2", "A3", "A4", "A5"}, account(got))
	})

	t.Run("categorical equality is exact", func(t *testing.T) {
		got := Filter(records, Spec{Division: "North", Office: "Hubli"})
		assert.Equal(t, []string{"A1"}, account(got))

		assert.Empty(t, Filter(records, Spec{Division: "north"}), "no case folding on filter values")
	})

	t.Run("range is inclusive at both ends", func(t *testing.T) {
		from := date(2024, time.January, 5)
		to := date(2024, time.January, 15)
		got := Filter(records, Spec{From: &from, To: &to})
		assert.Equal(t, []string{"A1", "A2", "A3"}, account(got))
	})

	t.Run("range excludes invalid and absent basis dates", func(t *testing.T) {
		from := date(2024, time.January, 1)
		got := Filter(records, Spec{From: &from})
		assert.Equal(t, []string{"A1", "A2", "A3"}, account(got))
	})

	t.Run("open-ended range", func(t *testing.T) {
		from := date(2024, time.January, 11)
		got := Filter(records, Spec{From: &from})
		assert.Equal(t, []string{"A3"}, account(got))

		to := date(2024, time.January, 9)
		got = Filter(records, Spec{To: &to})
		assert.Equal(t, []string{"A1"}, account(got))
	})
}

func TestFilterOptions(t *testing.T) {
	records := makeRecords(t, []map[string]string{
		{schema.FieldDivision: "South", schema.FieldOffice: "Mysuru", schema.FieldStatus: "Active", schema.FieldScanStatus: "Done"},
		{schema.FieldDivision: "North", schema.FieldOffice: "Hubli", schema.FieldScanStatus: "pending"},
		{schema.FieldDivision: "North", schema.FieldOffice: "Dharwad"},
		{},
	})

	opts := FilterOptions(records)
	assert.Equal(t, []string{"North", "South"}, opts.Divisions)
	assert.Equal(t, []string{"Dharwad", "Hubli", "Mysuru"}, opts.Offices)
	assert.Equal(t, []string{"Active"}, opts.Statuses, "blanks never appear as options")
	assert.Equal(t, []string{"Done", "pending"}, opts.ScanStatuses)
}

func TestOfficesForDivision(t *testing.T) {
	records := makeRecords(t, []map[string]string{
		{schema.FieldDivision: "North", schema.FieldOffice: "Hubli"},
		{schema.FieldDivision: "North", schema.FieldOffice: "Dharwad"},
		{schema.FieldDivision: "South", schema.FieldOffice: "Mysuru"},
	})

	assert.Equal(t, []string{"Dharwad", "Hubli"}, OfficesForDivision(records, "North"))
	assert.Equal(t, []string{"Dharwad", "Hubli", "Mysuru"}, OfficesForDivision(records, ""))
	assert.Empty(t, OfficesForDivision(records, "East"))
}

func TestAutoDateRange(t *testing.T) {
	t.Run("thirty days back from the latest submission", func(t *testing.T) {
		records := makeRecords(t, []map[string]string{
			{schema.FieldSubmissionDate: "2023-10-01"},
			{schema.FieldSubmissionDate: "2024-01-15"},
			{schema.FieldSubmissionDate: "2024-03-10"},
		})

		from, to, ok := AutoDateRange(records)
		require.True(t, ok)
		assert.Equal(t, date(2024, time.March, 10), to)
		assert.Equal(t, date(2024, time.February, 9), from)
	})

	t.Run("clamped to the earliest submission", func(t *testing.T) {
		records := makeRecords(t, []map[string]string{
			{schema.FieldSubmissionDate: "2024-03-01"},
			{schema.FieldSubmissionDate: "2024-03-10"},
		})

		from, to, ok := AutoDateRange(records)
		require.True(t, ok)
		assert.Equal(t, date(2024, time.March, 1), from)
		assert.Equal(t, date(2024, time.March, 10), to)
	})

	t.Run("no valid submission dates", func(t *testing.T) {
		records := makeRecords(t, []map[string]string{
			{schema.FieldSubmissionDate: "junk"},
			{},
		})

		_, _, ok := AutoDateRange(records)
		assert.False(t, ok)
	})
}
