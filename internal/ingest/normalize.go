// Package ingest decodes uploaded consignment sheets and normalizes their
// rows into the canonical in-memory table every report reads from.
package ingest

import (
	"strings"

	"github.com/nkrka/kyc-review/internal/schema"
)

// DateBasis selects which of the three date-bearing fields drives range
// filtering and trend grouping.
type DateBasis string

const (
	BasisSubmission  DateBasis = schema.FieldSubmissionDate
	BasisAccountOpen DateBasis = schema.FieldAcctOpnDate
	BasisLastTran    DateBasis = schema.FieldLastTranDate
)

// Record is one normalized row: every canonical field as a trimmed string,
// plus the three parsed date fields. Records are never mutated after
// normalization; reports only filter and read them.
type Record struct {
	Values map[string]string

	SubmissionDate CellDate
	AcctOpenDate   CellDate
	LastTranDate   CellDate
}

// Field returns the trimmed value of a canonical field.
func (r Record) Field(name string) string { return r.Values[name] }

// DateOn returns the parsed date for the given basis.
func (r Record) DateOn(basis DateBasis) CellDate {
	switch basis {
	case BasisAccountOpen:
		return r.AcctOpenDate
	case BasisLastTran:
		return r.LastTranDate
	default:
		return r.SubmissionDate
	}
}

// Normalize converts raw sheet rows into canonical records using the header
// mapping produced by schema.Matcher. Rows with every field blank are kept;
// dropping them is a caller decision, not a normalization one.
func Normalize(mapping schema.Mapping, rows []map[string]string) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		values := make(map[string]string, len(schema.Fields))
		for _, field := range schema.Fields {
			actual, ok := mapping[field]
			if !ok || actual == "" {
				// Unreachable after successful validation; fall back to the
				// canonical label so a partial mapping still yields a row.
				actual = field
			}
			values[field] = strings.TrimSpace(row[actual])
		}

		records = append(records, Record{
			Values:         values,
			SubmissionDate: ParseDate(values[schema.FieldSubmissionDate]),
			AcctOpenDate:   ParseDate(values[schema.FieldAcctOpnDate]),
			LastTranDate:   ParseDate(values[schema.FieldLastTranDate]),
		})
	}
	return records
}
