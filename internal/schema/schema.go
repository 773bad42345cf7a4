// Package schema defines the canonical KYC consignment template and matches
// uploaded header rows against it. Matching tolerates whitespace/case drift
// and a curated alias table for the headers that vary most in the field.
package schema

import (
	"fmt"
	"strings"
)

// Canonical field names, in template column order.
const (
	FieldRgnSlNo        = "Rgn Sl No"
	FieldDvnSlNo        = "Dvn Sl No"
	FieldSolID          = "sol_id"
	FieldOffice         = "Office"
	FieldDivision       = "Division"
	FieldAccountNo      = "Account No"
	FieldCIFID          = "cif_id"
	FieldAcctName       = "acct_name"
	FieldSchmCode       = "schm_code"
	FieldAcctOpnDate    = "acct_opn_date"
	FieldLastTranDate   = "last_any_tran_date"
	FieldStatus         = "Status"
	FieldConsignmentNo  = "Consignment number"
	FieldSubmissionDate = "Date of submission to CPC"
	FieldScanStatus     = "Scan/Upload status"
	FieldOmissions      = "Omissions/Rejections"
)

// Fields is the canonical column order of the approved template.
var Fields = []string{
	FieldRgnSlNo,
	FieldDvnSlNo,
	FieldSolID,
	FieldOffice,
	FieldDivision,
	FieldAccountNo,
	FieldCIFID,
	FieldAcctName,
	FieldSchmCode,
	FieldAcctOpnDate,
	FieldLastTranDate,
	FieldStatus,
	FieldConsignmentNo,
	FieldSubmissionDate,
	FieldScanStatus,
	FieldOmissions,
}

// builtinAliases maps a normalized canonical name to accepted spellings.
// Only headers with real-world drift carry aliases; everything else must
// match the canonical name after normalization.
var builtinAliases = AliasTable{
	"consignment number": {
		"consignment no",
		"consignment no.",
		"consignment number",
		"consignment",
		"cn number",
		"consignment num",
	},
	"date of submission to cpc": {
		"date of submission to cpc",
		"date of submission",
		"submission date",
		"date of submission to cp c",
		"date of submission to c.p.c",
	},
	"scan/upload status": {
		"scan/upload status",
		"scan upload status",
		"scan / upload status",
		"scan status",
		"upload status",
		"scan status/upload status",
		"scan /upload status",
		"scan/ upload status",
	},
}

// AliasTable maps normalized canonical field names to alternative spellings,
// tried in listed order.
type AliasTable map[string][]string

// DefaultAliases returns a copy of the built-in alias table.
func DefaultAliases() AliasTable {
	out := make(AliasTable, len(builtinAliases))
	for k, v := range builtinAliases {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Normalize collapses the "invisible differences" that break header
// comparison: NBSP, embedded line breaks, repeated whitespace, case.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}

// Mapping binds each canonical field to the actual header label found in the
// uploaded sheet. It is total exactly when validation succeeded.
type Mapping map[string]string

// ValidationError reports the canonical fields that could not be matched,
// together with every normalized header that was detected so the operator can
// see exactly what the sheet contains.
type ValidationError struct {
	Missing  []string
	Detected []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("header validation failed: missing headers: %s; detected headers (normalized): %s",
		strings.Join(e.Missing, ", "), strings.Join(e.Detected, " | "))
}

// Matcher resolves uploaded header rows against the canonical schema.
type Matcher struct {
	aliases AliasTable
}

// NewMatcher builds a matcher over the given alias table. Pass
// DefaultAliases() unless extra aliases were loaded from configuration.
func NewMatcher(aliases AliasTable) *Matcher {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Matcher{aliases: aliases}
}

// Match resolves the raw header cells of row 1 to a Mapping. Blank header
// cells are dropped. When one or more canonical fields have neither a direct
// nor an alias match, Match returns a nil mapping and a ValidationError.
//
// Duplicate headers that normalize identically bind to the leftmost
// occurrence; later duplicates are ignored.
func (m *Matcher) Match(headers []string) (Mapping, *ValidationError) {
	var detected []string
	var detectedNorm []string
	for _, h := range headers {
		trimmed := strings.TrimSpace(h)
		if trimmed == "" {
			continue
		}
		n := Normalize(trimmed)
		if n == "" {
			continue
		}
		detected = append(detected, trimmed)
		detectedNorm = append(detectedNorm, n)
	}

	find := func(norm string) int {
		for i, d := range detectedNorm {
			if d == norm {
				return i
			}
		}
		return -1
	}

	mapping := make(Mapping, len(Fields))
	var missing []string
	for _, canonical := range Fields {
		canonNorm := Normalize(canonical)

		if i := find(canonNorm); i >= 0 {
			mapping[canonical] = detected[i]
			continue
		}

		matched := false
		for _, alias := range m.aliases[canonNorm] {
			if i := find(Normalize(alias)); i >= 0 {
				mapping[canonical] = detected[i]
				matched = true
				break
			}
		}
		if !matched {
			missing = append(missing, canonical)
		}
	}

	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing, Detected: detectedNorm}
	}
	return mapping, nil
}
