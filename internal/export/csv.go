// Package export writes the filtered record set back out as CSV, with the
// columns in canonical template order so the file re-imports cleanly.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/nkrka/kyc-review/internal/ingest"
	"github.com/nkrka/kyc-review/internal/schema"
)

// Row is one exported record. Column headers repeat the canonical template
// labels exactly, including the slash and spaces.
type Row struct {
	RgnSlNo        string `csv:"Rgn Sl No"`
	DvnSlNo        string `csv:"Dvn Sl No"`
	SolID          string `csv:"sol_id"`
	Office         string `csv:"Office"`
	Division       string `csv:"Division"`
	AccountNo      string `csv:"Account No"`
	CIFID          string `csv:"cif_id"`
	AcctName       string `csv:"acct_name"`
	SchmCode       string `csv:"schm_code"`
	AcctOpnDate    string `csv:"acct_opn_date"`
	LastTranDate   string `csv:"last_any_tran_date"`
	Status         string `csv:"Status"`
	ConsignmentNo  string `csv:"Consignment number"`
	SubmissionDate string `csv:"Date of submission to CPC"`
	ScanStatus     string `csv:"Scan/Upload status"`
	Omissions      string `csv:"Omissions/Rejections"`
}

func rowFromRecord(r ingest.Record) Row {
	return Row{
		RgnSlNo:        r.Field(schema.FieldRgnSlNo),
		DvnSlNo:        r.Field(schema.FieldDvnSlNo),
		SolID:          r.Field(schema.FieldSolID),
		Office:         r.Field(schema.FieldOffice),
		Division:       r.Field(schema.FieldDivision),
		AccountNo:      r.Field(schema.FieldAccountNo),
		CIFID:          r.Field(schema.FieldCIFID),
		AcctName:       r.Field(schema.FieldAcctName),
		SchmCode:       r.Field(schema.FieldSchmCode),
		AcctOpnDate:    r.Field(schema.FieldAcctOpnDate),
		LastTranDate:   r.Field(schema.FieldLastTranDate),
		Status:         r.Field(schema.FieldStatus),
		ConsignmentNo:  r.Field(schema.FieldConsignmentNo),
		SubmissionDate: r.Field(schema.FieldSubmissionDate),
		ScanStatus:     r.Field(schema.FieldScanStatus),
		Omissions:      r.Field(schema.FieldOmissions),
	}
}

// ErrNothingToExport is returned when the filtered set is empty; writing a
// header-only file would only confuse the operators downstream.
var ErrNothingToExport = fmt.Errorf("nothing to export")

// WriteCSV writes the records to w as RFC 4180 CSV, raw cell values as
// ingested. Returns ErrNothingToExport for an empty set.
func WriteCSV(w io.Writer, records []ingest.Record) error {
	if len(records) == 0 {
		return ErrNothingToExport
	}

	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, rowFromRecord(r))
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// DefaultFilename names an export after the day it was produced.
func DefaultFilename(now time.Time) string {
	return "kyc_export_" + now.Format("2006-01-02") + ".csv"
}
