package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DateStatus distinguishes a blank cell from one that holds text we could not
// read as a date. Only the latter counts against data quality.
type DateStatus int

const (
	DateAbsent  DateStatus = iota // blank cell
	DateValid                     // parsed to a calendar day
	DateInvalid                   // present but unparseable
)

// CellDate is the parse result for one date-bearing cell. Time is always
// midnight UTC of the calendar day; it is only meaningful when Status is
// DateValid.
type CellDate struct {
	Time   time.Time
	Status DateStatus
}

// Valid reports whether the cell parsed to a calendar day.
func (d CellDate) Valid() bool { return d.Status == DateValid }

// ISO renders the day as YYYY-MM-DD, or "" when not valid.
func (d CellDate) ISO() string {
	if !d.Valid() {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dmyDatePattern = regexp.MustCompile(`^(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})$`)
)

// fallbackLayouts are tried last, for sheets where dates arrive pre-formatted
// by the spreadsheet application rather than in the template formats.
var fallbackLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02.01.2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate reads one raw cell value into a calendar day. Accepted forms, in
// order: blank (absent, not a failure), an Excel date serial, YYYY-MM-DD,
// D/M/YYYY or D-M-YY (two-digit years are 2000-based), then the fallback
// layouts. Anything else is present but unparseable.
func ParseDate(raw string) CellDate {
	s := strings.TrimSpace(raw)
	if s == "" {
		return CellDate{Status: DateAbsent}
	}

	// Numeric cells come back from the decoder as serial strings.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return CellDate{Status: DateInvalid}
		}
		return dayOf(t)
	}

	if isoDatePattern.MatchString(s) {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return CellDate{Status: DateInvalid}
		}
		return dayOf(t)
	}

	if m := dmyDatePattern.FindStringSubmatch(s); m != nil {
		dd, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		yy, _ := strconv.Atoi(m[3])
		if yy < 100 {
			yy += 2000
		}
		t := time.Date(yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes 31/02 to March; an impossible calendar day
		// must count as unparseable, so require a component round-trip.
		if t.Year() != yy || int(t.Month()) != mm || t.Day() != dd {
			return CellDate{Status: DateInvalid}
		}
		return CellDate{Time: t, Status: DateValid}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dayOf(t)
		}
	}
	return CellDate{Status: DateInvalid}
}

// dayOf truncates a timestamp to midnight UTC of its calendar day.
func dayOf(t time.Time) CellDate {
	return CellDate{
		Time:   time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
		Status: DateValid,
	}
}
