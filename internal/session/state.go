// Package session holds the working state of one review sitting: the upload
// currently loaded, the active filter, and the last computed report.
package session

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nkrka/kyc-review/internal/ingest"
	"github.com/nkrka/kyc-review/internal/report"
	"github.com/nkrka/kyc-review/internal/schema"
)

// State is the mutable review session. It is not safe for concurrent use;
// the CLI drives it from a single goroutine.
type State struct {
	logger  *slog.Logger
	matcher *schema.Matcher

	UploadID uuid.UUID
	Source   string
	Table    []ingest.Record

	Filter report.Spec
	Result *report.Result
}

// New returns an empty session. A nil matcher falls back to the built-in
// alias table.
func New(logger *slog.Logger, matcher *schema.Matcher) *State {
	if logger == nil {
		logger = slog.Default()
	}
	if matcher == nil {
		matcher = schema.NewMatcher(nil)
	}
	return &State{logger: logger, matcher: matcher}
}

// Load replaces the session's table with the decoded upload. Decode errors
// surface first, then header validation, then the empty-table check, so the
// operator always sees the most actionable problem.
func (s *State) Load(name string, r io.Reader) error {
	sheet, err := ingest.Load(name, r)
	if err != nil {
		return err
	}

	mapping, verr := s.matcher.Match(sheet.Headers)
	if verr != nil {
		s.logger.Warn("header validation failed",
			slog.String("source", name),
			slog.Any("missing", verr.Missing))
		return verr
	}

	if len(sheet.Rows) == 0 {
		return ingest.ErrNoDataRows
	}

	s.UploadID = uuid.New()
	s.Source = name
	s.Table = ingest.Normalize(mapping, sheet.Rows)
	s.Filter = report.Spec{Basis: ingest.BasisSubmission}
	s.Result = nil

	s.logger.Info("upload loaded",
		slog.String("upload_id", s.UploadID.String()),
		slog.String("source", name),
		slog.Int("rows", len(s.Table)))
	return nil
}

// LoadFile opens path and loads it; the extension picks the decoder.
func (s *State) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return s.Load(filepath.Base(path), f)
}

// Loaded reports whether the session holds a table.
func (s *State) Loaded() bool { return len(s.Table) > 0 }

// Apply sets the filter and recomputes the full report against it.
func (s *State) Apply(f report.Spec, now time.Time) *report.Result {
	s.Filter = f
	s.Result = report.Build(s.Table, f, now)
	s.logger.Debug("report rebuilt",
		slog.Int("rows", s.Result.Rows),
		slog.String("basis", string(f.Basis)))
	return s.Result
}

// Filtered returns the records matching the current filter.
func (s *State) Filtered() []ingest.Record {
	return report.Filter(s.Table, s.Filter)
}

// AutoRange widens the filter to the default 30-day window over the loaded
// data. It is a no-op when no record has a valid submission date.
func (s *State) AutoRange() bool {
	from, to, ok := report.AutoDateRange(s.Table)
	if !ok {
		return false
	}
	s.Filter.From = &from
	s.Filter.To = &to
	return true
}

// Reset drops the filter back to its defaults, keeping the table loaded.
func (s *State) Reset() {
	s.Filter = report.Spec{Basis: ingest.BasisSubmission}
	s.Result = nil
}

// Clear drops everything, returning the session to its post-New state.
func (s *State) Clear() {
	s.UploadID = uuid.Nil
	s.Source = ""
	s.Table = nil
	s.Reset()
}
