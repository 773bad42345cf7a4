package session

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkrka/kyc-review/internal/ingest"
	"github.com/nkrka/kyc-review/internal/report"
	"github.com/nkrka/kyc-review/internal/schema"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, nil)
}

func templateCSV(dataRows ...string) string {
	lines := append([]string{strings.Join(schema.Fields, ",")}, dataRows...)
	return strings.Join(lines, "\n") + "\n"
}

func TestState_Load(t *testing.T) {
	t.Run("valid csv populates the table", func(t *testing.T) {
		s := newTestState(t)
		csv := templateCSV(
			"1,1,S1,Hubli,North,ACC-1,C1,Anil,SB01,2020-01-01,2024-01-01,Active,CN-1,2024-01-10,Done,",
			"2,2,S2,Mysuru,South,ACC-2,,,,,,,,,pending,",
		)

		require.NoError(t, s.Load("upload.csv", strings.NewReader(csv)))
		assert.True(t, s.Loaded())
		assert.Len(t, s.Table, 2)
		assert.Equal(t, "upload.csv", s.Source)
		assert.NotEqual(t, uuid.Nil, s.UploadID)
		assert.Equal(t, ingest.BasisSubmission, s.Filter.Basis)
	})

	t.Run("missing headers surface a validation error", func(t *testing.T) {
		s := newTestState(t)
		csv := "Office,Division\nHubli,North\n"

		err := s.Load("upload.csv", strings.NewReader(csv))
		var verr *schema.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Missing, schema.FieldAccountNo)
		assert.False(t, s.Loaded())
	})

	t.Run("header-only sheet reports no data rows", func(t *testing.T) {
		s := newTestState(t)

		err := s.Load("upload.csv", strings.NewReader(templateCSV()))
		assert.ErrorIs(t, err, ingest.ErrNoDataRows)
	})

	t.Run("empty file reports an empty sheet", func(t *testing.T) {
		s := newTestState(t)

		err := s.Load("upload.csv", strings.NewReader(""))
		assert.ErrorIs(t, err, ingest.ErrEmptySheet)
	})

	t.Run("a failed load keeps the previous table", func(t *testing.T) {
		s := newTestState(t)
		good := templateCSV("1,1,S1,Hubli,North,ACC-1,,,,,,,,2024-01-10,,")
		require.NoError(t, s.Load("good.csv", strings.NewReader(good)))
		firstID := s.UploadID

		err := s.Load("bad.csv", strings.NewReader("Office\nHubli\n"))
		require.Error(t, err)
		assert.Equal(t, firstID, s.UploadID)
		assert.Equal(t, "good.csv", s.Source)
		assert.Len(t, s.Table, 1)
	})
}

func TestState_ApplyAndReset(t *testing.T) {
	s := newTestState(t)
	csv := templateCSV(
		"1,1,S1,Hubli,North,ACC-1,,,,,,,,2024-01-10,pending,",
		"2,2,S2,Mysuru,South,ACC-2,,,,,,,,2024-01-12,Done,",
	)
	require.NoError(t, s.Load("upload.csv", strings.NewReader(csv)))

	now := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	res := s.Apply(report.Spec{Division: "North"}, now)
	assert.Equal(t, 1, res.Rows)
	assert.Same(t, res, s.Result)
	assert.Len(t, s.Filtered(), 1)

	s.Reset()
	assert.Nil(t, s.Result)
	assert.Equal(t, report.Spec{Basis: ingest.BasisSubmission}, s.Filter)
	assert.Len(t, s.Filtered(), 2, "reset keeps the table")

	s.Clear()
	assert.False(t, s.Loaded())
	assert.Equal(t, uuid.Nil, s.UploadID)
}

func TestState_AutoRange(t *testing.T) {
	s := newTestState(t)
	csv := templateCSV(
		"1,1,S1,Hubli,North,ACC-1,,,,,,,,2024-01-01,,",
		"2,2,S2,Mysuru,South,ACC-2,,,,,,,,2024-03-10,,",
	)
	require.NoError(t, s.Load("upload.csv", strings.NewReader(csv)))

	require.True(t, s.AutoRange())
	require.NotNil(t, s.Filter.From)
	require.NotNil(t, s.Filter.To)
	assert.Equal(t, "2024-02-09", s.Filter.From.Format("2006-01-02"))
	assert.Equal(t, "2024-03-10", s.Filter.To.Format("2006-01-02"))
}
