package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("blank is absent, not a failure", func(t *testing.T) {
		for _, in := range []string{"", "   ", "\t"} {
			got := ParseDate(in)
			assert.Equal(t, DateAbsent, got.Status, "input %q", in)
			assert.False(t, got.Valid())
		}
	})

	t.Run("excel serial", func(t *testing.T) {
		got := ParseDate("45292")
		assert.Equal(t, DateValid, got.Status)
		assert.Equal(t, day(2024, time.January, 1), got.Time)
	})

	t.Run("iso form round-trips", func(t *testing.T) {
		for _, in := range []string{"2024-01-15", "2023-12-31", "2000-02-29"} {
			got := ParseDate(in)
			assert.Equal(t, DateValid, got.Status, "input %q", in)
			assert.Equal(t, in, got.ISO())
		}
	})

	t.Run("day month year forms", func(t *testing.T) {
		cases := map[string]time.Time{
			"15/01/2024": day(2024, time.January, 15),
			"5/1/2024":   day(2024, time.January, 5),
			"15-01-2024": day(2024, time.January, 15),
			"15/01/24":   day(2024, time.January, 15),
			"1-2-99":     day(2099, time.February, 1),
		}
		for in, want := range cases {
			got := ParseDate(in)
			assert.Equal(t, DateValid, got.Status, "input %q", in)
			assert.Equal(t, want, got.Time, "input %q", in)
		}
	})

	t.Run("impossible calendar day is unparseable", func(t *testing.T) {
		for _, in := range []string{"31/02/2024", "29/02/2023", "32/01/2024", "01/13/2024"} {
			got := ParseDate(in)
			assert.Equal(t, DateInvalid, got.Status, "input %q", in)
		}
	})

	t.Run("free-form fallback", func(t *testing.T) {
		got := ParseDate("15-Jan-2024")
		assert.Equal(t, DateValid, got.Status)
		assert.Equal(t, day(2024, time.January, 15), got.Time)
	})

	t.Run("garbage is present but unparseable", func(t *testing.T) {
		for _, in := range []string{"not a date", "pending", "--"} {
			got := ParseDate(in)
			assert.Equal(t, DateInvalid, got.Status, "input %q", in)
			assert.Empty(t, got.ISO())
		}
	})
}
