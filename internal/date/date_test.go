package date

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDue(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2026-03-04", true, time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)},
		{"2026-03-04T10:30:00", true, time.Date(2026, 3, 4, 10, 30, 0, 0, time.Local)},
		{"2026-03-04 10:30", true, time.Date(2026, 3, 4, 10, 30, 0, 0, time.Local)},
		{"", false, time.Time{}},
		{"  ", false, time.Time{}},
		{"next tuesday", false, time.Time{}},
		{"2026-13-01", false, time.Time{}},
	}
	for _, tt := range tests {
		got, ok := ParseDue(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseDue(%q)", tt.in)
		if tt.ok {
			assert.True(t, tt.want.Equal(got), "ParseDue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDueRFC3339KeepsInstant(t *testing.T) {
	got, ok := ParseDue("2026-03-04T10:00:00Z")
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)))
}

func TestStartOfWeekIsMonday(t *testing.T) {
	// 2026-10-18 is a Sunday; its week started on Monday 2026-10-12.
	sunday := time.Date(2026, 10, 18, 15, 0, 0, 0, time.Local)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.Local), StartOfWeek(sunday))

	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.Local)
	assert.Equal(t, monday, StartOfWeek(monday))
	assert.False(t, SameWeek(sunday, monday))
}

func TestSameMonthAndDay(t *testing.T) {
	a := time.Date(2026, 10, 1, 0, 0, 0, 0, time.Local)
	b := time.Date(2026, 10, 31, 23, 59, 0, 0, time.Local)
	assert.True(t, SameMonth(a, b))
	assert.False(t, SameDay(a, b))
	assert.True(t, SameDay(b, time.Date(2026, 10, 31, 1, 0, 0, 0, time.Local)))
}

func TestValidateDue(t *testing.T) {
	require.NoError(t, ValidateDue("2026-01-02"))
	require.Error(t, ValidateDue("soon"))
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.Local), d)

	_, err = ParseDay("28/02/2026")
	require.Error(t, err)
}
