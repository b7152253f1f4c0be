package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var monday = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

func TestNormalizeDateRelativeExpressions(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"today", "2024-01-01"},
		{"Today please", "2024-01-01"},
		{"tomorrow", "2024-01-02"},
		{"TOMORROW morning", "2024-01-02"},
		{"day after tomorrow", "2024-01-03"},
		{"the day after tomorrow", "2024-01-03"},
		{"2024-03-15", "2024-03-15"},
	}
	for _, tc := range cases {
		got := NormalizeDate(tc.expr, monday)
		assert.Equal(t, tc.want, got.Format(ISODate), "expr %q", tc.expr)
	}
}

func TestNormalizeDateFallsBackToTomorrow(t *testing.T) {
	for _, expr := range []string{"bogus", "next tuesday", "03/15/2024", ""} {
		got := NormalizeDate(expr, monday)
		assert.Equal(t, "2024-01-02", got.Format(ISODate), "expr %q", expr)
	}
}

func TestResolveDateReportsSpecificity(t *testing.T) {
	_, ok := ResolveDate("tomorrow", monday)
	assert.True(t, ok)
	_, ok = ResolveDate("2024-03-15", monday)
	assert.True(t, ok)
	_, ok = ResolveDate("whenever works", monday)
	assert.False(t, ok)
	_, ok = ResolveDate("", monday)
	assert.False(t, ok)
}

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		expr      string
		hour, min int
	}{
		{"2 PM", 14, 0},
		{"2pm", 14, 0},
		{"10 AM", 10, 0},
		{"12 PM", 12, 0},
		{"12 AM", 0, 0},
		{"14:30", 14, 30},
		{"09:00", 9, 0},
		{"9:15", 9, 15},
		{"garbage", 10, 0},
		{"", 10, 0},
		{"25:00", 10, 0},
		{"2:30 PM", 10, 0}, // digits collapse to an out-of-range hour
	}
	for _, tc := range cases {
		h, m := NormalizeTime(tc.expr)
		assert.Equal(t, tc.hour, h, "expr %q hour", tc.expr)
		assert.Equal(t, tc.min, m, "expr %q minute", tc.expr)
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "09:00", FormatTime(9, 0))
	assert.Equal(t, "14:05", FormatTime(14, 5))
}
