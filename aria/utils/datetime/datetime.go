// Natural-language date/time normalization for the voice scheduling tools.
package datetime

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

const ISODate = "2006-01-02"

// Default time of day when an expression cannot be understood.
const (
	DefaultHour   = 10
	DefaultMinute = 0
)

// ResolveDate maps a spoken date expression onto a calendar date. The second
// return value reports whether the expression named a specific date; callers
// that need a date window (rather than a single day) branch on it.
func ResolveDate(expr string, today time.Time) (time.Time, bool) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return time.Time{}, false
	}
	day := DateOnly(today)

	switch {
	case strings.Contains(s, "tomorrow") && !strings.Contains(s, "day after"):
		return day.AddDate(0, 0, 1), true
	case strings.Contains(s, "day after tomorrow"):
		return day.AddDate(0, 0, 2), true
	case strings.Contains(s, "today"):
		return day, true
	}

	if t, err := time.Parse(ISODate, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// DateOnly strips the time-of-day component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NormalizeDate resolves expr to a concrete date, defaulting to tomorrow when
// the expression is missing or unparseable. The default is deliberate: the
// conversation keeps moving and the agent confirms the date back to the
// caller.
func NormalizeDate(expr string, today time.Time) time.Time {
	if t, ok := ResolveDate(expr, today); ok {
		return t
	}
	return DateOnly(today).AddDate(0, 0, 1)
}

// NormalizeTime maps a spoken time expression onto (hour, minute).
// "2 PM" -> 14:00, "12 AM" -> 00:00, "14:30" -> 14:30. Anything it cannot
// understand becomes 10:00 rather than an error.
func NormalizeTime(expr string) (hour, minute int) {
	s := strings.ToUpper(strings.TrimSpace(expr))
	if s == "" {
		return DefaultHour, DefaultMinute
	}

	if strings.Contains(s, "AM") || strings.Contains(s, "PM") {
		digits := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return r
			}
			return -1
		}, s)
		h, err := strconv.Atoi(digits)
		if err != nil {
			return DefaultHour, DefaultMinute
		}
		if strings.Contains(s, "PM") && h != 12 {
			h += 12
		}
		if strings.Contains(s, "AM") && h == 12 {
			h = 0
		}
		if h < 0 || h > 23 {
			return DefaultHour, DefaultMinute
		}
		return h, 0
	}

	if strings.Contains(s, ":") {
		parts := strings.SplitN(s, ":", 2)
		h, errH := strconv.Atoi(strings.TrimSpace(parts[0]))
		mStr := strings.TrimSpace(parts[1])
		if len(mStr) > 2 {
			mStr = mStr[:2]
		}
		m, errM := strconv.Atoi(mStr)
		if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
			return DefaultHour, DefaultMinute
		}
		return h, m
	}

	return DefaultHour, DefaultMinute
}

// FormatTime renders (hour, minute) in the store's HH:MM convention.
func FormatTime(hour, minute int) string {
	return pad2(hour) + ":" + pad2(minute)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
