package util

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date form used on the wire and by the provider.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700", // marketstack eod timestamps
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"20060102",
}

// ParseDate tries the known date layouts, then unix milliseconds (13 digits)
// or seconds. Returns (t, true) if any worked and the year is within
// 0001..9999. The result keeps the input's own offset.
func ParseDate(s string) (time.Time, bool) {
	t, ok := parseDate(strings.TrimSpace(s))
	if !ok || t.Year() < 1 || t.Year() > 9999 {
		return time.Time{}, false
	}
	return t, true
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ts <= 0 {
		return time.Time{}, false
	}
	if len(s) == 13 {
		return time.UnixMilli(ts).UTC(), true
	}
	return time.Unix(ts, 0).UTC(), true
}

// NormalizeDate formats any parseable input as YYYY-MM-DD, or "" when it
// cannot be parsed.
func NormalizeDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatDate re-renders a provider date string with layout. Unparseable input
// is returned as is.
func FormatDate(s, layout string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format(layout)
}
