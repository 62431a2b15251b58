package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/keepgenius/jira-notify/internal/constants"
)

// DateParseError is returned for input no supported layout accepts.
type DateParseError struct {
	Input string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unrecognized date %q (expected e.g. 2026-10-14, 14.10.2026 or \"today\")", e.Input)
}

// dateLayouts are tried in order; the first that parses the whole input wins.
var dateLayouts = []string{
	constants.DateLayout,
	"2006/01/02",
	"02.01.2006",
	"2.1.2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate parses s relative to now. Besides the layouts above it accepts
// "today", "yesterday" and "tomorrow". The result keeps now's location.
func ParseDate(s string, now time.Time) (time.Time, error) {
	input := strings.TrimSpace(s)

	switch strings.ToLower(input) {
	case "today", "":
		return truncateDay(now), nil
	case "yesterday":
		return truncateDay(now).AddDate(0, 0, -1), nil
	case "tomorrow":
		return truncateDay(now).AddDate(0, 0, 1), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, input, now.Location()); err == nil {
			return truncateDay(t), nil
		}
	}
	return time.Time{}, &DateParseError{Input: s}
}

// FormatDate renders the calendar date sent to Tempo.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateLayout)
}

// IsWorkday reports whether t falls on Monday through Friday.
func IsWorkday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
