package timeutil

import (
	"errors"
	"strings"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ErrUnparseableDate is returned when no known layout matches.
var ErrUnparseableDate = errors.New("timeutil: unparseable date")

// Layouts accepted for game dates, tried in order. The last one is the
// box-score log style ("OCT 22, 2025").
var gameDateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"Jan 02, 2006",
}

// ParseGameDate accepts the date shapes seen in game snapshots.
func ParseGameDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrUnparseableDate
	}
	for _, layout := range gameDateLayouts {
		candidate := value
		if layout == "Jan 02, 2006" {
			candidate = titleMonth(value)
		}
		if t, err := time.Parse(layout, candidate); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnparseableDate
}

// titleMonth rewrites an all-caps month prefix ("OCT") to "Oct".
func titleMonth(value string) string {
	if len(value) < 3 {
		return value
	}
	return value[:1] + strings.ToLower(value[1:3]) + value[3:]
}
