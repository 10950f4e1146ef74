package teams

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSeason is returned for season values that are not a start year or a label.
var ErrInvalidSeason = errors.New("teams: invalid season")

const (
	firstSeason = 1946
	lastSeason  = 2100
	// Seasons tip off in October; earlier months belong to the previous season.
	seasonStartMonth = time.October
)

// SeasonLabel renders a season start year as "2025-26".
func SeasonLabel(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// ParseSeason accepts a start year ("2025"), a label ("2025-26") or a full
// span ("2025-2026") and returns the start year.
func ParseSeason(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	start, end, hasEnd := strings.Cut(raw, "-")
	year, err := strconv.Atoi(start)
	if err != nil || len(start) != 4 || year < firstSeason || year > lastSeason {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSeason, raw)
	}
	if !hasEnd {
		return year, nil
	}
	next, err := strconv.Atoi(end)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSeason, raw)
	}
	switch len(end) {
	case 2:
		if next != (year+1)%100 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSeason, raw)
		}
	case 4:
		if next != year+1 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSeason, raw)
		}
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSeason, raw)
	}
	return year, nil
}

// CurrentSeason returns the start year of the season in progress at t.
func CurrentSeason(t time.Time) int {
	if t.Month() >= seasonStartMonth {
		return t.Year()
	}
	return t.Year() - 1
}
