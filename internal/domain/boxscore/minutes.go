package boxscore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedMinutes is returned when a minutes value cannot be parsed.
var ErrMalformedMinutes = errors.New("boxscore: malformed minutes")

// Minutes keeps the raw upstream minutes value ("MM:SS", "PT24M30.00S" or a
// bare number). Decoding never fails so one bad line cannot reject a whole
// snapshot; parsing happens on demand via Value.
type Minutes struct {
	raw string
}

// MinutesOf builds a Minutes from a raw string (used by adapters and tests).
func MinutesOf(raw string) Minutes {
	return Minutes{raw: raw}
}

// MinutesFloat builds a Minutes from a numeric value.
func MinutesFloat(v float64) Minutes {
	return Minutes{raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

// Raw returns the value as it was read.
func (m Minutes) Raw() string {
	return m.raw
}

// Value converts the raw value to minutes as a float.
// An empty value means the player did not play and yields 0.
func (m Minutes) Value() (float64, error) {
	return ParseMinutes(m.raw)
}

// UnmarshalJSON accepts a string, a number or null.
func (m *Minutes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		m.raw = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			m.raw = s
			return nil
		}
	}
	m.raw = string(data)
	return nil
}

// MarshalJSON writes the raw value back as a JSON string.
func (m Minutes) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.raw)
}

// ParseMinutes converts "MM:SS" (any number of sexagesimal groups), ISO-8601
// clock durations ("PT12M34.00S") and bare numbers to minutes.
func ParseMinutes(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	if strings.HasPrefix(strings.ToUpper(s), "PT") {
		return parseISOClock(s)
	}
	if strings.Contains(s, ":") {
		return parseSexagesimal(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedMinutes, raw)
	}
	return v, nil
}

// parseSexagesimal reads "MM:SS" or "H:MM:SS"; the result is in minutes.
func parseSexagesimal(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedMinutes, s)
	}
	var seconds float64
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return 0, fmt.Errorf("%w: %q", ErrMalformedMinutes, s)
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedMinutes, s)
		}
		seconds = seconds*60 + v
	}
	if len(parts) == 1 {
		return seconds, nil
	}
	// With two groups the left one is minutes; with three it is hours.
	return seconds / 60, nil
}

func parseISOClock(s string) (float64, error) {
	body := strings.ToUpper(s)[2:]
	if body == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedMinutes, s)
	}
	var (
		total float64
		num   strings.Builder
	)
	for _, r := range body {
		switch {
		case (r >= '0' && r <= '9') || r == '.':
			num.WriteRune(r)
		case r == 'H' || r == 'M' || r == 'S':
			if num.Len() == 0 {
				return 0, fmt.Errorf("%w: %q", ErrMalformedMinutes, s)
			}
			v, err := strconv.ParseFloat(num.String(), 64)
			if err != nil {
				return 0, fmt.Errorf("%w: %q", ErrMalformedMinutes, s)
			}
			num.Reset()
			switch r {
			case 'H':
				total += v * 60
			case 'M':
				total += v
			case 'S':
				total += v / 60
			}
		default:
			return 0, fmt.Errorf("%w: %q", ErrMalformedMinutes, s)
		}
	}
	if num.Len() > 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedMinutes, s)
	}
	return total, nil
}
