package positions

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Bucket is one of the five court positions used as an aggregation key.
// The zero value is not a valid bucket.
type Bucket uint8

const (
	PG Bucket = iota + 1
	SG
	SF
	PF
	C
)

// Count is the number of valid buckets.
const Count = 5

// All lists the buckets in canonical order (guards first, center last).
var All = [Count]Bucket{PG, SG, SF, PF, C}

var bucketNames = [...]string{"", "PG", "SG", "SF", "PF", "C"}

// Valid reports whether b is one of the five buckets.
func (b Bucket) Valid() bool {
	return b >= PG && b <= C
}

func (b Bucket) String() string {
	if !b.Valid() {
		return ""
	}
	return bucketNames[b]
}

// Index returns the zero-based slot for b in a Values vector.
func (b Bucket) Index() int {
	return int(b) - 1
}

// Parse maps a bucket label (case-insensitive, surrounding space ignored) to a Bucket.
func Parse(raw string) (Bucket, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PG":
		return PG, true
	case "SG":
		return SG, true
	case "SF":
		return SF, true
	case "PF":
		return PF, true
	case "C":
		return C, true
	default:
		return 0, false
	}
}

// MarshalText encodes the bucket label.
func (b Bucket) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("positions: invalid bucket %d", uint8(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText decodes a bucket label; unknown labels are rejected.
func (b *Bucket) UnmarshalText(text []byte) error {
	parsed, ok := Parse(string(text))
	if !ok {
		return fmt.Errorf("positions: unknown bucket %q", string(text))
	}
	*b = parsed
	return nil
}

// Values holds one accumulator per bucket, indexed by Bucket.Index.
type Values [Count]float64

// Get returns the value stored for b (0 for an invalid bucket).
func (v Values) Get(b Bucket) float64 {
	if !b.Valid() {
		return 0
	}
	return v[b.Index()]
}

// Add accumulates delta into b's slot; invalid buckets are ignored.
func (v *Values) Add(b Bucket, delta float64) {
	if !b.Valid() {
		return
	}
	v[b.Index()] += delta
}

// Plus returns the element-wise sum of v and other.
func (v Values) Plus(other Values) Values {
	for i := range v {
		v[i] += other[i]
	}
	return v
}

// Sum returns the total across all buckets.
func (v Values) Sum() float64 {
	var total float64
	for _, x := range v {
		total += x
	}
	return total
}

// MarshalJSON encodes the vector as {"PG":..,"SG":..,"SF":..,"PF":..,"C":..}.
func (v Values) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, b := range All {
		if i > 0 {
			sb.WriteByte(',')
		}
		num, err := json.Marshal(v[i])
		if err != nil {
			return nil, err
		}
		sb.WriteString(`"` + b.String() + `":`)
		sb.Write(num)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// UnmarshalJSON decodes the object form produced by MarshalJSON.
func (v *Values) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Values
	for key, val := range raw {
		b, ok := Parse(key)
		if !ok {
			return fmt.Errorf("positions: unknown bucket %q", key)
		}
		out[b.Index()] = val
	}
	*v = out
	return nil
}
