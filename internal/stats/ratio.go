package stats

import (
	"encoding/json"
	"fmt"
)

// UndefinedText is how an undefined ratio is rendered in tables.
const UndefinedText = "N/A"

// Ratio is a derived statistic whose denominator may be zero.
// The zero value is Undefined.
type Ratio struct {
	value   float64
	defined bool
}

// Undefined is the sentinel for a ratio with a zero denominator.
var Undefined = Ratio{}

// NewRatio divides num by den. A zero denominator yields Undefined.
func NewRatio(num, den int) Ratio {
	if den == 0 {
		return Undefined
	}
	return Ratio{value: float64(num) / float64(den), defined: true}
}

// Defined reports whether the ratio has a value.
func (r Ratio) Defined() bool {
	return r.defined
}

// Value returns the ratio and whether it is defined.
func (r Ratio) Value() (float64, bool) {
	return r.value, r.defined
}

// Float returns the ratio, or fallback when undefined.
func (r Ratio) Float(fallback float64) float64 {
	if !r.defined {
		return fallback
	}
	return r.value
}

// String formats the ratio for CSV output.
func (r Ratio) String() string {
	if !r.defined {
		return UndefinedText
	}
	return fmt.Sprintf("%.2f", r.value)
}

// MarshalJSON encodes an undefined ratio as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

// UnmarshalJSON accepts null as Undefined.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Undefined
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode ratio: %w", err)
	}
	*r = Ratio{value: v, defined: true}
	return nil
}
