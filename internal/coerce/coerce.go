// internal/coerce/coerce.go
// Package coerce turns loosely-typed request values into typed ones. A value
// that cannot be parsed falls back to a default instead of failing the request.
package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Number accepts a JSON number or a JSON string holding a number.
// A nil *Number means the field was absent.
type Number struct {
	raw string
}

// Bool accepts a JSON bool or a string such as "true" / "0".
type Bool struct {
	raw string
}

func NumberOf(s string) *Number {
	return &Number{raw: s}
}

func BoolOf(s string) *Bool {
	return &Bool{raw: s}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	n.raw = rawValue(b)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.raw)
}

func (n *Number) String() string {
	if n == nil {
		return ""
	}
	return n.raw
}

// Int parses the value as an integer, truncating fractions toward zero.
func (n *Number) Int() int {
	if n == nil {
		return 0
	}
	return Int(n.raw)
}

func (n *Number) Float() float64 {
	if n == nil {
		return 0
	}
	return Float(n.raw)
}

func (n *Number) Decimal() decimal.Decimal {
	if n == nil {
		return decimal.Zero
	}
	return Decimal(n.raw)
}

func (b *Bool) UnmarshalJSON(data []byte) error {
	b.raw = rawValue(data)
	return nil
}

func (b Bool) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.raw)
}

// Value returns the parsed flag, or def when the value is absent or unparseable.
func (b *Bool) Value(def bool) bool {
	if b == nil {
		return def
	}
	v, err := strconv.ParseBool(strings.TrimSpace(b.raw))
	if err != nil {
		return def
	}
	return v
}

// Int parses s as an integer, or 0 on failure. Values outside the int32
// range count as failures whether written as integers or decimals.
func Int(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int(v)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

// Float parses s as a float, or 0 on failure.
func Float(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Decimal parses s as a decimal, or zero on failure.
func Decimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// NonNegativeDecimal is Decimal with negative results replaced by zero.
func NonNegativeDecimal(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func rawValue(b []byte) string {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return ""
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err == nil {
			return str
		}
	}
	return s
}
