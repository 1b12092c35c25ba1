// Package currency provides a fixed-point monetary value with four
// fractional digits. Arithmetic is exact at that scale, so amounts never
// accumulate binary floating-point drift across a run.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// scale is the number of fractional digits every Amount carries.
const scale = 4

// Amount is a signed fixed-point monetary value. The zero value is zero
// money and is ready to use.
type Amount struct {
	d decimal.Decimal
}

// Zero returns a zero Amount.
func Zero() Amount {
	return Amount{}
}

// Parse converts a decimal string such as "1.5" or "-0.0001" into an
// Amount, rounding to four fractional digits.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return Amount{d: d.Round(scale)}, nil
}

// MustParse is like Parse but panics on a malformed string. It is intended
// for literals in tests and static tables.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

// Sub returns a - b. A negative result is a valid Amount; callers decide
// whether to accept it.
func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// Less reports whether a < b.
func (a Amount) Less(b Amount) bool {
	return a.d.Cmp(b.d) < 0
}

// Equal reports whether a and b represent the same value, regardless of
// how many trailing zeros either was parsed with.
func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

// String renders the amount with exactly four fractional digits.
func (a Amount) String() string {
	return a.d.StringFixed(scale)
}
