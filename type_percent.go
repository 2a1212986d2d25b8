package portfolio

import (
	"math"
	"strconv"
)

// Percent is a ratio expressed in percent. It is derived for display and
// never feeds back into ledger arithmetic, hence float64.
type Percent float64

// percentTolerance is the precision at which two percentages are equal.
const percentTolerance = 1e-4

// Equal reports whether p and q are within percentTolerance.
func (p Percent) Equal(q Percent) bool { return math.Abs(float64(p-q)) < percentTolerance }

// String formats p with two decimals, e.g. "13.49%".
func (p Percent) String() string { return strconv.FormatFloat(float64(p), 'f', 2, 64) + "%" }

// SignedString is like String with an explicit sign, and "-" when p rounds to zero.
func (p Percent) SignedString() string {
	if math.Abs(float64(p)) < 0.005 {
		return "-"
	}
	s := p.String()
	if p > 0 {
		s = "+" + s
	}
	return s
}

// MarshalJSON writes p rounded to percentTolerance.
func (p Percent) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, math.Round(float64(p)*1e4)/1e4, 'f', -1, 64), nil
}
