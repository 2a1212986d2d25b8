package date

import (
	"fmt"
	"strings"
)

// Period is a standard calendar period.
type Period int

// Periods, from the shortest.
const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// periodNames holds the adjective then the noun of each period.
var periodNames = [...][2]string{
	Daily:     {"daily", "day"},
	Weekly:    {"weekly", "week"},
	Monthly:   {"monthly", "month"},
	Quarterly: {"quarterly", "quarter"},
	Yearly:    {"yearly", "year"},
}

func (p Period) valid() bool { return p >= Daily && p <= Yearly }

// String returns the adjective, e.g. "monthly".
func (p Period) String() string {
	if !p.valid() {
		return fmt.Sprintf("period(%d)", int(p))
	}
	return periodNames[p][0]
}

// Noun returns the period as a noun, e.g. "month".
func (p Period) Noun() string {
	if !p.valid() {
		return p.String()
	}
	return periodNames[p][1]
}

// ParsePeriod accepts both the adjective and the noun, case insensitive:
// "monthly", "Month".
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, names := range periodNames {
		if s == names[0] || s == names[1] {
			return Period(p), nil
		}
	}
	return Daily, fmt.Errorf("unknown period %q, want one of day, week, month, quarter or year", s)
}
