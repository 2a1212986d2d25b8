package date

import (
	"fmt"
	"time"
)

// Range is an interval of days, both ends included.
type Range struct{ From, To Date }

// NewRange returns the calendar period that contains d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains reports whether day is in the range.
func (r Range) Contains(day Date) bool { return !day.Before(r.From) && !day.After(r.To) }

// ContainsTime reports whether the UTC day of t is in the range.
func (r Range) ContainsTime(t time.Time) bool { return r.Contains(Of(t)) }

// Period returns the calendar period r spans exactly, if any.
func (r Range) Period() (Period, bool) {
	for p := Daily; p <= Yearly; p++ {
		if NewRange(r.From, p) == r {
			return p, true
		}
	}
	return Daily, false
}

// Identifier returns a short name for the range: "2025-09-08", "2025-W37",
// "2025-09", "2025-Q3", "2025", or "from_to" when r is not a calendar period.
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return r.From.String() + "_" + r.To.String()
	}
	switch p {
	case Weekly:
		year, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		return r.From.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()+2)/3)
	case Yearly:
		return r.From.Format("2006")
	default:
		return r.From.String()
	}
}
