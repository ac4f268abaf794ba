package pagination

import (
	"fmt"
	"time"
)

// Window is one date sub-range of a chunked span. Both bounds are
// inclusive calendar dates.
type Window struct {
	Start time.Time
	End   time.Time
}

// Delta is the calendar increment used to split a span into windows.
// Months advance by whole calendar months, Days by a fixed day count;
// both may be combined. A Delta must advance time to be usable.
type Delta struct {
	Months int
	Days   int
}

// Days returns a fixed day-count delta.
func Days(n int) Delta {
	return Delta{Days: n}
}

// Months returns a whole-calendar-month delta.
func Months(n int) Delta {
	return Delta{Months: n}
}

// IsPositive reports whether the delta advances time.
func (d Delta) IsPositive() bool {
	return (d.Months > 0 || d.Days > 0) && d.Months >= 0 && d.Days >= 0
}

// advance moves a date forward by the delta.
func (d Delta) advance(t time.Time) time.Time {
	return t.AddDate(0, d.Months, d.Days)
}

func (d Delta) String() string {
	switch {
	case d.Months > 0 && d.Days > 0:
		return fmt.Sprintf("%dm%dd", d.Months, d.Days)
	case d.Months > 0:
		return fmt.Sprintf("%dm", d.Months)
	default:
		return fmt.Sprintf("%dd", d.Days)
	}
}

// Split partitions [start, end] into consecutive, non-overlapping
// windows whose union exactly covers the span: each window ends one day
// before the next begins, and the final window is clamped to end.
// start after end yields no windows. A non-positive delta yields nil to
// guard against a non-terminating walk; callers validate before use.
func Split(start, end time.Time, delta Delta) []Window {
	if !delta.IsPositive() {
		return nil
	}

	var windows []Window
	for cur := start; !cur.After(end); cur = delta.advance(cur) {
		wEnd := delta.advance(cur).AddDate(0, 0, -1)
		if wEnd.After(end) {
			wEnd = end
		}
		windows = append(windows, Window{Start: cur, End: wEnd})
	}
	return windows
}
