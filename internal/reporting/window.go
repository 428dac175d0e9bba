package reporting

import (
	"fmt"
	"time"

	"github.com/partsline/opsconsole/internal/types"
)

// DateLayout is the wire format for report dates
const DateLayout = "2006-01-02"

// Day-count clamp for days-back windows
const (
	MinDaysBack = 1
	MaxDaysBack = 90
)

// BadWindowError reports a caller-supplied date that could not be parsed.
// It is the only error surface of the window guard; every other odd input is
// normalized rather than rejected.
type BadWindowError struct {
	Field string
	Value string
	Err   error
}

func (e *BadWindowError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *BadWindowError) Unwrap() error { return e.Err }

// ResolveWindow normalizes a caller-supplied date range to a safe, past-or-
// present interval in epoch milliseconds. Future end dates clamp to now,
// future start dates become now minus one day, and inverted ranges become
// (end minus one day, end).
func ResolveWindow(startDate, endDate string, now time.Time) (types.Window, error) {
	start, err := time.ParseInLocation(DateLayout, startDate, time.Local)
	if err != nil {
		return types.Window{}, &BadWindowError{Field: "start_date", Value: startDate, Err: err}
	}
	end, err := time.ParseInLocation(DateLayout, endDate, time.Local)
	if err != nil {
		return types.Window{}, &BadWindowError{Field: "end_date", Value: endDate, Err: err}
	}

	if end.After(now) {
		end = now
	}
	if eod := endOfDay(end); eod.Before(now) {
		end = eod
	} else {
		end = now
	}

	if start.After(now) {
		start = now.AddDate(0, 0, -1)
	}
	if start.After(end) {
		start = end.AddDate(0, 0, -1)
	}

	return types.Window{StartMS: start.UnixMilli(), EndMS: end.UnixMilli()}, nil
}

// ResolveDaysBack derives a window covering the trailing days up to now.
// The day count is clamped to [MinDaysBack, MaxDaysBack].
func ResolveDaysBack(days int, now time.Time) types.Window {
	if days < MinDaysBack {
		days = MinDaysBack
	}
	if days > MaxDaysBack {
		days = MaxDaysBack
	}
	start := now.AddDate(0, 0, -days)
	return types.Window{StartMS: start.UnixMilli(), EndMS: now.UnixMilli()}
}

// FormatDate renders an epoch-millisecond instant as a local report date
func FormatDate(ms int64) string {
	return time.UnixMilli(ms).Local().Format(DateLayout)
}

// PeriodDays counts the calendar days a window spans, inclusive
func PeriodDays(win types.Window) int {
	start := time.UnixMilli(win.StartMS).Local()
	end := time.UnixMilli(win.EndMS).Local()
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.Local)
	return int(endDay.Sub(startDay).Hours()/24) + 1
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
