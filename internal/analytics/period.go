package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownPeriod = errors.New("unknown period")

// Period is a calendar-relative range selector.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodWeek      Period = "week"
	PeriodMonth     Period = "month"
	PeriodAll       Period = "all"
)

var Periods = []Period{PeriodToday, PeriodYesterday, PeriodWeek, PeriodMonth, PeriodAll}

func ParsePeriod(token string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(token)))
	for _, known := range Periods {
		if p == known {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, token)
}

// SingleDay reports whether the period covers one calendar day.
func (p Period) SingleDay() bool {
	return p == PeriodToday || p == PeriodYesterday
}

// Range is the half-open interval [Start, End). A zero bound is unbounded.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}

	if !r.End.IsZero() && !t.Before(r.End) {
		return false
	}

	return true
}

func (r Range) Unbounded() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Window pairs the current range with the one it is compared against.
type Window struct {
	Period   Period
	Current  Range
	Previous Range
}

// Comparable is false for the all-time period, which has no predecessor.
func (w Window) Comparable() bool {
	return w.Period != PeriodAll
}

// Resolve computes the window for p in now's location. Weeks start on Sunday.
func Resolve(p Period, now time.Time) Window {
	today := midnight(now)

	switch p {
	case PeriodToday:
		return Window{
			Period:   p,
			Current:  Range{Start: today, End: today.AddDate(0, 0, 1)},
			Previous: Range{Start: today.AddDate(0, 0, -1), End: today},
		}
	case PeriodYesterday:
		return Window{
			Period:   p,
			Current:  Range{Start: today.AddDate(0, 0, -1), End: today},
			Previous: Range{Start: today.AddDate(0, 0, -2), End: today.AddDate(0, 0, -1)},
		}
	case PeriodWeek:
		start := today.AddDate(0, 0, -int(today.Weekday()))

		return Window{
			Period:   p,
			Current:  Range{Start: start, End: start.AddDate(0, 0, 7)},
			Previous: Range{Start: start.AddDate(0, 0, -7), End: start},
		}
	case PeriodMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

		return Window{
			Period:   p,
			Current:  Range{Start: start, End: start.AddDate(0, 1, 0)},
			Previous: Range{Start: start.AddDate(0, -1, 0), End: start},
		}
	default:
		return Window{Period: PeriodAll}
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
