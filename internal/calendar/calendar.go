package calendar

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRange = errors.New("invalid date range")

// Calendar holds the optional start and end days of a query. A zero value means the
// bound was not given.
type Calendar struct {
	Start time.Time
	End   time.Time
}

// Range is a half-open interval [From, Until). A zero bound is unbounded.
type Range struct {
	From  time.Time
	Until time.Time
}

// Parse builds a Calendar from optional free-form start and end text.
func Parse(start, end string) (Calendar, error) {
	var cal Calendar

	if start != "" {
		day, err := ParseDate(start)
		if err != nil {
			return Calendar{}, err
		}
		cal.Start = truncateDay(day)
	}
	if end != "" {
		day, err := ParseDate(end)
		if err != nil {
			return Calendar{}, err
		}
		cal.End = truncateDay(day)
	}

	if !cal.Start.IsZero() && !cal.End.IsZero() && cal.End.Before(cal.Start) {
		return Calendar{}, fmt.Errorf("%w: end date %s cannot be earlier than start date %s",
			ErrInvalidRange, cal.End.Format(time.DateOnly), cal.Start.Format(time.DateOnly))
	}
	return cal, nil
}

// ForTotals resolves the range for reports. Without any bound it covers the current
// calendar month from its first day onwards.
func (c Calendar) ForTotals(now time.Time) Range {
	if c.Start.IsZero() && c.End.IsZero() {
		return Range{From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)}
	}
	return c.bounded()
}

// ForListing resolves the range for the activity feed. Without any bound it is
// unrestricted.
func (c Calendar) ForListing() Range {
	return c.bounded()
}

func (c Calendar) bounded() Range {
	switch {
	case !c.Start.IsZero() && !c.End.IsZero():
		return Range{From: c.Start, Until: nextDay(c.End)}
	case !c.Start.IsZero():
		return Range{From: c.Start, Until: nextDay(c.Start)}
	case !c.End.IsZero():
		return Range{Until: nextDay(c.End)}
	default:
		return Range{}
	}
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.Until.IsZero() && !t.Before(r.Until) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nextDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1)
}
