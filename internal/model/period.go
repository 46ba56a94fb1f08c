package model

import (
	"fmt"
	"time"
)

// DateFormat is the ISO calendar date layout used for storage and display.
const DateFormat = "2006-01-02"

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date. Empty input yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// Period is an inclusive date range. A zero bound is open.
type Period struct {
	From time.Time
	To   time.Time
}

// NewPeriod builds a period from optional from/to/as-of dates. As-of is an
// upper bound like to; when both are given the earlier one applies.
func NewPeriod(from, to, asOf time.Time) Period {
	p := Period{From: from, To: to}
	if !asOf.IsZero() && (p.To.IsZero() || asOf.Before(p.To)) {
		p.To = asOf
	}
	if !p.From.IsZero() {
		p.From = Day(p.From)
	}
	if !p.To.IsZero() {
		p.To = Day(p.To)
	}
	return p
}

// ParsePeriod is NewPeriod over YYYY-MM-DD strings; empty strings are open.
func ParsePeriod(from, to, asOf string) (Period, error) {
	f, err := ParseDate(from)
	if err != nil {
		return Period{}, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return Period{}, err
	}
	a, err := ParseDate(asOf)
	if err != nil {
		return Period{}, err
	}
	return NewPeriod(f, t, a), nil
}

// Contains reports whether the calendar date of d is within the period.
func (p Period) Contains(d time.Time) bool {
	d = Day(d)
	if !p.From.IsZero() && d.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && d.After(p.To) {
		return false
	}
	return true
}

// IsOpen reports whether neither bound is set.
func (p Period) IsOpen() bool {
	return p.From.IsZero() && p.To.IsZero()
}
