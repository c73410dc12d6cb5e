// Package calendar converts a reference month into a render-ready grid of
// day cells spanning whole weeks, including the out-of-month leading and
// trailing days.
package calendar

import (
	"fmt"
	"time"

	"studysync/internal/models"
)

// DateRange is an inclusive span of calendar days, always covering whole
// weeks. Dates are normalized to midnight UTC; only the calendar day matters.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Equal reports whether two ranges cover the same days.
func (r DateRange) Equal(other DateRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// Contains reports whether the day of d falls within the range.
func (r DateRange) Contains(d time.Time) bool {
	day := Day(d)
	return !day.Before(r.Start) && !day.After(r.End)
}

// Len returns the number of days in the range.
func (r DateRange) Len() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Days enumerates every date from Start to End inclusive.
func (r DateRange) Days() []time.Time {
	days := make([]time.Time, 0, r.Len())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// String renders the range as "start..end" in wire-date format. Used as the
// cache key for last-request-wins comparisons.
func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(models.DateFormat), r.End.Format(models.DateFormat))
}

// Day truncates a time to its calendar day at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports date equality at day granularity.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Resolver computes display ranges for reference months. It holds only the
// week start convention, which must match the renderer's.
type Resolver struct {
	weekStart time.Weekday
}

// NewResolver creates a Resolver with the given week start day.
func NewResolver(weekStart time.Weekday) *Resolver {
	return &Resolver{weekStart: weekStart}
}

// WeekStart returns the configured first day of the week.
func (r *Resolver) WeekStart() time.Weekday {
	return r.weekStart
}

// RangeFor computes the display range for the month containing monthRef: the
// first day of the week containing the month's first day, through the last
// day of the week containing the month's last day. The result always spans a
// multiple of 7 days (35 or 42 for most months). Pure and deterministic.
func (r *Resolver) RangeFor(monthRef time.Time) DateRange {
	monthStart := time.Date(monthRef.Year(), monthRef.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	lead := (int(monthStart.Weekday()) - int(r.weekStart) + 7) % 7
	trail := 6 - (int(monthEnd.Weekday())-int(r.weekStart)+7)%7

	return DateRange{
		Start: monthStart.AddDate(0, 0, -lead),
		End:   monthEnd.AddDate(0, 0, trail),
	}
}
