/*
Package workweek implements the custom Sunday-Saturday work-week calendar
used for courier pay.

PURPOSE:
  Amazon DSP pay runs on a non-ISO week numbering scheme. Weeks run
  Sunday through Saturday, numbered 1..52 (occasionally 1..53) within a
  "work-year" that is anchored to a floating late-December Sunday rather
  than January 1st. All pay, bonus and deposit bookkeeping is keyed by
  (week, work-year) coordinates, so this package is the foundation every
  other calculation sits on.

WEEK-1 ANCHOR RULE:
  Week 1 of work-year Y starts on the last Sunday on or before
  December 31 of calendar year Y-1 - UNLESS work-year Y-1 contained a
  53rd week, in which case Week 1 of Y starts the Sunday immediately
  after that Week 53 ends. The anchor is therefore chained: resolving
  year Y requires the week count of year Y-1, all the way back to the
  seed year.

53-WEEK RULE:
  A work-year has 53 weeks if and only if its Week 52 ends on or before
  December 24 of its calendar year AND one further full Sunday-Saturday
  week ends on or before December 31 of that calendar year.

SEED:
  Years at or before SeedYear (2024) are computed directly from the
  "last Sunday on or before Dec 31" rule with no chaining. Later years
  are filled iteratively forward and memoized, so distant lookups stay
  O(1) after the first resolution.

PAYMENT OFFSETS:
  Standard pay lands 2 work-weeks after the work was done; performance
  bonus lands 6 work-weeks after. Both roll across year boundaries using
  the exited year's 52/53 week count.

SEE ALSO:
  - navigate.go: Week stepping and payment-offset arithmetic
  - pay package: Consumes WeekInfo for weekly pay breakdowns
*/
package workweek

import (
	"sync"
	"time"
)

// SeedYear is the first work-year the calendar supports. Anchors for years
// at or before the seed are computed directly; later years chain forward.
const SeedYear = 2024

// WeekInfo identifies one work-week and its calendar-date boundaries.
// It is a value object computed on demand, never persisted.
type WeekInfo struct {
	Week      int  `json:"week"`
	Year      int  `json:"year"`
	StartDate Date `json:"startDate"`
	EndDate   Date `json:"endDate"`
}

// =============================================================================
// CALENDAR - Memoized week-anchor resolution
// =============================================================================

// Calendar resolves (week, work-year) coordinates. It memoizes per-year
// anchors and week counts; the zero value is not usable, construct with New.
//
// Calendar is safe for concurrent use: one instance is shared by every
// request goroutine, so the lazy cache fills are serialized by a mutex.
type Calendar struct {
	mu      sync.Mutex
	anchors map[int]Date // work-year -> Week 1 start (a Sunday)
	weeks   map[int]int  // work-year -> 52 or 53
}

// New creates an empty calendar.
func New() *Calendar {
	return &Calendar{
		anchors: make(map[int]Date),
		weeks:   make(map[int]int),
	}
}

// Week1StartDate returns the Sunday on which Week 1 of the given work-year
// starts. Fails with ErrYearOutOfRange for years the seed rule cannot reach.
func (c *Calendar) Week1StartDate(workYear int) (Date, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.week1StartDate(workYear)
}

func (c *Calendar) week1StartDate(workYear int) (Date, error) {
	if workYear < 1 {
		return Date{}, &YearError{Year: workYear}
	}
	if a, ok := c.anchors[workYear]; ok {
		return a, nil
	}

	if workYear <= SeedYear {
		// Seed rule: no dependency on the prior year.
		a := lastSundayOnOrBefore(NewDate(workYear-1, time.December, 31))
		c.anchors[workYear] = a
		return a, nil
	}

	// Fill forward from the most recent resolved year (or the seed).
	from := SeedYear
	for y := workYear - 1; y > SeedYear; y-- {
		if _, ok := c.anchors[y]; ok {
			from = y
			break
		}
	}
	if _, ok := c.anchors[from]; !ok {
		if _, err := c.week1StartDate(from); err != nil {
			return Date{}, err
		}
	}

	for y := from + 1; y <= workYear; y++ {
		prev := c.anchors[y-1]
		var a Date
		if c.weeksInYearFromAnchor(y-1, prev) == 53 {
			// Prior year ran 53 weeks: Week 1 starts right after it ends.
			a = prev.AddDays(53 * 7)
		} else {
			a = lastSundayOnOrBefore(NewDate(y-1, time.December, 31))
		}
		c.anchors[y] = a
	}
	return c.anchors[workYear], nil
}

// WeeksInYear reports whether the work-year runs 52 or 53 weeks.
func (c *Calendar) WeeksInYear(workYear int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weeksInYear(workYear)
}

func (c *Calendar) weeksInYear(workYear int) (int, error) {
	if n, ok := c.weeks[workYear]; ok {
		return n, nil
	}
	anchor, err := c.week1StartDate(workYear)
	if err != nil {
		return 0, err
	}
	return c.weeksInYearFromAnchor(workYear, anchor), nil
}

func (c *Calendar) weeksInYearFromAnchor(workYear int, anchor Date) int {
	if n, ok := c.weeks[workYear]; ok {
		return n
	}
	// Week 52 ends 52*7-1 days after the anchor (a Saturday).
	week52End := anchor.AddDays(52*7 - 1)
	cutoff := NewDate(week52End.Year(), time.December, 24)
	yearEnd := NewDate(week52End.Year(), time.December, 31)

	n := 52
	if week52End.BeforeOrEqual(cutoff) && week52End.AddDays(7).BeforeOrEqual(yearEnd) {
		n = 53
	}
	c.weeks[workYear] = n
	return n
}

// WeekDateRange returns the Sunday-Saturday boundaries of the given week.
// Fails with ErrInvalidWeekNumber when the week is outside 1..WeeksInYear.
func (c *Calendar) WeekDateRange(week, workYear int) (WeekInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weekDateRange(week, workYear)
}

func (c *Calendar) weekDateRange(week, workYear int) (WeekInfo, error) {
	total, err := c.weeksInYear(workYear)
	if err != nil {
		return WeekInfo{}, err
	}
	if week < 1 || week > total {
		return WeekInfo{}, &WeekNumberError{Week: week, Year: workYear, Max: total}
	}
	anchor, err := c.week1StartDate(workYear)
	if err != nil {
		return WeekInfo{}, err
	}
	start := anchor.AddDays((week - 1) * 7)
	return WeekInfo{
		Week:      week,
		Year:      workYear,
		StartDate: start,
		EndDate:   start.AddDays(6),
	}, nil
}

// DateToWeek attributes a calendar date to its work-week. Dates in the
// late-December transition zone may belong to the NEXT work-year (a date that
// calendarically sits in year Y belongs to work-year Y+1 once the Y+1 anchor
// has passed).
func (c *Calendar) DateToWeek(date Date) (WeekInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	workYear := date.Year()

	nextAnchor, err := c.week1StartDate(workYear + 1)
	if err != nil {
		return WeekInfo{}, err
	}
	if date.AfterOrEqual(nextAnchor) {
		workYear++
	}

	anchor, err := c.week1StartDate(workYear)
	if err != nil {
		return WeekInfo{}, err
	}
	week := DaysBetween(anchor, date)/7 + 1
	return c.weekDateRange(week, workYear)
}
