package workweek

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidWeekNumber is returned when a week number falls outside the
	// 1..52/53 range of its work-year.
	ErrInvalidWeekNumber = errors.New("invalid week number")

	// ErrYearOutOfRange is returned for work-years the calendar cannot
	// resolve (before year 1).
	ErrYearOutOfRange = errors.New("work-year out of range")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// WeekNumberError reports an out-of-range week number with the valid bound.
type WeekNumberError struct {
	Week int
	Year int
	Max  int
}

func (e *WeekNumberError) Error() string {
	return fmt.Sprintf("invalid week number %d for work-year %d (valid: 1..%d)", e.Week, e.Year, e.Max)
}

func (e *WeekNumberError) Unwrap() error { return ErrInvalidWeekNumber }

// YearError reports an unresolvable work-year.
type YearError struct {
	Year int
}

func (e *YearError) Error() string {
	return fmt.Sprintf("work-year %d out of range", e.Year)
}

func (e *YearError) Unwrap() error { return ErrYearOutOfRange }
