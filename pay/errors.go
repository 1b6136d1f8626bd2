/*
errors.go - Centralized error types for the pay engine

PURPOSE:
  All validation failures surface as typed errors identifying the violated
  constraint. The engine never logs or swallows errors itself; the caller
  decides how to present them. Nothing is silently clamped - the only
  clipping anywhere is the explicit deposit cap in deposit.go.

USAGE:
  if errors.Is(err, pay.ErrSweepLimitExceeded) { ... }

  var sweepErr *pay.SweepLimitError
  if errors.As(err, &sweepErr) { show(sweepErr.Given, sweepErr.Taken) }
*/
package pay

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSweepLimitExceeded is returned when stops given/taken exceed the
	// per-field or combined limit of 200.
	ErrSweepLimitExceeded = errors.New("sweep limit exceeded")

	// ErrNegativeStops is returned for negative stop counts.
	ErrNegativeStops = errors.New("negative stop count")

	// ErrNegativeMiles is returned for negative mileage values.
	ErrNegativeMiles = errors.New("negative mileage")

	// ErrNegativeRate is returned for negative daily or mileage rates.
	ErrNegativeRate = errors.New("negative rate")

	// ErrInvalidRouteType is returned for an unrecognized route type.
	ErrInvalidRouteType = errors.New("invalid route type")

	// ErrTooManyWorkDays is returned when a week would hold a 7th work day.
	ErrTooManyWorkDays = errors.New("too many work days in week")

	// ErrDuplicateWorkDay is returned when two work days share a date.
	ErrDuplicateWorkDay = errors.New("duplicate work day for date")

	// ErrWorkDayOutsideWeek is returned when a work day's date falls outside
	// the week it was supplied for.
	ErrWorkDayOutsideWeek = errors.New("work day outside week boundaries")

	// ErrNegativeDaysWorked is returned for a negative days-worked count.
	ErrNegativeDaysWorked = errors.New("negative days worked")

	// ErrOffHireBeforeOnHire is returned when a van's off-hire date precedes
	// its on-hire date.
	ErrOffHireBeforeOnHire = errors.New("off-hire date before on-hire date")

	// ErrMultipleActiveVans is returned when more than one van hire has no
	// off-hire date.
	ErrMultipleActiveVans = errors.New("multiple active van hires")

	// ErrDepositSeedOutOfRange is returned for a manual deposit adjustment
	// outside [0, DepositCap].
	ErrDepositSeedOutOfRange = errors.New("deposit adjustment out of range")

	// ErrInvalidPerformanceLevel is returned for an unrecognized ranking tier.
	ErrInvalidPerformanceLevel = errors.New("invalid performance level")

	// ErrInvalidInvoicingService is returned for an unrecognized service.
	ErrInvalidInvoicingService = errors.New("invalid invoicing service")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// SweepLimitError reports a sweep-count violation.
type SweepLimitError struct {
	Given int
	Taken int
}

func (e *SweepLimitError) Error() string {
	return fmt.Sprintf("sweeps exceed limit: given %d + taken %d > %d", e.Given, e.Taken, MaxSweeps)
}

func (e *SweepLimitError) Unwrap() error { return ErrSweepLimitExceeded }

// WorkDayCountError reports a week holding too many work days.
type WorkDayCountError struct {
	Week  int
	Year  int
	Count int
}

func (e *WorkDayCountError) Error() string {
	return fmt.Sprintf("week %d/%d has %d work days (max %d)", e.Week, e.Year, e.Count, MaxWorkDaysPerWeek)
}

func (e *WorkDayCountError) Unwrap() error { return ErrTooManyWorkDays }

// VanDateError reports an off-hire date preceding the on-hire date.
type VanDateError struct {
	VanID   string
	OnHire  string
	OffHire string
}

func (e *VanDateError) Error() string {
	return fmt.Sprintf("van %s: off-hire %s before on-hire %s", e.VanID, e.OffHire, e.OnHire)
}

func (e *VanDateError) Unwrap() error { return ErrOffHireBeforeOnHire }

// DepositSeedError reports an out-of-range manual deposit adjustment.
type DepositSeedError struct {
	Seed Pence
}

func (e *DepositSeedError) Error() string {
	return fmt.Sprintf("deposit adjustment %d outside [0, %d]", e.Seed, DepositCap)
}

func (e *DepositSeedError) Unwrap() error { return ErrDepositSeedOutOfRange }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid input (as
// opposed to an internal defect).
func IsClientError(err error) bool {
	return errors.Is(err, ErrSweepLimitExceeded) ||
		errors.Is(err, ErrNegativeStops) ||
		errors.Is(err, ErrNegativeMiles) ||
		errors.Is(err, ErrNegativeRate) ||
		errors.Is(err, ErrInvalidRouteType) ||
		errors.Is(err, ErrTooManyWorkDays) ||
		errors.Is(err, ErrDuplicateWorkDay) ||
		errors.Is(err, ErrWorkDayOutsideWeek) ||
		errors.Is(err, ErrNegativeDaysWorked) ||
		errors.Is(err, ErrOffHireBeforeOnHire) ||
		errors.Is(err, ErrMultipleActiveVans) ||
		errors.Is(err, ErrDepositSeedOutOfRange) ||
		errors.Is(err, ErrInvalidPerformanceLevel) ||
		errors.Is(err, ErrInvalidInvoicingService)
}
