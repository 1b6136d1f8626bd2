package pay

import (
	"fmt"
	"sort"

	"github.com/fleetpay/courier-engine/workweek"
)

// =============================================================================
// VALIDATION - Fail fast, never silently correct
// =============================================================================

// ValidateWorkDay checks a single work day's fields.
func ValidateWorkDay(d WorkDay) error {
	if !d.RouteType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRouteType, d.RouteType)
	}
	if d.DailyRate < 0 || d.MileageRate < 0 {
		return fmt.Errorf("%w: day %s", ErrNegativeRate, d.Date)
	}
	if d.StopsGiven < 0 || d.StopsTaken < 0 {
		return fmt.Errorf("%w: day %s", ErrNegativeStops, d.Date)
	}
	if d.StopsGiven > MaxSweeps || d.StopsTaken > MaxSweeps || d.StopsGiven+d.StopsTaken > MaxSweeps {
		return &SweepLimitError{Given: d.StopsGiven, Taken: d.StopsTaken}
	}
	if d.AmazonPaidMiles != nil && *d.AmazonPaidMiles < 0 {
		return fmt.Errorf("%w: day %s amazon miles", ErrNegativeMiles, d.Date)
	}
	if d.VanLoggedMiles != nil && *d.VanLoggedMiles < 0 {
		return fmt.Errorf("%w: day %s van miles", ErrNegativeMiles, d.Date)
	}
	return nil
}

// ValidateWeekDays checks a week's worth of work days: each day valid, each
// date inside the week's boundaries, no duplicate dates, and no 7th day.
func ValidateWeekDays(info workweek.WeekInfo, days []WorkDay) error {
	if len(days) > MaxWorkDaysPerWeek {
		return &WorkDayCountError{Week: info.Week, Year: info.Year, Count: len(days)}
	}
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		if err := ValidateWorkDay(d); err != nil {
			return err
		}
		if d.Date.Before(info.StartDate) || d.Date.After(info.EndDate) {
			return fmt.Errorf("%w: %s not in week %d/%d (%s..%s)",
				ErrWorkDayOutsideWeek, d.Date, info.Week, info.Year, info.StartDate, info.EndDate)
		}
		key := d.Date.String()
		if seen[key] {
			return fmt.Errorf("%w: %s", ErrDuplicateWorkDay, key)
		}
		seen[key] = true
	}
	return nil
}

// ValidateVanHire checks a single van hire's dates.
func ValidateVanHire(v VanHire) error {
	if v.OffHireDate != nil && v.OffHireDate.Before(v.OnHireDate) {
		return &VanDateError{
			VanID:   v.ID,
			OnHire:  v.OnHireDate.String(),
			OffHire: v.OffHireDate.String(),
		}
	}
	if v.WeeklyRate < 0 {
		return fmt.Errorf("%w: van %s weekly rate", ErrNegativeRate, v.ID)
	}
	return nil
}

// ValidateVanHistory checks a driver's full hire history: every record
// valid and at most one currently active van.
func ValidateVanHistory(vans []VanHire) error {
	active := 0
	for _, v := range vans {
		if err := ValidateVanHire(v); err != nil {
			return err
		}
		if v.Active() {
			active++
		}
	}
	if active > 1 {
		return ErrMultipleActiveVans
	}
	return nil
}

// ValidateDepositSeed checks a manual deposit adjustment.
func ValidateDepositSeed(seed Pence) error {
	if seed < 0 || seed > DepositCap {
		return &DepositSeedError{Seed: seed}
	}
	return nil
}

// ValidateSettings checks the driver's rate configuration.
func ValidateSettings(s Settings) error {
	if s.NormalRate < 0 || s.DRSRate < 0 || s.MileageRate < 0 {
		return ErrNegativeRate
	}
	if !s.InvoicingService.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidInvoicingService, s.InvoicingService)
	}
	return ValidateDepositSeed(s.ManualDepositSeed)
}

// sortVansChronologically returns a copy ordered by on-hire date. The input
// slice is never mutated; deposit correctness depends on processing the
// history in hire order.
func sortVansChronologically(vans []VanHire) []VanHire {
	sorted := make([]VanHire, len(vans))
	copy(sorted, vans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OnHireDate.Before(sorted[j].OnHireDate)
	})
	return sorted
}
