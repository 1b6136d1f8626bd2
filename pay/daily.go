/*
daily.go - Per-day pay components

PURPOSE:
  The smallest unit of calculation: one WorkDay. Weekly figures are sums
  of these per-day values.

ROUNDING POLICY:
  Mileage pay and mileage discrepancy are rounded PER DAY, half away from
  zero, to whole pence. The weekly mileage figure is the sum of the
  already-rounded daily values. The x10,000 mileage-rate scale means
  pence = miles * rate / 100.
*/
package pay

import "github.com/shopspring/decimal"

// =============================================================================
// DAILY COMPONENTS
// =============================================================================

// DailyPay is the flat rate for the day, snapshotted at entry time.
func DailyPay(d WorkDay) Pence {
	return d.DailyRate
}

// DailySweepAdjustment values helped-out stops at +1 unit each and
// received-help stops at -1 unit each, in whole currency units.
func DailySweepAdjustment(d WorkDay) Pence {
	return Pence(d.StopsGiven-d.StopsTaken) * SweepUnit
}

// DailyMileagePay pays official payslip miles only. Van-logged miles are for
// discrepancy detection and are never paid.
func DailyMileagePay(d WorkDay, rate int64) Pence {
	if d.AmazonPaidMiles == nil || rate <= 0 {
		return 0
	}
	return milesToPence(*d.AmazonPaidMiles, rate)
}

// DailyMileageDiscrepancy estimates the fuel cost of miles the van recorded
// beyond what the payslip reimbursed. Zero or negative differences are not
// flagged.
func DailyMileageDiscrepancy(d WorkDay, rate int64) Pence {
	if d.AmazonPaidMiles == nil || d.VanLoggedMiles == nil || rate <= 0 {
		return 0
	}
	diff := *d.VanLoggedMiles - *d.AmazonPaidMiles
	if diff <= 0 {
		return 0
	}
	return milesToPence(diff, rate)
}

// EffectiveMileageRate resolves the rate for a day: the day's snapshot wins,
// then the week override, then the settings rate.
func EffectiveMileageRate(d WorkDay, week *Week, settings Settings) int64 {
	if d.MileageRate > 0 {
		return d.MileageRate
	}
	if week != nil && week.MileageRate != nil && *week.MileageRate > 0 {
		return *week.MileageRate
	}
	return settings.MileageRate
}

// milesToPence converts miles at the x10,000-scale rate to whole pence,
// rounding half away from zero.
func milesToPence(miles float64, rate int64) Pence {
	pence := decimal.NewFromFloat(miles).
		Mul(decimal.NewFromInt(rate)).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return Pence(pence.IntPart())
}
