/*
weekly.go - Weekly aggregation and the standard-pay total

PURPOSE:
  Assembles one WeeklyPayBreakdown from a week's raw records. Everything
  here is a pure function of its inputs: the engine holds only the shared
  week calendar, and the caller supplies records as an already-fetched,
  consistent snapshot.

STANDARD PAY:
  basePay + sixDayBonus + sweeps + mileage
    - vanDeduction - depositPayment - invoicingCost

  A negative total is surfaced as-is; flooring it to zero would hide a
  real liability from the driver.
*/
package pay

import (
	"github.com/fleetpay/courier-engine/workweek"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes pay breakdowns against a shared week calendar.
type Engine struct {
	cal *workweek.Calendar
}

// NewEngine creates an engine over the given calendar.
func NewEngine(cal *workweek.Calendar) *Engine {
	return &Engine{cal: cal}
}

// Calendar exposes the underlying week calendar.
func (e *Engine) Calendar() *workweek.Calendar { return e.cal }

// WeeklyInput is the record snapshot for one week's breakdown.
type WeeklyInput struct {
	Week int
	Year int

	// Days worked in this week. May be empty ("no work logged" is a normal
	// state, not an error).
	Days []WorkDay

	// WeekRecord carries ranking levels and the week's mileage override.
	// Nil when no record exists yet.
	WeekRecord *Week

	// Vans is the driver's FULL hire history (the deposit tier position
	// depends on all of it, not just vans overlapping this week).
	Vans []VanHire

	Settings Settings

	// Today anchors the deposit payment lag for still-active vans.
	Today workweek.Date
}

// =============================================================================
// WEEKLY BREAKDOWN
// =============================================================================

// WeeklyBreakdown computes the full pay breakdown for one work-week.
func (e *Engine) WeeklyBreakdown(in WeeklyInput) (WeeklyPayBreakdown, error) {
	info, err := e.cal.WeekDateRange(in.Week, in.Year)
	if err != nil {
		return WeeklyPayBreakdown{}, err
	}
	if err := ValidateWeekDays(info, in.Days); err != nil {
		return WeeklyPayBreakdown{}, err
	}
	if err := ValidateSettings(in.Settings); err != nil {
		return WeeklyPayBreakdown{}, err
	}

	b := WeeklyPayBreakdown{
		WeekInfo:   info,
		DaysWorked: len(in.Days),
	}

	for _, d := range in.Days {
		rate := EffectiveMileageRate(d, in.WeekRecord, in.Settings)
		b.BasePay += DailyPay(d)
		b.SweepAdjustment += DailySweepAdjustment(d)
		b.MileagePayment += DailyMileagePay(d, rate)
		b.MileageDiscrepancy += DailyMileageDiscrepancy(d, rate)
		b.StopsGiven += d.StopsGiven
		b.StopsTaken += d.StopsTaken
		if d.AmazonPaidMiles != nil {
			b.TotalAmazonMiles += *d.AmazonPaidMiles
		}
		if d.VanLoggedMiles != nil {
			b.TotalVanMiles += *d.VanLoggedMiles
		}
	}

	if len(in.Days) == MaxWorkDaysPerWeek {
		b.SixDayBonus = SixDayBonus
	}

	b.VanDeduction = WeeklyVanCost(in.Vans, info)

	schedule, err := BuildDepositSchedule(in.Vans, in.Settings.ManualDepositSeed, in.Today)
	if err != nil {
		return WeeklyPayBreakdown{}, err
	}
	b.DepositPayment = schedule.DueInRange(info.StartDate, info.EndDate)

	// Invoicing is only charged for weeks the driver actually worked.
	if len(in.Days) > 0 {
		b.InvoicingCost = in.Settings.InvoicingService.WeeklyCost()
	}

	b.StandardPay = b.BasePay + b.SixDayBonus + b.SweepAdjustment + b.MileagePayment -
		b.VanDeduction - b.DepositPayment - b.InvoicingCost

	if in.WeekRecord != nil && in.WeekRecord.IndividualLevel != nil && in.WeekRecord.CompanyLevel != nil {
		bonus, err := PerformanceBonus(*in.WeekRecord.IndividualLevel, *in.WeekRecord.CompanyLevel, len(in.Days))
		if err != nil {
			return WeeklyPayBreakdown{}, err
		}
		b.PerformanceBonus = &bonus
	}

	if b.StandardPaymentWeek, err = e.cal.StandardPaymentWeek(in.Week, in.Year); err != nil {
		return WeeklyPayBreakdown{}, err
	}
	if b.BonusPaymentWeek, err = e.cal.BonusPaymentWeek(in.Week, in.Year); err != nil {
		return WeeklyPayBreakdown{}, err
	}

	return b, nil
}
