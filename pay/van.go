package pay

import (
	"github.com/shopspring/decimal"

	"github.com/fleetpay/courier-engine/workweek"
)

// =============================================================================
// VAN PRO-RATA COST
// =============================================================================

// WeeklyVanCost sums pro-rata contributions of every van covering part of
// the week. A van active for only part of the week costs
// weeklyRate * daysActive / 7, rounded to the nearest penny; no van means
// zero; a mid-week swap charges both vans for their share.
func WeeklyVanCost(vans []VanHire, info workweek.WeekInfo) Pence {
	var total Pence
	for _, v := range vans {
		days := vanDaysActiveInWeek(v, info)
		if days == 0 {
			continue
		}
		if days == 7 {
			total += v.WeeklyRate
			continue
		}
		prorated := decimal.NewFromInt(int64(v.WeeklyRate)).
			Mul(decimal.NewFromInt(int64(days))).
			Div(decimal.NewFromInt(7)).
			Round(0)
		total += Pence(prorated.IntPart())
	}
	return total
}

// vanDaysActiveInWeek counts the overlap (in days) between the hire period
// and the week's Sunday-Saturday range.
func vanDaysActiveInWeek(v VanHire, info workweek.WeekInfo) int {
	start := info.StartDate
	if v.OnHireDate.After(start) {
		start = v.OnHireDate
	}
	end := info.EndDate
	if v.OffHireDate != nil && v.OffHireDate.Before(end) {
		end = *v.OffHireDate
	}
	if end.Before(start) {
		return 0
	}
	return workweek.DaysBetween(start, end) + 1
}
