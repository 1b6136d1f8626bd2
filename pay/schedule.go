package pay

import "github.com/fleetpay/courier-engine/workweek"

// =============================================================================
// PAYMENT SCHEDULING - What lands in a given pay week
// =============================================================================

// PayWeekSources identifies which work weeks' money lands in one pay week:
// standard pay trails the work by 2 weeks, the performance bonus by 6.
type PayWeekSources struct {
	PayWeek      workweek.WeekRef `json:"payWeek"`
	StandardFrom workweek.WeekRef `json:"standardFrom"`
	BonusFrom    workweek.WeekRef `json:"bonusFrom"`
}

// PaymentSources inverts the payment offsets for a pay week.
func (e *Engine) PaymentSources(payWeek workweek.WeekRef) (PayWeekSources, error) {
	standard, err := e.cal.PreviousWeek(payWeek.Week, payWeek.Year, 2)
	if err != nil {
		return PayWeekSources{}, err
	}
	bonus, err := e.cal.PreviousWeek(payWeek.Week, payWeek.Year, 6)
	if err != nil {
		return PayWeekSources{}, err
	}
	return PayWeekSources{PayWeek: payWeek, StandardFrom: standard, BonusFrom: bonus}, nil
}
