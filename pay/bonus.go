/*
bonus.go - Performance bonus rate table

PURPOSE:
  Weekly rankings arrive for both the individual driver and the whole
  company. The pair indexes a fixed per-day bonus rate; the week's bonus
  is that rate times the days worked. The bonus is computed for the week
  the work was done but paid six weeks later (see workweek.BonusPaymentWeek);
  the scheduling never changes the amount.

RATE TABLE:
  Bonus requires both sides to rank Great or better. Both at Fantastic+
  yields the top rate.

               company:  Great   Fantastic   Fantastic+
  individual Great        250       400          500
  individual Fantastic    400       750         1000
  individual Fantastic+   500      1000         1500

  All other combinations (either side Poor or Fair) pay zero.
*/
package pay

import "fmt"

// bonusRateTable is keyed by [individual][company], values in pence/day.
var bonusRateTable = map[PerformanceLevel]map[PerformanceLevel]Pence{
	LevelGreat: {
		LevelGreat:         250,
		LevelFantastic:     400,
		LevelFantasticPlus: 500,
	},
	LevelFantastic: {
		LevelGreat:         400,
		LevelFantastic:     750,
		LevelFantasticPlus: 1000,
	},
	LevelFantasticPlus: {
		LevelGreat:         500,
		LevelFantastic:     1000,
		LevelFantasticPlus: 1500,
	},
}

// DailyBonusRate looks up the per-day bonus rate for a ranking pair.
func DailyBonusRate(individual, company PerformanceLevel) (Pence, error) {
	if !individual.Valid() {
		return 0, ErrInvalidPerformanceLevel
	}
	if !company.Valid() {
		return 0, ErrInvalidPerformanceLevel
	}
	return bonusRateTable[individual][company], nil
}

// PerformanceBonus computes the week's bonus: rate times days worked.
func PerformanceBonus(individual, company PerformanceLevel, daysWorked int) (Pence, error) {
	rate, err := DailyBonusRate(individual, company)
	if err != nil {
		return 0, err
	}
	if daysWorked < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeDaysWorked, daysWorked)
	}
	return rate * Pence(daysWorked), nil
}
