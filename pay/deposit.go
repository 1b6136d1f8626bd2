/*
deposit.go - Staged, capped van-deposit accrual

PURPOSE:
  Drivers pay a refundable deposit toward their van in weekly instalments:
  2,500p for each of the first two cumulative deposit weeks, 5,000p for
  every week after, clipped so the running total never exceeds the 50,000p
  global cap. The tier position is GLOBAL across the driver's whole hire
  history, not per van, so the schedule must be rebuilt from the complete
  chronologically-ordered history whenever any hire record changes - there
  is no safe incremental update.

MANUAL SEED:
  Deposit paid before the system was adopted arrives as an explicit seed
  amount (not a sentinel pseudo-van). The seed joins the running total,
  and a seed of 5,000p or more also consumes the tier-1 weeks, so later
  weeks start at the 5,000p rate.

PAYMENT LAG:
  Standard pay lands two weeks after the work, and deposit instalments are
  only booked once their pay has actually landed. An off-hired van accrues
  through its off-hire date; a still-active van accrues only through
  "today minus 14 days". Any part of a week counts as a full week.

OUTPUT:
  BuildDepositSchedule produces the explicit list of weekly contributions.
  Per-van DepositPaid totals and the per-calendar-week deduction in the
  weekly breakdown are both read off this one schedule, so they can never
  disagree.
*/
package pay

import "github.com/fleetpay/courier-engine/workweek"

// =============================================================================
// DEPOSIT SCHEDULE
// =============================================================================

// DepositContribution is one weekly instalment attributed to a van.
type DepositContribution struct {
	VanID string `json:"vanId"`

	// Ordinal is the week's position in the driver's ENTIRE hire history
	// (seed weeks included), which determines its tier rate.
	Ordinal int `json:"ordinal"`

	// WeekStart is the first day of the hire-week this instalment covers.
	WeekStart workweek.Date `json:"weekStart"`

	Amount Pence `json:"amount"`
}

// DepositSchedule is the full accrual result for a hire history.
type DepositSchedule struct {
	Contributions []DepositContribution `json:"contributions"`
	Seed          Pence                 `json:"seed"`
	TotalPaid     Pence                 `json:"totalPaid"`
}

// PaidForVan sums the contributions attributed to one van.
func (s DepositSchedule) PaidForVan(vanID string) Pence {
	var total Pence
	for _, c := range s.Contributions {
		if c.VanID == vanID {
			total += c.Amount
		}
	}
	return total
}

// DueInRange sums contributions whose hire-week starts within [start, end].
// The weekly breakdown uses this to show the deposit deduction for one
// calendar week.
func (s DepositSchedule) DueInRange(start, end workweek.Date) Pence {
	var total Pence
	for _, c := range s.Contributions {
		if c.WeekStart.AfterOrEqual(start) && c.WeekStart.BeforeOrEqual(end) {
			total += c.Amount
		}
	}
	return total
}

// Complete reports whether the global cap has been reached.
func (s DepositSchedule) Complete() bool {
	return s.TotalPaid >= DepositCap
}

// =============================================================================
// ACCRUAL ALGORITHM
// =============================================================================

// BuildDepositSchedule replays the driver's full hire history in
// chronological order and returns the resulting instalment schedule.
// The input slice is treated as an immutable snapshot.
func BuildDepositSchedule(vans []VanHire, seed Pence, today workweek.Date) (DepositSchedule, error) {
	if err := ValidateDepositSeed(seed); err != nil {
		return DepositSchedule{}, err
	}
	if err := ValidateVanHistory(vans); err != nil {
		return DepositSchedule{}, err
	}

	schedule := DepositSchedule{Seed: seed, TotalPaid: seed}

	// A seed of a full two tier-1 weeks or more starts later weeks at the
	// tier-2 rate.
	weeksCompleted := 0
	if seed >= 2*DepositTier1Rate {
		weeksCompleted = int(seed / DepositTier1Rate)
		if weeksCompleted > depositTier1Weeks {
			weeksCompleted = depositTier1Weeks
		}
	}

	for _, v := range sortVansChronologically(vans) {
		weeks := depositWeeksFor(v, today)
		for k := 0; k < weeks; k++ {
			if schedule.TotalPaid >= DepositCap {
				return schedule, nil
			}
			ordinal := weeksCompleted + 1
			rate := DepositTier2Rate
			if ordinal <= depositTier1Weeks {
				rate = DepositTier1Rate
			}
			// Final instalment is clipped to land exactly on the cap.
			if remaining := DepositCap - schedule.TotalPaid; rate > remaining {
				rate = remaining
			}
			schedule.Contributions = append(schedule.Contributions, DepositContribution{
				VanID:     v.ID,
				Ordinal:   ordinal,
				WeekStart: v.OnHireDate.AddDays(k * 7),
				Amount:    rate,
			})
			schedule.TotalPaid += rate
			weeksCompleted++
		}
	}
	return schedule, nil
}

// depositWeeksFor counts the hire-weeks a van has accrued deposit for:
// on-hire through off-hire, or through two weeks before today while still
// active. Partial weeks round up.
func depositWeeksFor(v VanHire, today workweek.Date) int {
	end := today.AddDays(-PaymentLagDays)
	if v.OffHireDate != nil {
		end = *v.OffHireDate
	}
	if end.Before(v.OnHireDate) {
		return 0
	}
	days := workweek.DaysBetween(v.OnHireDate, end) + 1
	return (days + 6) / 7
}

// ApplyDepositSnapshots returns a copy of the vans with DepositPaid set
// from the schedule. The caller persists these as display caches; the
// schedule itself remains the source of truth.
func ApplyDepositSnapshots(vans []VanHire, schedule DepositSchedule) []VanHire {
	out := make([]VanHire, len(vans))
	copy(out, vans)
	for i := range out {
		out[i].DepositPaid = schedule.PaidForVan(out[i].ID)
		out[i].DepositHoldUntil = out[i].HoldUntil()
	}
	return out
}
