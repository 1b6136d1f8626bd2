package pay_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fleetpay/courier-engine/pay"
	"github.com/fleetpay/courier-engine/workweek"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func fptr(f float64) *float64 { return &f }

func normalDay(date workweek.Date) pay.WorkDay {
	return pay.WorkDay{
		ID:        "wd-" + date.String(),
		Date:      date,
		RouteType: pay.RouteNormal,
		DailyRate: 16000,
	}
}

// =============================================================================
// DAILY PAY COMPONENTS
// =============================================================================

func TestDailySweepAdjustment_WholeUnitsPerStop(t *testing.T) {
	d := normalDay(workweek.NewDate(2025, time.June, 16))
	d.StopsGiven = 5
	d.StopsTaken = 2

	// 3 net stops at one whole currency unit each.
	assert.Equal(t, pay.Pence(300), pay.DailySweepAdjustment(d))

	d.StopsGiven = 1
	d.StopsTaken = 4
	assert.Equal(t, pay.Pence(-300), pay.DailySweepAdjustment(d))
}

func TestDailyMileagePay_OfficialMilesOnly(t *testing.T) {
	// GIVEN: 80 payslip miles at 1988 (0.1988 pounds/mile)
	// WHEN: Computing mileage pay
	// THEN: 80 * 1988 / 100 = 1590.4 -> 1590 pence, rounded per day

	d := normalDay(workweek.NewDate(2025, time.June, 16))
	d.AmazonPaidMiles = fptr(80)
	d.VanLoggedMiles = fptr(500) // never paid

	assert.Equal(t, pay.Pence(1590), pay.DailyMileagePay(d, 1988))
}

func TestDailyMileagePay_NoMilesRecorded_Zero(t *testing.T) {
	d := normalDay(workweek.NewDate(2025, time.June, 16))
	assert.Equal(t, pay.Pence(0), pay.DailyMileagePay(d, 1988))
}

func TestDailyMileageDiscrepancy_VanOverPaid(t *testing.T) {
	// GIVEN: 90 paid miles but 100 logged on the odometer
	// WHEN: Computing the discrepancy at rate 1988
	// THEN: 10 * 1988 / 100 = 198.8 -> 199 pence of unreimbursed fuel

	d := normalDay(workweek.NewDate(2025, time.June, 16))
	d.AmazonPaidMiles = fptr(90)
	d.VanLoggedMiles = fptr(100)

	assert.Equal(t, pay.Pence(199), pay.DailyMileageDiscrepancy(d, 1988))
}

func TestDailyMileageDiscrepancy_VanUnderPaid_Zero(t *testing.T) {
	// Logged fewer miles than paid: nothing to flag.
	d := normalDay(workweek.NewDate(2025, time.June, 16))
	d.AmazonPaidMiles = fptr(90)
	d.VanLoggedMiles = fptr(80)

	assert.Equal(t, pay.Pence(0), pay.DailyMileageDiscrepancy(d, 1988))
}

func TestEffectiveMileageRate_SnapshotWinsOverOverrides(t *testing.T) {
	settings := pay.DefaultSettings()
	override := int64(2100)
	week := &pay.Week{Week: 25, Year: 2025, MileageRate: &override}

	d := normalDay(workweek.NewDate(2025, time.June, 16))

	// Day snapshot wins.
	d.MileageRate = 1900
	assert.Equal(t, int64(1900), pay.EffectiveMileageRate(d, week, settings))

	// No snapshot: week override wins.
	d.MileageRate = 0
	assert.Equal(t, int64(2100), pay.EffectiveMileageRate(d, week, settings))

	// Neither: settings rate.
	assert.Equal(t, settings.MileageRate, pay.EffectiveMileageRate(d, nil, settings))
}
