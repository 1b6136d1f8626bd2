package pay_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetpay/courier-engine/pay"
	"github.com/fleetpay/courier-engine/workweek"
)

// =============================================================================
// WORK DAY VALIDATION
// =============================================================================

func TestValidateWorkDay_SweepsOverCombinedLimit_Fails(t *testing.T) {
	// GIVEN: 150 given + 100 taken = 250 combined
	// WHEN: Validating
	// THEN: Rejected with a typed error, never clamped to 200

	d := normalDay(workweek.NewDate(2025, time.June, 16))
	d.StopsGiven = 150
	d.StopsTaken = 100

	err := pay.ValidateWorkDay(d)
	assert.ErrorIs(t, err, pay.ErrSweepLimitExceeded)

	var sweepErr *pay.SweepLimitError
	require.ErrorAs(t, err, &sweepErr)
	assert.Equal(t, 150, sweepErr.Given)
	assert.Equal(t, 100, sweepErr.Taken)
}

func TestValidateWorkDay_SweepsAtLimit_OK(t *testing.T) {
	d := normalDay(workweek.NewDate(2025, time.June, 16))
	d.StopsGiven = 120
	d.StopsTaken = 80
	assert.NoError(t, pay.ValidateWorkDay(d))
}

func TestValidateWorkDay_NegativeValues_Fail(t *testing.T) {
	d := normalDay(workweek.NewDate(2025, time.June, 16))
	d.StopsTaken = -1
	assert.ErrorIs(t, pay.ValidateWorkDay(d), pay.ErrNegativeStops)

	d = normalDay(workweek.NewDate(2025, time.June, 16))
	d.AmazonPaidMiles = fptr(-10)
	assert.ErrorIs(t, pay.ValidateWorkDay(d), pay.ErrNegativeMiles)

	d = normalDay(workweek.NewDate(2025, time.June, 16))
	d.DailyRate = -100
	assert.ErrorIs(t, pay.ValidateWorkDay(d), pay.ErrNegativeRate)
}

func TestValidateWorkDay_UnknownRoute_Fails(t *testing.T) {
	d := normalDay(workweek.NewDate(2025, time.June, 16))
	d.RouteType = "express"
	assert.ErrorIs(t, pay.ValidateWorkDay(d), pay.ErrInvalidRouteType)
}

// =============================================================================
// WEEK VALIDATION
// =============================================================================

// week25of2025 is 2025-06-15 through 2025-06-21.
func week25of2025() workweek.WeekInfo {
	start := workweek.NewDate(2025, time.June, 15)
	return workweek.WeekInfo{Week: 25, Year: 2025, StartDate: start, EndDate: start.AddDays(6)}
}

func TestValidateWeekDays_DuplicateDate_Fails(t *testing.T) {
	date := workweek.NewDate(2025, time.June, 16)
	err := pay.ValidateWeekDays(week25of2025(), []pay.WorkDay{normalDay(date), normalDay(date)})
	assert.ErrorIs(t, err, pay.ErrDuplicateWorkDay)
}

func TestValidateWeekDays_SeventhDay_Fails(t *testing.T) {
	info := week25of2025()
	days := make([]pay.WorkDay, 7)
	for i := range days {
		days[i] = normalDay(info.StartDate.AddDays(i))
	}

	err := pay.ValidateWeekDays(info, days)
	assert.ErrorIs(t, err, pay.ErrTooManyWorkDays)

	var countErr *pay.WorkDayCountError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 7, countErr.Count)
}

func TestValidateWeekDays_DateOutsideWeek_Fails(t *testing.T) {
	// GIVEN: A day dated in week 26 supplied alongside week 25 days
	// WHEN: Validating against week 25's boundaries
	// THEN: Rejected, never silently aggregated into the wrong week

	info := week25of2025()
	days := []pay.WorkDay{
		normalDay(workweek.NewDate(2025, time.June, 16)),
		normalDay(workweek.NewDate(2025, time.June, 23)),
	}
	assert.ErrorIs(t, pay.ValidateWeekDays(info, days), pay.ErrWorkDayOutsideWeek)

	// Boundary days are fine.
	edges := []pay.WorkDay{
		normalDay(info.StartDate),
		normalDay(info.EndDate),
	}
	assert.NoError(t, pay.ValidateWeekDays(info, edges))
}

// =============================================================================
// VAN VALIDATION
// =============================================================================

func TestValidateVanHire_OffBeforeOn_Fails(t *testing.T) {
	off := workweek.NewDate(2025, time.March, 1)
	v := hire("v1", workweek.NewDate(2025, time.March, 10), &off)

	err := pay.ValidateVanHire(v)
	assert.ErrorIs(t, err, pay.ErrOffHireBeforeOnHire)
}

func TestValidateVanHistory_TwoActiveVans_Fails(t *testing.T) {
	vans := []pay.VanHire{
		hire("v1", workweek.NewDate(2025, time.January, 5), nil),
		hire("v2", workweek.NewDate(2025, time.February, 2), nil),
	}
	assert.ErrorIs(t, pay.ValidateVanHistory(vans), pay.ErrMultipleActiveVans)
}

func TestValidateVanHistory_SequentialHires_OK(t *testing.T) {
	off := workweek.NewDate(2025, time.February, 1)
	vans := []pay.VanHire{
		hire("v1", workweek.NewDate(2025, time.January, 5), &off),
		hire("v2", workweek.NewDate(2025, time.February, 2), nil),
	}
	assert.NoError(t, pay.ValidateVanHistory(vans))
}

// =============================================================================
// SETTINGS VALIDATION
// =============================================================================

func TestValidateDepositSeed_Bounds(t *testing.T) {
	assert.NoError(t, pay.ValidateDepositSeed(0))
	assert.NoError(t, pay.ValidateDepositSeed(pay.DepositCap))
	assert.ErrorIs(t, pay.ValidateDepositSeed(-1), pay.ErrDepositSeedOutOfRange)
	assert.ErrorIs(t, pay.ValidateDepositSeed(pay.DepositCap+1), pay.ErrDepositSeedOutOfRange)
}

func TestValidateSettings_UnknownInvoicingService_Fails(t *testing.T) {
	s := pay.DefaultSettings()
	s.InvoicingService = "verso_premium"
	assert.ErrorIs(t, pay.ValidateSettings(s), pay.ErrInvalidInvoicingService)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, pay.IsClientError(pay.ErrSweepLimitExceeded))
	assert.True(t, pay.IsClientError(&pay.DepositSeedError{Seed: -5}))
	assert.True(t, pay.IsClientError(pay.ErrWorkDayOutsideWeek))
	assert.True(t, pay.IsClientError(pay.ErrNegativeDaysWorked))
	assert.False(t, pay.IsClientError(assert.AnError))
}
