/*
handlers_test.go - Unit tests for API handlers

Tests run against the in-memory store with a pinned clock so the deposit
payment lag is deterministic.
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetpay/courier-engine/pay"
	"github.com/fleetpay/courier-engine/store/memory"
	"github.com/fleetpay/courier-engine/workweek"
)

// newTestRouter wires a handler over a fresh in-memory store with "today"
// pinned to 2025-07-01.
func newTestRouter(t *testing.T) (http.Handler, *memory.Memory) {
	t.Helper()
	st := memory.New()
	h := NewHandler(st, pay.NewEngine(workweek.New()))
	h.now = func() workweek.Date { return workweek.NewDate(2025, time.July, 1) }
	return NewRouter(h), st
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

// =============================================================================
// CALENDAR
// =============================================================================

func TestGetCalendarYear_Returns52Weeks(t *testing.T) {
	// GIVEN: The 2025 work-year (52 weeks, starting 2024-12-29)
	router, _ := newTestRouter(t)

	// WHEN: Fetching the calendar
	rec := doJSON(t, router, http.MethodGet, "/api/calendar/2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var weeks []workweek.WeekInfo
	decodeInto(t, rec, &weeks)

	// THEN: All 52 weeks come back with the right anchor
	require.Len(t, weeks, 52)
	assert.Equal(t, 1, weeks[0].Week)
	assert.Equal(t, "2024-12-29", weeks[0].StartDate.String())
	assert.Equal(t, "2025-12-27", weeks[51].EndDate.String())
}

func TestGetCalendarWeek_TransitionDate(t *testing.T) {
	// GIVEN: 2024-12-30, inside week 1 of work-year 2025
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/calendar/week?date=2024-12-30", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var info workweek.WeekInfo
	decodeInto(t, rec, &info)
	assert.Equal(t, 1, info.Week)
	assert.Equal(t, 2025, info.Year)
}

func TestGetCalendarWeek_BadDate_BadRequest(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/calendar/week?date=30/12/2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// WORK DAYS
// =============================================================================

func TestCreateWorkDay_SnapshotsSettingsRates(t *testing.T) {
	// GIVEN: A request with no explicit rates
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/workdays", WorkDayRequest{
		Date:      "2025-06-16",
		RouteType: "normal",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// THEN: Default settings rates were snapshotted onto the record
	var dto WorkDayDTO
	decodeInto(t, rec, &dto)
	assert.Equal(t, int64(16000), dto.DailyRate)
	assert.Equal(t, int64(1988), dto.MileageRate)
	assert.NotEmpty(t, dto.ID)
}

func TestCreateWorkDay_DuplicateDate_Conflict(t *testing.T) {
	router, _ := newTestRouter(t)
	req := WorkDayRequest{Date: "2025-06-16", RouteType: "normal"}

	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/workdays", req).Code)
	assert.Equal(t, http.StatusConflict, doJSON(t, router, http.MethodPost, "/api/workdays", req).Code)
}

func TestCreateWorkDay_SweepsOverLimit_BadRequest(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/workdays", WorkDayRequest{
		Date:       "2025-06-16",
		RouteType:  "normal",
		StopsGiven: 150,
		StopsTaken: 100,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListWorkDays_FiltersToWeek(t *testing.T) {
	// GIVEN: One day in week 25 and one in week 26
	router, _ := newTestRouter(t)
	for _, date := range []string{"2025-06-16", "2025-06-23"} {
		rec := doJSON(t, router, http.MethodPost, "/api/workdays", WorkDayRequest{Date: date, RouteType: "normal"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/workdays?year=2025&week=25", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var days []WorkDayDTO
	decodeInto(t, rec, &days)
	require.Len(t, days, 1)
	assert.Equal(t, "2025-06-16", days[0].Date)
}

func TestDeleteWorkDay_Missing_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodDelete, "/api/workdays/day-nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// WEEK BREAKDOWN
// =============================================================================

func TestGetWeekBreakdown_EmptyWeek_ZeroNotMissing(t *testing.T) {
	// GIVEN: No work logged in week 25
	router, _ := newTestRouter(t)

	// WHEN: Fetching the breakdown
	rec := doJSON(t, router, http.MethodGet, "/api/weeks/2025/25", nil)

	// THEN: 200 with a zero breakdown, not a 404
	require.Equal(t, http.StatusOK, rec.Code)
	var dto WeekBreakdownDTO
	decodeInto(t, rec, &dto)
	assert.False(t, dto.HasWork)
	assert.Equal(t, pay.Pence(0), dto.StandardPay)
	assert.Equal(t, pay.Pence(0), dto.InvoicingCost)
}

func TestGetWeekBreakdown_SingleDay(t *testing.T) {
	// GIVEN: One normal day with a sweep and 80 paid miles in week 25
	router, _ := newTestRouter(t)
	miles := 80.0
	rec := doJSON(t, router, http.MethodPost, "/api/workdays", WorkDayRequest{
		Date:            "2025-06-16",
		RouteType:       "normal",
		StopsGiven:      3,
		AmazonPaidMiles: &miles,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/weeks/2025/25", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dto WeekBreakdownDTO
	decodeInto(t, rec, &dto)

	// THEN: 16000 base + 300 sweeps + 1590 mileage = 17890
	assert.True(t, dto.HasWork)
	assert.Equal(t, pay.Pence(16000), dto.BasePay)
	assert.Equal(t, pay.Pence(300), dto.SweepAdjustment)
	assert.Equal(t, pay.Pence(1590), dto.MileagePayment)
	assert.Equal(t, pay.Pence(17890), dto.StandardPay)
	assert.Equal(t, workweek.WeekRef{Week: 27, Year: 2025}, dto.StandardPaymentWeek)
	require.Len(t, dto.Days, 1)
}

func TestGetWeekBreakdown_BadWeek_BadRequest(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/weeks/2025/53", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetWeekInvoice_RendersPDF(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/weeks/2025/25/invoice.pdf", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

// =============================================================================
// WEEK LEVELS
// =============================================================================

func TestSetWeekLevels_RecomputesBonus(t *testing.T) {
	// GIVEN: One day worked in week 25
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/workdays", WorkDayRequest{
		Date: "2025-06-16", RouteType: "normal",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// WHEN: Setting fantastic/fantastic
	rec = doJSON(t, router, http.MethodPut, "/api/weeks/2025/25/levels", WeekLevelsRequest{
		IndividualLevel: "fantastic",
		CompanyLevel:    "fantastic",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN: 750/day for one day, paid six weeks later
	var dto WeekLevelsDTO
	decodeInto(t, rec, &dto)
	assert.Equal(t, pay.Pence(750), dto.PerformanceBonus)
	assert.Equal(t, workweek.WeekRef{Week: 31, Year: 2025}, dto.BonusPaymentWeek)

	// AND: The breakdown now carries the bonus
	rec = doJSON(t, router, http.MethodGet, "/api/weeks/2025/25", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var breakdown WeekBreakdownDTO
	decodeInto(t, rec, &breakdown)
	require.NotNil(t, breakdown.PerformanceBonus)
	assert.Equal(t, pay.Pence(750), *breakdown.PerformanceBonus)
}

func TestSetWeekLevels_UnknownLevel_BadRequest(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPut, "/api/weeks/2025/25/levels", WeekLevelsRequest{
		IndividualLevel: "legendary",
		CompanyLevel:    "great",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// VANS AND DEPOSITS
// =============================================================================

func TestCreateVan_SecondActive_Conflict(t *testing.T) {
	// GIVEN: An active van
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/vans", VanHireRequest{
		Registration: "AB12 CDE",
		OnHireDate:   "2025-01-05",
		WeeklyRate:   25000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// WHEN: Adding a second van with no off-hire date
	rec = doJSON(t, router, http.MethodPost, "/api/vans", VanHireRequest{
		Registration: "FG34 HIJ",
		OnHireDate:   "2025-02-02",
		WeeklyRate:   25000,
	})

	// THEN: Conflict
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateVan_OffBeforeOn_BadRequest(t *testing.T) {
	router, _ := newTestRouter(t)
	off := "2025-01-01"
	rec := doJSON(t, router, http.MethodPost, "/api/vans", VanHireRequest{
		Registration: "AB12 CDE",
		OnHireDate:   "2025-01-05",
		OffHireDate:  &off,
		WeeklyRate:   25000,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVanMutation_WritesDepositSnapshots(t *testing.T) {
	// GIVEN: A 10-day hire (two deposit weeks at the tier-1 rate)
	router, _ := newTestRouter(t)
	off := "2025-01-14"
	rec := doJSON(t, router, http.MethodPost, "/api/vans", VanHireRequest{
		Registration: "AB12 CDE",
		OnHireDate:   "2025-01-05",
		OffHireDate:  &off,
		WeeklyRate:   25000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// WHEN: Listing vans
	rec = doJSON(t, router, http.MethodGet, "/api/vans", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN: The snapshot shows 5000p paid and the six-week hold date
	var vans []VanHireDTO
	decodeInto(t, rec, &vans)
	require.Len(t, vans, 1)
	assert.Equal(t, pay.Pence(5000), vans[0].DepositPaid)
	require.NotNil(t, vans[0].DepositHoldUntil)
	assert.Equal(t, "2025-02-25", *vans[0].DepositHoldUntil)
}

func TestGetDepositSchedule_Totals(t *testing.T) {
	router, _ := newTestRouter(t)
	off := "2025-01-14"
	rec := doJSON(t, router, http.MethodPost, "/api/vans", VanHireRequest{
		Registration: "AB12 CDE",
		OnHireDate:   "2025-01-05",
		OffHireDate:  &off,
		WeeklyRate:   25000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/vans/deposit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dto DepositScheduleDTO
	decodeInto(t, rec, &dto)
	require.Len(t, dto.Contributions, 2)
	assert.Equal(t, pay.Pence(2500), dto.Contributions[0].Amount)
	assert.Equal(t, pay.Pence(5000), dto.TotalPaid)
	assert.Equal(t, pay.DepositCap, dto.Cap)
	assert.False(t, dto.Complete)
	assert.Equal(t, pay.Pence(5000), dto.PerVan[dto.Contributions[0].VanID])
}

func TestSetDepositAdjustment_SeedShiftsTier(t *testing.T) {
	// GIVEN: A hire and a 5000p manual seed (both tier-1 weeks consumed)
	router, _ := newTestRouter(t)
	off := "2025-01-14"
	rec := doJSON(t, router, http.MethodPost, "/api/vans", VanHireRequest{
		Registration: "AB12 CDE",
		OnHireDate:   "2025-01-05",
		OffHireDate:  &off,
		WeeklyRate:   25000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/vans/deposit/adjustment", DepositAdjustmentRequest{Seed: 5000})
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN: Both hire weeks land at the tier-2 rate
	var dto DepositScheduleDTO
	decodeInto(t, rec, &dto)
	assert.Equal(t, pay.Pence(5000), dto.Seed)
	require.Len(t, dto.Contributions, 2)
	assert.Equal(t, 3, dto.Contributions[0].Ordinal)
	assert.Equal(t, pay.Pence(5000), dto.Contributions[0].Amount)
	assert.Equal(t, pay.Pence(15000), dto.TotalPaid)
}

func TestSetDepositAdjustment_OutOfRange_BadRequest(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPut, "/api/vans/deposit/adjustment", DepositAdjustmentRequest{Seed: 60000})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestSettings_DefaultsThenUpdate(t *testing.T) {
	// GIVEN: No settings saved yet
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dto SettingsDTO
	decodeInto(t, rec, &dto)
	assert.Equal(t, pay.Pence(16000), dto.NormalRate)
	assert.Equal(t, "self", dto.InvoicingService)

	// WHEN: Updating to verso_full with a DRS bump
	dto.DRSRate = 19000
	dto.InvoicingService = "verso_full"
	rec = doJSON(t, router, http.MethodPut, "/api/settings", dto)
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN: The update persisted
	rec = doJSON(t, router, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, &dto)
	assert.Equal(t, pay.Pence(19000), dto.DRSRate)
	assert.Equal(t, "verso_full", dto.InvoicingService)
}

func TestUpdateSettings_UnknownService_BadRequest(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPut, "/api/settings", SettingsDTO{
		NormalRate:       16000,
		DRSRate:          18000,
		MileageRate:      1988,
		InvoicingService: "verso_premium",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
