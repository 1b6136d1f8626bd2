/*
handlers.go - HTTP API handlers for the courier pay engine

PURPOSE:
  Exposes the pay engine via REST API. Handles HTTP request/response, JSON
  serialization, and delegates all arithmetic to the pay and workweek
  packages. Handlers fetch a consistent record snapshot from the store and
  hand it to the pure engine.

ENDPOINTS:
  Calendar:
    GET    /api/calendar/{year}        All weeks of a work-year
    GET    /api/calendar/week?date=    Week containing a date

  Work days:
    GET    /api/workdays?year=&week=   Days logged in a week
    POST   /api/workdays               Log a day (rates snapshotted)
    PUT    /api/workdays/{id}          Replace a day
    DELETE /api/workdays/{id}          Remove a day

  Weeks:
    GET    /api/weeks/{year}/{week}             Full pay breakdown
    GET    /api/weeks/{year}/{week}/invoice.pdf PDF invoice
    PUT    /api/weeks/{year}/{week}/levels      Set ranking levels

  Vans:
    GET    /api/vans                   Hire history with deposit snapshots
    POST   /api/vans                   Add a hire
    PUT    /api/vans/{id}              Replace a hire
    DELETE /api/vans/{id}              Remove a hire
    GET    /api/vans/deposit           Full deposit schedule
    PUT    /api/vans/deposit/adjustment Manual deposit seed

  Settings:
    GET    /api/settings
    PUT    /api/settings

DEPOSIT WRITE-BACK:
  Every van mutation (and the manual seed adjustment) rebuilds the accrual
  schedule from the full history and writes the per-van DepositPaid and
  DepositHoldUntil snapshots back via SetVanDeposits. The stored snapshots
  are display caches only.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Conflict (date taken, second active van)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fleetpay/courier-engine/invoice"
	"github.com/fleetpay/courier-engine/pay"
	"github.com/fleetpay/courier-engine/store"
	"github.com/fleetpay/courier-engine/workweek"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  store.Store
	Engine *pay.Engine

	// now is injectable so tests can pin the deposit payment lag.
	now func() workweek.Date
}

// NewHandler creates a new handler over the given store and engine.
func NewHandler(st store.Store, engine *pay.Engine) *Handler {
	return &Handler{Store: st, Engine: engine, now: workweek.Today}
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// GetCalendarYear returns every week of a work-year.
func (h *Handler) GetCalendarYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	cal := h.Engine.Calendar()
	total, err := cal.WeeksInYear(year)
	if err != nil {
		h.handleDomainError(w, "Failed to resolve work-year", err)
		return
	}

	weeks := make([]workweek.WeekInfo, 0, total)
	for wk := 1; wk <= total; wk++ {
		info, err := cal.WeekDateRange(wk, year)
		if err != nil {
			h.handleDomainError(w, "Failed to resolve week", err)
			return
		}
		weeks = append(weeks, info)
	}
	writeJSON(w, http.StatusOK, weeks)
}

// GetCalendarWeek returns the week containing ?date=.
func (h *Handler) GetCalendarWeek(w http.ResponseWriter, r *http.Request) {
	date, err := workweek.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		return
	}

	info, err := h.Engine.Calendar().DateToWeek(date)
	if err != nil {
		h.handleDomainError(w, "Failed to resolve week", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// =============================================================================
// WORK DAY HANDLERS
// =============================================================================

// ListWorkDays returns the days logged in ?year=&week=.
func (h *Handler) ListWorkDays(w http.ResponseWriter, r *http.Request) {
	week, year, ok := h.weekParamsFromQuery(w, r)
	if !ok {
		return
	}

	info, err := h.Engine.Calendar().WeekDateRange(week, year)
	if err != nil {
		h.handleDomainError(w, "Failed to resolve week", err)
		return
	}

	days, err := h.Store.WorkDaysInRange(r.Context(), info.StartDate, info.EndDate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list work days", err)
		return
	}

	dtos := make([]WorkDayDTO, len(days))
	for i, d := range days {
		dtos[i] = toWorkDayDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateWorkDay logs a day. Rates absent from the request are snapshotted
// from the current settings so later settings changes never rewrite them.
func (h *Handler) CreateWorkDay(w http.ResponseWriter, r *http.Request) {
	var req WorkDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	day, ok := h.workDayFromRequest(w, r.Context(), req)
	if !ok {
		return
	}
	day.ID = fmt.Sprintf("day-%d", time.Now().UnixNano())

	if err := h.Store.CreateWorkDay(r.Context(), day); err != nil {
		h.handleStoreError(w, "Failed to create work day", err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkDayDTO(day))
}

// UpdateWorkDay replaces a logged day.
func (h *Handler) UpdateWorkDay(w http.ResponseWriter, r *http.Request) {
	var req WorkDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	day, ok := h.workDayFromRequest(w, r.Context(), req)
	if !ok {
		return
	}
	day.ID = chi.URLParam(r, "id")

	if err := h.Store.UpdateWorkDay(r.Context(), day); err != nil {
		h.handleStoreError(w, "Failed to update work day", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkDayDTO(day))
}

// DeleteWorkDay removes a logged day.
func (h *Handler) DeleteWorkDay(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteWorkDay(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleStoreError(w, "Failed to delete work day", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// workDayFromRequest maps and validates a request body, filling rate
// snapshots from settings where the request left them out. Reports false
// after writing an error response.
func (h *Handler) workDayFromRequest(w http.ResponseWriter, ctx context.Context, req WorkDayRequest) (pay.WorkDay, bool) {
	date, err := workweek.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		return pay.WorkDay{}, false
	}

	settings, err := h.Store.Settings(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return pay.WorkDay{}, false
	}

	day := pay.WorkDay{
		Date:            date,
		RouteType:       pay.RouteType(req.RouteType),
		StopsGiven:      req.StopsGiven,
		StopsTaken:      req.StopsTaken,
		AmazonPaidMiles: req.AmazonPaidMiles,
		VanLoggedMiles:  req.VanLoggedMiles,
	}
	if req.DailyRate != nil {
		day.DailyRate = pay.Pence(*req.DailyRate)
	} else {
		day.DailyRate = settings.DailyRateFor(day.RouteType)
	}
	if req.MileageRate != nil {
		day.MileageRate = *req.MileageRate
	} else {
		day.MileageRate = settings.MileageRate
	}

	if err := pay.ValidateWorkDay(day); err != nil {
		h.handleDomainError(w, "Invalid work day", err)
		return pay.WorkDay{}, false
	}
	return day, true
}

// =============================================================================
// WEEK HANDLERS
// =============================================================================

// GetWeekBreakdown returns the full pay breakdown for a week. An empty week
// returns a zero breakdown with hasWork=false rather than a 404.
func (h *Handler) GetWeekBreakdown(w http.ResponseWriter, r *http.Request) {
	week, year, ok := h.weekParamsFromURL(w, r)
	if !ok {
		return
	}

	breakdown, days, err := h.computeWeek(r.Context(), week, year)
	if err != nil {
		h.handleDomainError(w, "Failed to compute week", err)
		return
	}

	dto := WeekBreakdownDTO{
		WeeklyPayBreakdown: breakdown,
		HasWork:            len(days) > 0,
		Days:               make([]WorkDayDTO, len(days)),
	}
	for i, d := range days {
		dto.Days[i] = toWorkDayDTO(d)
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetWeekInvoice renders the week's breakdown as a PDF invoice.
func (h *Handler) GetWeekInvoice(w http.ResponseWriter, r *http.Request) {
	week, year, ok := h.weekParamsFromURL(w, r)
	if !ok {
		return
	}

	breakdown, _, err := h.computeWeek(r.Context(), week, year)
	if err != nil {
		h.handleDomainError(w, "Failed to compute week", err)
		return
	}

	pdf, err := invoice.Generate(breakdown)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render invoice", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="invoice-%d-week-%d.pdf"`, year, week))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// SetWeekLevels records the week's performance ranking levels and returns
// the recomputed bonus with its payment week.
func (h *Handler) SetWeekLevels(w http.ResponseWriter, r *http.Request) {
	week, year, ok := h.weekParamsFromURL(w, r)
	if !ok {
		return
	}

	var req WeekLevelsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	individual := pay.PerformanceLevel(req.IndividualLevel)
	company := pay.PerformanceLevel(req.CompanyLevel)
	if !individual.Valid() || !company.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown performance level", pay.ErrInvalidPerformanceLevel)
		return
	}

	info, err := h.Engine.Calendar().WeekDateRange(week, year)
	if err != nil {
		h.handleDomainError(w, "Failed to resolve week", err)
		return
	}
	days, err := h.Store.WorkDaysInRange(r.Context(), info.StartDate, info.EndDate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list work days", err)
		return
	}

	bonus, err := pay.PerformanceBonus(individual, company, len(days))
	if err != nil {
		h.handleDomainError(w, "Failed to compute bonus", err)
		return
	}

	// Preserve an existing mileage override when re-entering levels.
	record, err := h.Store.WeekRecord(r.Context(), week, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load week record", err)
		return
	}
	if record == nil {
		record = &pay.Week{Week: week, Year: year}
	}
	record.IndividualLevel = &individual
	record.CompanyLevel = &company
	record.BonusAmount = &bonus

	if err := h.Store.SaveWeekRecord(r.Context(), *record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save week record", err)
		return
	}

	bonusWeek, err := h.Engine.Calendar().BonusPaymentWeek(week, year)
	if err != nil {
		h.handleDomainError(w, "Failed to resolve bonus payment week", err)
		return
	}

	writeJSON(w, http.StatusOK, WeekLevelsDTO{
		Week:             week,
		Year:             year,
		IndividualLevel:  string(individual),
		CompanyLevel:     string(company),
		PerformanceBonus: bonus,
		BonusPaymentWeek: bonusWeek,
	})
}

// computeWeek gathers the week's record snapshot and runs the engine.
func (h *Handler) computeWeek(ctx context.Context, week, year int) (pay.WeeklyPayBreakdown, []pay.WorkDay, error) {
	info, err := h.Engine.Calendar().WeekDateRange(week, year)
	if err != nil {
		return pay.WeeklyPayBreakdown{}, nil, err
	}
	days, err := h.Store.WorkDaysInRange(ctx, info.StartDate, info.EndDate)
	if err != nil {
		return pay.WeeklyPayBreakdown{}, nil, err
	}
	record, err := h.Store.WeekRecord(ctx, week, year)
	if err != nil {
		return pay.WeeklyPayBreakdown{}, nil, err
	}
	vans, err := h.Store.VanHires(ctx)
	if err != nil {
		return pay.WeeklyPayBreakdown{}, nil, err
	}
	settings, err := h.Store.Settings(ctx)
	if err != nil {
		return pay.WeeklyPayBreakdown{}, nil, err
	}

	breakdown, err := h.Engine.WeeklyBreakdown(pay.WeeklyInput{
		Week:       week,
		Year:       year,
		Days:       days,
		WeekRecord: record,
		Vans:       vans,
		Settings:   settings,
		Today:      h.now(),
	})
	return breakdown, days, err
}

// =============================================================================
// VAN HANDLERS
// =============================================================================

// ListVans returns the full hire history with deposit snapshots.
func (h *Handler) ListVans(w http.ResponseWriter, r *http.Request) {
	vans, err := h.Store.VanHires(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list vans", err)
		return
	}

	dtos := make([]VanHireDTO, len(vans))
	for i, v := range vans {
		dtos[i] = toVanHireDTO(v)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateVan adds a hire and rebuilds the deposit schedule.
func (h *Handler) CreateVan(w http.ResponseWriter, r *http.Request) {
	van, ok := h.vanFromRequest(w, r)
	if !ok {
		return
	}
	van.ID = fmt.Sprintf("van-%d", time.Now().UnixNano())

	if err := h.Store.CreateVanHire(r.Context(), van); err != nil {
		h.handleStoreError(w, "Failed to create van hire", err)
		return
	}
	if !h.refreshDeposits(w, r.Context()) {
		return
	}
	writeJSON(w, http.StatusCreated, toVanHireDTO(van))
}

// UpdateVan replaces a hire and rebuilds the deposit schedule.
func (h *Handler) UpdateVan(w http.ResponseWriter, r *http.Request) {
	van, ok := h.vanFromRequest(w, r)
	if !ok {
		return
	}
	van.ID = chi.URLParam(r, "id")

	if err := h.Store.UpdateVanHire(r.Context(), van); err != nil {
		h.handleStoreError(w, "Failed to update van hire", err)
		return
	}
	if !h.refreshDeposits(w, r.Context()) {
		return
	}
	writeJSON(w, http.StatusOK, toVanHireDTO(van))
}

// DeleteVan removes a hire and rebuilds the deposit schedule. The global
// tier position shifts for every remaining van, so the rebuild is not
// optional.
func (h *Handler) DeleteVan(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteVanHire(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleStoreError(w, "Failed to delete van hire", err)
		return
	}
	if !h.refreshDeposits(w, r.Context()) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDepositSchedule returns the full accrual schedule with totals.
func (h *Handler) GetDepositSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, vans, err := h.buildSchedule(r.Context())
	if err != nil {
		h.handleDomainError(w, "Failed to build deposit schedule", err)
		return
	}

	perVan := make(map[string]pay.Pence, len(vans))
	for _, v := range vans {
		perVan[v.ID] = schedule.PaidForVan(v.ID)
	}
	writeJSON(w, http.StatusOK, DepositScheduleDTO{
		DepositSchedule: schedule,
		Cap:             pay.DepositCap,
		Complete:        schedule.Complete(),
		PerVan:          perVan,
	})
}

// SetDepositAdjustment records the manual deposit seed and rebuilds.
func (h *Handler) SetDepositAdjustment(w http.ResponseWriter, r *http.Request) {
	var req DepositAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := pay.ValidateDepositSeed(req.Seed); err != nil {
		h.handleDomainError(w, "Invalid deposit seed", err)
		return
	}

	settings, err := h.Store.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	settings.ManualDepositSeed = req.Seed
	if err := h.Store.SaveSettings(r.Context(), settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	if !h.refreshDeposits(w, r.Context()) {
		return
	}
	h.GetDepositSchedule(w, r)
}

func (h *Handler) vanFromRequest(w http.ResponseWriter, r *http.Request) (pay.VanHire, bool) {
	var req VanHireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return pay.VanHire{}, false
	}

	onHire, err := workweek.ParseDate(req.OnHireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid on-hire date", err)
		return pay.VanHire{}, false
	}

	van := pay.VanHire{
		Registration:        req.Registration,
		OnHireDate:          onHire,
		WeeklyRate:          req.WeeklyRate,
		DepositRefunded:     req.DepositRefunded,
		DepositRefundAmount: req.DepositRefundAmount,
	}
	if req.OffHireDate != nil {
		offHire, err := workweek.ParseDate(*req.OffHireDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid off-hire date", err)
			return pay.VanHire{}, false
		}
		van.OffHireDate = &offHire
	}

	if err := pay.ValidateVanHire(van); err != nil {
		h.handleDomainError(w, "Invalid van hire", err)
		return pay.VanHire{}, false
	}
	return van, true
}

// buildSchedule rebuilds the accrual schedule from the stored history.
func (h *Handler) buildSchedule(ctx context.Context) (pay.DepositSchedule, []pay.VanHire, error) {
	vans, err := h.Store.VanHires(ctx)
	if err != nil {
		return pay.DepositSchedule{}, nil, err
	}
	settings, err := h.Store.Settings(ctx)
	if err != nil {
		return pay.DepositSchedule{}, nil, err
	}
	schedule, err := pay.BuildDepositSchedule(vans, settings.ManualDepositSeed, h.now())
	return schedule, vans, err
}

// refreshDeposits rebuilds the schedule and writes back per-van snapshots.
// Reports false after writing an error response.
func (h *Handler) refreshDeposits(w http.ResponseWriter, ctx context.Context) bool {
	schedule, vans, err := h.buildSchedule(ctx)
	if err != nil {
		h.handleDomainError(w, "Failed to rebuild deposit schedule", err)
		return false
	}
	if err := h.Store.SetVanDeposits(ctx, pay.ApplyDepositSnapshots(vans, schedule)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write deposit snapshots", err)
		return false
	}
	return true
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the current rates.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(settings))
}

// UpdateSettings replaces the rates. Not retroactive: logged work days keep
// their snapshotted rates.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settings := pay.Settings{
		NormalRate:        req.NormalRate,
		DRSRate:           req.DRSRate,
		MileageRate:       req.MileageRate,
		InvoicingService:  pay.InvoicingService(req.InvoicingService),
		ManualDepositSeed: req.ManualDepositSeed,
	}
	if err := pay.ValidateSettings(settings); err != nil {
		h.handleDomainError(w, "Invalid settings", err)
		return
	}

	if err := h.Store.SaveSettings(r.Context(), settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(settings))
}

// =============================================================================
// PARAMETER AND ERROR HELPERS
// =============================================================================

func (h *Handler) weekParamsFromURL(w http.ResponseWriter, r *http.Request) (week, year int, ok bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return 0, 0, false
	}
	week, err = strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week", err)
		return 0, 0, false
	}
	return week, year, true
}

func (h *Handler) weekParamsFromQuery(w http.ResponseWriter, r *http.Request) (week, year int, ok bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return 0, 0, false
	}
	week, err = strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week", err)
		return 0, 0, false
	}
	return week, year, true
}

// handleDomainError maps calendar and pay errors onto HTTP statuses.
func (h *Handler) handleDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case pay.IsClientError(err),
		errors.Is(err, workweek.ErrInvalidWeekNumber),
		errors.Is(err, workweek.ErrYearOutOfRange):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

// handleStoreError maps store sentinels onto HTTP statuses.
func (h *Handler) handleStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
