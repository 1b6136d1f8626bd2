/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal records from the external API contract: clients send and
  receive pounds-agnostic integer pence and ISO dates, and optional fields
  are pointers so "absent" and "zero" stay distinguishable.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers (via the pay package), not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - pay/types.go: The records these map to
*/
package api

import (
	"github.com/fleetpay/courier-engine/pay"
	"github.com/fleetpay/courier-engine/workweek"
)

// =============================================================================
// WORK DAYS
// =============================================================================

// WorkDayDTO represents a logged work day in API responses.
type WorkDayDTO struct {
	ID              string   `json:"id"`
	Date            string   `json:"date"`
	RouteType       string   `json:"routeType"`
	DailyRate       int64    `json:"dailyRate"`
	StopsGiven      int      `json:"stopsGiven"`
	StopsTaken      int      `json:"stopsTaken"`
	AmazonPaidMiles *float64 `json:"amazonPaidMiles,omitempty"`
	VanLoggedMiles  *float64 `json:"vanLoggedMiles,omitempty"`
	MileageRate     int64    `json:"mileageRate"`
}

// WorkDayRequest creates or replaces a work day. DailyRate and MileageRate
// are optional; when absent the current settings rates are snapshotted.
type WorkDayRequest struct {
	Date            string   `json:"date"`
	RouteType       string   `json:"routeType"`
	DailyRate       *int64   `json:"dailyRate,omitempty"`
	StopsGiven      int      `json:"stopsGiven"`
	StopsTaken      int      `json:"stopsTaken"`
	AmazonPaidMiles *float64 `json:"amazonPaidMiles,omitempty"`
	VanLoggedMiles  *float64 `json:"vanLoggedMiles,omitempty"`
	MileageRate     *int64   `json:"mileageRate,omitempty"`
}

// =============================================================================
// WEEKS
// =============================================================================

// WeekBreakdownDTO wraps the computed breakdown with its raw day records.
type WeekBreakdownDTO struct {
	pay.WeeklyPayBreakdown
	HasWork bool         `json:"hasWork"`
	Days    []WorkDayDTO `json:"days"`
}

// WeekLevelsRequest sets the performance ranking levels for a week.
type WeekLevelsRequest struct {
	IndividualLevel string `json:"individualLevel"`
	CompanyLevel    string `json:"companyLevel"`
}

// WeekLevelsDTO is the recomputed bonus after levels are set.
type WeekLevelsDTO struct {
	Week             int              `json:"week"`
	Year             int              `json:"year"`
	IndividualLevel  string           `json:"individualLevel"`
	CompanyLevel     string           `json:"companyLevel"`
	PerformanceBonus pay.Pence        `json:"performanceBonus"`
	BonusPaymentWeek workweek.WeekRef `json:"bonusPaymentWeek"`
}

// =============================================================================
// VANS
// =============================================================================

// VanHireDTO represents a van-hire period in API responses. DepositPaid and
// DepositHoldUntil are the re-derived snapshots.
type VanHireDTO struct {
	ID                  string    `json:"id"`
	Registration        string    `json:"registration"`
	OnHireDate          string    `json:"onHireDate"`
	OffHireDate         *string   `json:"offHireDate,omitempty"`
	WeeklyRate          pay.Pence `json:"weeklyRate"`
	DepositPaid         pay.Pence `json:"depositPaid"`
	DepositRefunded     bool      `json:"depositRefunded"`
	DepositRefundAmount pay.Pence `json:"depositRefundAmount"`
	DepositHoldUntil    *string   `json:"depositHoldUntil,omitempty"`
}

// VanHireRequest creates or replaces a van-hire record.
type VanHireRequest struct {
	Registration        string    `json:"registration"`
	OnHireDate          string    `json:"onHireDate"`
	OffHireDate         *string   `json:"offHireDate,omitempty"`
	WeeklyRate          pay.Pence `json:"weeklyRate"`
	DepositRefunded     bool      `json:"depositRefunded"`
	DepositRefundAmount pay.Pence `json:"depositRefundAmount"`
}

// DepositScheduleDTO is the full accrual schedule with per-van totals.
type DepositScheduleDTO struct {
	pay.DepositSchedule
	Cap      pay.Pence           `json:"cap"`
	Complete bool                `json:"complete"`
	PerVan   map[string]pay.Pence `json:"perVan"`
}

// DepositAdjustmentRequest sets the manual deposit seed.
type DepositAdjustmentRequest struct {
	Seed pay.Pence `json:"seed"`
}

// =============================================================================
// SETTINGS
// =============================================================================

// SettingsDTO mirrors pay.Settings on the wire.
type SettingsDTO struct {
	NormalRate        pay.Pence `json:"normalRate"`
	DRSRate           pay.Pence `json:"drsRate"`
	MileageRate       int64     `json:"mileageRate"`
	InvoicingService  string    `json:"invoicingService"`
	ManualDepositSeed pay.Pence `json:"manualDepositSeed"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// MAPPING HELPERS
// =============================================================================

func toWorkDayDTO(d pay.WorkDay) WorkDayDTO {
	return WorkDayDTO{
		ID:              d.ID,
		Date:            d.Date.String(),
		RouteType:       string(d.RouteType),
		DailyRate:       int64(d.DailyRate),
		StopsGiven:      d.StopsGiven,
		StopsTaken:      d.StopsTaken,
		AmazonPaidMiles: d.AmazonPaidMiles,
		VanLoggedMiles:  d.VanLoggedMiles,
		MileageRate:     d.MileageRate,
	}
}

func toVanHireDTO(v pay.VanHire) VanHireDTO {
	dto := VanHireDTO{
		ID:                  v.ID,
		Registration:        v.Registration,
		OnHireDate:          v.OnHireDate.String(),
		WeeklyRate:          v.WeeklyRate,
		DepositPaid:         v.DepositPaid,
		DepositRefunded:     v.DepositRefunded,
		DepositRefundAmount: v.DepositRefundAmount,
	}
	if v.OffHireDate != nil {
		s := v.OffHireDate.String()
		dto.OffHireDate = &s
	}
	if v.DepositHoldUntil != nil {
		s := v.DepositHoldUntil.String()
		dto.DepositHoldUntil = &s
	}
	return dto
}

func toSettingsDTO(s pay.Settings) SettingsDTO {
	return SettingsDTO{
		NormalRate:        s.NormalRate,
		DRSRate:           s.DRSRate,
		MileageRate:       s.MileageRate,
		InvoicingService:  string(s.InvoicingService),
		ManualDepositSeed: s.ManualDepositSeed,
	}
}
