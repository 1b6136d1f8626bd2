/*
Package pay computes courier pay and van-hire deposit liability.

PURPOSE:
  Turns raw work-day, week and van-hire records into monetary breakdowns:
  daily pay with sweep and mileage components, weekly aggregates with the
  six-day bonus and deductions, performance bonuses from the ranking table,
  pro-rata van costs, and the staged, capped deposit accrual schedule.

KEY CONCEPTS IN THIS FILE (types.go):
  - Pence: All money is integer minor units. The engine never emits
    floating-point currency; display conversion is the caller's concern.
  - Mileage rate convention: integer scaled x10,000 per mile
    (1988 = 0.1988 pounds per mile, i.e. rate/100 pence per mile).
  - WorkDay/Week/VanHire/Settings: plain records supplied by the storage
    collaborator. Rates on a WorkDay are snapshots taken when the day was
    logged; later settings changes are never retroactive.
  - WeeklyPayBreakdown: the value object returned to callers, carrying
    every pay component plus the week's calendar info and payment weeks.

DESIGN PRINCIPLES:
  1. Purity: every function is deterministic over its inputs and mutates
     nothing it was given. Derived fields (VanHire.DepositPaid) are
     re-derived snapshots the CALLER writes back, never authoritative input.
  2. Fail fast: malformed input is rejected with a typed error, never
     silently clamped (the only clipping is the explicit deposit cap).
  3. Precision: decimal arithmetic for the rounding-sensitive mileage and
     pro-rata paths; everything else is exact integer pence.

SEE ALSO:
  - daily.go: Per-day pay, sweeps, mileage, discrepancy
  - weekly.go: Weekly aggregation and the standard-pay total
  - deposit.go: Tiered, capped deposit accrual schedule
  - workweek package: The custom 52/53-week calendar
*/
package pay

import (
	"github.com/fleetpay/courier-engine/workweek"
)

// =============================================================================
// MONEY
// =============================================================================

// Pence is a monetary amount in integer minor units (GBP pence).
type Pence int64

// Pounds returns the major-unit value for display.
func (p Pence) Pounds() float64 { return float64(p) / 100 }

// =============================================================================
// ENUMS
// =============================================================================

// RouteType distinguishes the two route kinds a courier can run.
type RouteType string

const (
	RouteNormal RouteType = "normal"
	RouteDRS    RouteType = "drs"
)

func (r RouteType) Valid() bool {
	return r == RouteNormal || r == RouteDRS
}

// PerformanceLevel is one of the five weekly ranking tiers. Rankings arrive
// later than the work itself, so both week-level fields are optional.
type PerformanceLevel string

const (
	LevelPoor          PerformanceLevel = "poor"
	LevelFair          PerformanceLevel = "fair"
	LevelGreat         PerformanceLevel = "great"
	LevelFantastic     PerformanceLevel = "fantastic"
	LevelFantasticPlus PerformanceLevel = "fantastic_plus"
)

func (l PerformanceLevel) Valid() bool {
	switch l {
	case LevelPoor, LevelFair, LevelGreat, LevelFantastic, LevelFantasticPlus:
		return true
	}
	return false
}

// InvoicingService selects the weekly invoicing deduction.
type InvoicingService string

const (
	SelfInvoicing InvoicingService = "self"
	VersoBasic    InvoicingService = "verso_basic"
	VersoFull     InvoicingService = "verso_full"
)

func (s InvoicingService) Valid() bool {
	switch s {
	case SelfInvoicing, VersoBasic, VersoFull:
		return true
	}
	return false
}

// WeeklyCost returns the flat weekly deduction for the service.
func (s InvoicingService) WeeklyCost() Pence {
	switch s {
	case VersoBasic:
		return 1000
	case VersoFull:
		return 3000
	default:
		return 0
	}
}

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// MaxSweeps caps stops given, stops taken, and their combined total.
	MaxSweeps = 200

	// MaxWorkDaysPerWeek is the legal driving-hours limit.
	MaxWorkDaysPerWeek = 6

	// SixDayBonus is the flat bonus for a full six-day week.
	SixDayBonus Pence = 3000

	// SweepUnit is the per-stop value of a sweep, in pence.
	SweepUnit Pence = 100

	// DepositCap is the global deposit ceiling across all vans.
	DepositCap Pence = 50000

	// DepositTier1Rate applies to the 1st and 2nd cumulative deposit weeks,
	// DepositTier2Rate to every week from the 3rd onward.
	DepositTier1Rate Pence = 2500
	DepositTier2Rate Pence = 5000
	depositTier1Weeks      = 2

	// PaymentLagDays is the real-world standard-pay lag. Deposit weeks for a
	// still-active van are only counted once their pay has actually landed.
	PaymentLagDays = 14

	// DepositHoldDays is how long the deposit is held after off-hire.
	DepositHoldDays = 42
)

// =============================================================================
// RECORDS - Plain inputs supplied by the storage collaborator
// =============================================================================

// WorkDay is one day of courier work. At most one exists per (driver, date).
// DailyRate and MileageRate are snapshots taken when the day was logged.
type WorkDay struct {
	ID         string
	Date       workweek.Date
	RouteType  RouteType
	DailyRate  Pence
	StopsGiven int
	StopsTaken int

	// Official payslip miles vs. odometer-logged miles; either may be absent.
	AmazonPaidMiles *float64
	VanLoggedMiles  *float64

	// Minor-units per mile, x10,000 scale. Zero means "use the week
	// override or the settings rate".
	MileageRate int64
}

// Week aggregates WorkDays for one work-week. It exists independently of
// whether the performance rankings are known yet.
type Week struct {
	Week int
	Year int

	IndividualLevel *PerformanceLevel
	CompanyLevel    *PerformanceLevel

	// BonusAmount caches the derived bonus once rankings are entered.
	BonusAmount *Pence

	// MileageRate overrides the settings rate for this week (x10,000 scale).
	MileageRate *int64
}

// VanHire is a rental period for a vehicle. A nil OffHireDate means the van
// is currently on hire; at most one VanHire per driver may be active.
type VanHire struct {
	ID           string
	Registration string
	OnHireDate   workweek.Date
	OffHireDate  *workweek.Date
	WeeklyRate   Pence

	// DepositPaid is a re-derived snapshot of the accrual schedule, written
	// back by the caller as a display cache. Never treated as input.
	DepositPaid Pence

	DepositRefunded     bool
	DepositRefundAmount Pence
	DepositHoldUntil    *workweek.Date
}

// Active reports whether the van is still on hire.
func (v VanHire) Active() bool { return v.OffHireDate == nil }

// HoldUntil returns the date the deposit hold lapses: off-hire plus six
// weeks. Nil while the van is still on hire.
func (v VanHire) HoldUntil() *workweek.Date {
	if v.OffHireDate == nil {
		return nil
	}
	d := v.OffHireDate.AddDays(DepositHoldDays)
	return &d
}

// Settings holds the driver's current rates. Changes are not retroactive:
// already-recorded WorkDays keep their snapshotted rates.
type Settings struct {
	NormalRate       Pence
	DRSRate          Pence
	MileageRate      int64
	InvoicingService InvoicingService

	// ManualDepositSeed is deposit paid before the system was adopted.
	// It seeds the accrual schedule's running total and tier position.
	ManualDepositSeed Pence
}

// DefaultSettings returns the rates used until the driver configures theirs.
func DefaultSettings() Settings {
	return Settings{
		NormalRate:       16000,
		DRSRate:          18000,
		MileageRate:      1988,
		InvoicingService: SelfInvoicing,
	}
}

// DailyRateFor returns the configured flat rate for a route type.
func (s Settings) DailyRateFor(route RouteType) Pence {
	if route == RouteDRS {
		return s.DRSRate
	}
	return s.NormalRate
}

// =============================================================================
// OUTPUT - Weekly pay breakdown value object
// =============================================================================

// WeeklyPayBreakdown carries every pay component for one work-week. All
// monetary fields are integer pence; StandardPay may legitimately be
// negative and is never floored (drivers need to see a liability).
type WeeklyPayBreakdown struct {
	WeekInfo   workweek.WeekInfo `json:"weekInfo"`
	DaysWorked int               `json:"daysWorked"`

	BasePay         Pence `json:"basePay"`
	SixDayBonus     Pence `json:"sixDayBonus"`
	SweepAdjustment Pence `json:"sweepAdjustment"`
	MileagePayment  Pence `json:"mileagePayment"`
	VanDeduction    Pence `json:"vanDeduction"`
	DepositPayment  Pence `json:"depositPayment"`
	InvoicingCost   Pence `json:"invoicingCost"`
	StandardPay     Pence `json:"standardPay"`

	// Informational components, never part of StandardPay.
	MileageDiscrepancy Pence   `json:"mileageDiscrepancy"`
	TotalAmazonMiles   float64 `json:"totalAmazonMiles"`
	TotalVanMiles      float64 `json:"totalVanMiles"`
	StopsGiven         int     `json:"stopsGiven"`
	StopsTaken         int     `json:"stopsTaken"`

	// PerformanceBonus is set once both ranking levels are known. It is paid
	// in BonusPaymentWeek, not as part of StandardPay.
	PerformanceBonus *Pence `json:"performanceBonus,omitempty"`

	StandardPaymentWeek workweek.WeekRef `json:"standardPaymentWeek"`
	BonusPaymentWeek    workweek.WeekRef `json:"bonusPaymentWeek"`
}
