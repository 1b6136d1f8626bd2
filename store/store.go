/*
Package store defines the persistence interfaces for courier pay records.

PURPOSE:
  The pay engine is pure: it consumes plain records and returns computed
  values. These interfaces are the boundary where records come from. Two
  implementations exist: store/memory (tests, demos) and store/sqlite
  (the real backend).

DERIVED FIELDS:
  VanHire.DepositPaid and DepositHoldUntil are display caches. Handlers
  re-derive them from the full hire history via pay.BuildDepositSchedule
  and write them back with SetVanDeposits after every van mutation; the
  stored values are never fed back into a calculation.
*/
package store

import (
	"context"
	"errors"

	"github.com/fleetpay/courier-engine/pay"
	"github.com/fleetpay/courier-engine/workweek"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned on uniqueness violations (a second work day on
	// the same date, a second active van).
	ErrConflict = errors.New("record conflict")
)

// =============================================================================
// STORE INTERFACES
// =============================================================================

// WorkDayStore persists individual work days (at most one per date).
type WorkDayStore interface {
	// WorkDaysInRange returns work days with dates in [from, to], ascending.
	WorkDaysInRange(ctx context.Context, from, to workweek.Date) ([]pay.WorkDay, error)

	// WorkDay returns a single record by ID. ErrNotFound if absent.
	WorkDay(ctx context.Context, id string) (pay.WorkDay, error)

	// CreateWorkDay inserts a record. ErrConflict if the date is taken.
	CreateWorkDay(ctx context.Context, d pay.WorkDay) error

	// UpdateWorkDay replaces a record by ID. ErrNotFound if absent.
	UpdateWorkDay(ctx context.Context, d pay.WorkDay) error

	// DeleteWorkDay removes a record by ID. ErrNotFound if absent.
	DeleteWorkDay(ctx context.Context, id string) error
}

// WeekStore persists per-week records (rankings, cached bonus, overrides).
type WeekStore interface {
	// WeekRecord returns the record for (week, year), or nil when the week
	// has none yet (a normal state, not an error).
	WeekRecord(ctx context.Context, week, year int) (*pay.Week, error)

	// SaveWeekRecord inserts or replaces the record for its (week, year).
	SaveWeekRecord(ctx context.Context, w pay.Week) error
}

// VanStore persists the van-hire history.
type VanStore interface {
	// VanHires returns the full history, ascending by on-hire date.
	VanHires(ctx context.Context) ([]pay.VanHire, error)

	// CreateVanHire inserts a hire. ErrConflict when it is active and
	// another active hire already exists.
	CreateVanHire(ctx context.Context, v pay.VanHire) error

	// UpdateVanHire replaces a hire by ID. ErrNotFound if absent.
	UpdateVanHire(ctx context.Context, v pay.VanHire) error

	// DeleteVanHire removes a hire by ID. ErrNotFound if absent.
	DeleteVanHire(ctx context.Context, id string) error

	// SetVanDeposits writes back re-derived deposit snapshots.
	SetVanDeposits(ctx context.Context, vans []pay.VanHire) error
}

// SettingsStore persists the driver's rate configuration.
type SettingsStore interface {
	// Settings returns the stored configuration, or explicit defaults when
	// none has been saved yet.
	Settings(ctx context.Context) (pay.Settings, error)

	// SaveSettings replaces the configuration.
	SaveSettings(ctx context.Context, s pay.Settings) error
}

// Store is the full persistence surface the API needs.
type Store interface {
	WorkDayStore
	WeekStore
	VanStore
	SettingsStore

	Close() error
}
