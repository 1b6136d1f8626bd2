/*
Package sqlite provides the SQLite-backed implementation of store.Store.

PURPOSE:
  Persists work days, week records, van hires and settings. Schema is
  managed with goose migrations embedded in the migrations package and
  applied on New().

CONVENTIONS:
  - Dates stored as ISO strings (YYYY-MM-DD), matching workweek.Date.
  - Money stored as INTEGER pence.
  - Uniqueness (one work day per date) enforced by the schema; violations
    surface as store.ErrConflict.
  - The one-active-van invariant is checked in Go before insert/update,
    inside the store mutex.

WAL MODE:
  SQLite is opened with WAL so readers don't block the writer.

USAGE:
  st, err := sqlite.New("./data/courier.db")
  if err != nil { ... }
  defer st.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/fleetpay/courier-engine/migrations"
	"github.com/fleetpay/courier-engine/pay"
	"github.com/fleetpay/courier-engine/store"
	"github.com/fleetpay/courier-engine/workweek"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database and applies pending migrations.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// WORK DAYS
// =============================================================================

func (s *Store) WorkDaysInRange(ctx context.Context, from, to workweek.Date) ([]pay.WorkDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, route_type, daily_rate, stops_given, stops_taken,
		       amazon_paid_miles, van_logged_miles, mileage_rate
		FROM work_days
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query work days: %w", err)
	}
	defer rows.Close()

	var days []pay.WorkDay
	for rows.Next() {
		d, err := scanWorkDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (s *Store) WorkDay(ctx context.Context, id string) (pay.WorkDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, date, route_type, daily_rate, stops_given, stops_taken,
		       amazon_paid_miles, van_logged_miles, mileage_rate
		FROM work_days WHERE id = ?
	`, id)

	d, err := scanWorkDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pay.WorkDay{}, store.ErrNotFound
	}
	return d, err
}

func (s *Store) CreateWorkDay(ctx context.Context, d pay.WorkDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO work_days
		(id, date, route_type, daily_rate, stops_given, stops_taken,
		 amazon_paid_miles, van_logged_miles, mileage_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.Date.String(), string(d.RouteType), int64(d.DailyRate),
		d.StopsGiven, d.StopsTaken, nullFloat(d.AmazonPaidMiles),
		nullFloat(d.VanLoggedMiles), d.MileageRate)
	if err != nil {
		if isUniqueConstraintError(err) {
			return store.ErrConflict
		}
		return fmt.Errorf("failed to insert work day: %w", err)
	}
	return nil
}

func (s *Store) UpdateWorkDay(ctx context.Context, d pay.WorkDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE work_days SET date = ?, route_type = ?, daily_rate = ?,
		       stops_given = ?, stops_taken = ?, amazon_paid_miles = ?,
		       van_logged_miles = ?, mileage_rate = ?
		WHERE id = ?
	`, d.Date.String(), string(d.RouteType), int64(d.DailyRate),
		d.StopsGiven, d.StopsTaken, nullFloat(d.AmazonPaidMiles),
		nullFloat(d.VanLoggedMiles), d.MileageRate, d.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return store.ErrConflict
		}
		return fmt.Errorf("failed to update work day: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteWorkDay(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM work_days WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete work day: %w", err)
	}
	return requireRow(res)
}

// =============================================================================
// WEEK RECORDS
// =============================================================================

func (s *Store) WeekRecord(ctx context.Context, week, year int) (*pay.Week, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT week, year, individual_level, company_level, bonus_amount, mileage_rate
		FROM weeks WHERE week = ? AND year = ?
	`, week, year)

	var (
		w           pay.Week
		individual  sql.NullString
		company     sql.NullString
		bonus       sql.NullInt64
		mileageRate sql.NullInt64
	)
	err := row.Scan(&w.Week, &w.Year, &individual, &company, &bonus, &mileageRate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan week record: %w", err)
	}

	if individual.Valid {
		l := pay.PerformanceLevel(individual.String)
		w.IndividualLevel = &l
	}
	if company.Valid {
		l := pay.PerformanceLevel(company.String)
		w.CompanyLevel = &l
	}
	if bonus.Valid {
		b := pay.Pence(bonus.Int64)
		w.BonusAmount = &b
	}
	if mileageRate.Valid {
		r := mileageRate.Int64
		w.MileageRate = &r
	}
	return &w, nil
}

func (s *Store) SaveWeekRecord(ctx context.Context, w pay.Week) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		individual, company sql.NullString
		bonus, mileageRate  sql.NullInt64
	)
	if w.IndividualLevel != nil {
		individual = sql.NullString{String: string(*w.IndividualLevel), Valid: true}
	}
	if w.CompanyLevel != nil {
		company = sql.NullString{String: string(*w.CompanyLevel), Valid: true}
	}
	if w.BonusAmount != nil {
		bonus = sql.NullInt64{Int64: int64(*w.BonusAmount), Valid: true}
	}
	if w.MileageRate != nil {
		mileageRate = sql.NullInt64{Int64: *w.MileageRate, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weeks (week, year, individual_level, company_level, bonus_amount, mileage_rate)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(year, week) DO UPDATE SET
			individual_level = excluded.individual_level,
			company_level = excluded.company_level,
			bonus_amount = excluded.bonus_amount,
			mileage_rate = excluded.mileage_rate
	`, w.Week, w.Year, individual, company, bonus, mileageRate)
	if err != nil {
		return fmt.Errorf("failed to save week record: %w", err)
	}
	return nil
}

// =============================================================================
// VAN HIRES
// =============================================================================

func (s *Store) VanHires(ctx context.Context) ([]pay.VanHire, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, registration, on_hire_date, off_hire_date, weekly_rate,
		       deposit_paid, deposit_refunded, deposit_refund_amount, deposit_hold_until
		FROM van_hires
		ORDER BY on_hire_date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query van hires: %w", err)
	}
	defer rows.Close()

	var vans []pay.VanHire
	for rows.Next() {
		var (
			v         pay.VanHire
			onHire    string
			offHire   sql.NullString
			holdUntil sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.Registration, &onHire, &offHire, &v.WeeklyRate,
			&v.DepositPaid, &v.DepositRefunded, &v.DepositRefundAmount, &holdUntil); err != nil {
			return nil, fmt.Errorf("failed to scan van hire: %w", err)
		}
		if v.OnHireDate, err = workweek.ParseDate(onHire); err != nil {
			return nil, fmt.Errorf("bad on-hire date for van %s: %w", v.ID, err)
		}
		if offHire.Valid {
			d, err := workweek.ParseDate(offHire.String)
			if err != nil {
				return nil, fmt.Errorf("bad off-hire date for van %s: %w", v.ID, err)
			}
			v.OffHireDate = &d
		}
		if holdUntil.Valid {
			d, err := workweek.ParseDate(holdUntil.String)
			if err != nil {
				return nil, fmt.Errorf("bad hold-until date for van %s: %w", v.ID, err)
			}
			v.DepositHoldUntil = &d
		}
		vans = append(vans, v)
	}
	return vans, rows.Err()
}

func (s *Store) CreateVanHire(ctx context.Context, v pay.VanHire) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.Active() {
		if err := s.requireNoOtherActive(ctx, v.ID); err != nil {
			return err
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO van_hires
		(id, registration, on_hire_date, off_hire_date, weekly_rate,
		 deposit_paid, deposit_refunded, deposit_refund_amount, deposit_hold_until)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, v.ID, v.Registration, v.OnHireDate.String(), nullDate(v.OffHireDate),
		int64(v.WeeklyRate), int64(v.DepositPaid), v.DepositRefunded,
		int64(v.DepositRefundAmount), nullDate(v.DepositHoldUntil))
	if err != nil {
		if isUniqueConstraintError(err) {
			return store.ErrConflict
		}
		return fmt.Errorf("failed to insert van hire: %w", err)
	}
	return nil
}

func (s *Store) UpdateVanHire(ctx context.Context, v pay.VanHire) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.Active() {
		if err := s.requireNoOtherActive(ctx, v.ID); err != nil {
			return err
		}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE van_hires SET registration = ?, on_hire_date = ?, off_hire_date = ?,
		       weekly_rate = ?, deposit_paid = ?, deposit_refunded = ?,
		       deposit_refund_amount = ?, deposit_hold_until = ?
		WHERE id = ?
	`, v.Registration, v.OnHireDate.String(), nullDate(v.OffHireDate),
		int64(v.WeeklyRate), int64(v.DepositPaid), v.DepositRefunded,
		int64(v.DepositRefundAmount), nullDate(v.DepositHoldUntil), v.ID)
	if err != nil {
		return fmt.Errorf("failed to update van hire: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteVanHire(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM van_hires WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete van hire: %w", err)
	}
	return requireRow(res)
}

func (s *Store) SetVanDeposits(ctx context.Context, vans []pay.VanHire) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, v := range vans {
		if _, err := tx.ExecContext(ctx, `
			UPDATE van_hires SET deposit_paid = ?, deposit_hold_until = ? WHERE id = ?
		`, int64(v.DepositPaid), nullDate(v.DepositHoldUntil), v.ID); err != nil {
			return fmt.Errorf("failed to write deposit snapshot: %w", err)
		}
	}
	return tx.Commit()
}

// requireNoOtherActive enforces the one-active-van invariant.
func (s *Store) requireNoOtherActive(ctx context.Context, excludeID string) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM van_hires WHERE off_hire_date IS NULL AND id != ?",
		excludeID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check active vans: %w", err)
	}
	if count > 0 {
		return store.ErrConflict
	}
	return nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) Settings(ctx context.Context) (pay.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT normal_rate, drs_rate, mileage_rate, invoicing_service, manual_deposit_seed
		FROM settings WHERE id = 1
	`)

	var (
		cfg     pay.Settings
		service string
	)
	err := row.Scan(&cfg.NormalRate, &cfg.DRSRate, &cfg.MileageRate, &service, &cfg.ManualDepositSeed)
	if errors.Is(err, sql.ErrNoRows) {
		return pay.DefaultSettings(), nil
	}
	if err != nil {
		return pay.Settings{}, fmt.Errorf("failed to scan settings: %w", err)
	}
	cfg.InvoicingService = pay.InvoicingService(service)
	return cfg, nil
}

func (s *Store) SaveSettings(ctx context.Context, cfg pay.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, normal_rate, drs_rate, mileage_rate, invoicing_service, manual_deposit_seed)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			normal_rate = excluded.normal_rate,
			drs_rate = excluded.drs_rate,
			mileage_rate = excluded.mileage_rate,
			invoicing_service = excluded.invoicing_service,
			manual_deposit_seed = excluded.manual_deposit_seed
	`, int64(cfg.NormalRate), int64(cfg.DRSRate), cfg.MileageRate,
		string(cfg.InvoicingService), int64(cfg.ManualDepositSeed))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkDay(row rowScanner) (pay.WorkDay, error) {
	var (
		d          pay.WorkDay
		date       string
		routeType  string
		amazonMile sql.NullFloat64
		vanMile    sql.NullFloat64
	)
	err := row.Scan(&d.ID, &date, &routeType, &d.DailyRate, &d.StopsGiven,
		&d.StopsTaken, &amazonMile, &vanMile, &d.MileageRate)
	if err != nil {
		return d, err
	}
	if d.Date, err = workweek.ParseDate(date); err != nil {
		return d, fmt.Errorf("bad work day date: %w", err)
	}
	d.RouteType = pay.RouteType(routeType)
	if amazonMile.Valid {
		d.AmazonPaidMiles = &amazonMile.Float64
	}
	if vanMile.Valid {
		d.VanLoggedMiles = &vanMile.Float64
	}
	return d, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func nullDate(d *workweek.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Compile-time check.
var _ store.Store = (*Store)(nil)
