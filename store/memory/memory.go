// Package memory provides an in-memory Store implementation (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fleetpay/courier-engine/pay"
	"github.com/fleetpay/courier-engine/store"
	"github.com/fleetpay/courier-engine/workweek"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	workDays map[string]pay.WorkDay // by ID
	byDate   map[string]string      // date -> work day ID
	weeks    map[weekKey]pay.Week
	vans     map[string]pay.VanHire
	settings *pay.Settings
}

type weekKey struct {
	Week int
	Year int
}

func New() *Memory {
	return &Memory{
		workDays: make(map[string]pay.WorkDay),
		byDate:   make(map[string]string),
		weeks:    make(map[weekKey]pay.Week),
		vans:     make(map[string]pay.VanHire),
	}
}

func (m *Memory) Close() error { return nil }

// =============================================================================
// WORK DAYS
// =============================================================================

func (m *Memory) WorkDaysInRange(_ context.Context, from, to workweek.Date) ([]pay.WorkDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []pay.WorkDay
	for _, d := range m.workDays {
		if d.Date.AfterOrEqual(from) && d.Date.BeforeOrEqual(to) {
			result = append(result, d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *Memory) WorkDay(_ context.Context, id string) (pay.WorkDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.workDays[id]
	if !ok {
		return pay.WorkDay{}, store.ErrNotFound
	}
	return d, nil
}

func (m *Memory) CreateWorkDay(_ context.Context, d pay.WorkDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byDate[d.Date.String()]; taken {
		return store.ErrConflict
	}
	m.workDays[d.ID] = d
	m.byDate[d.Date.String()] = d.ID
	return nil
}

func (m *Memory) UpdateWorkDay(_ context.Context, d pay.WorkDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.workDays[d.ID]
	if !ok {
		return store.ErrNotFound
	}
	if other, taken := m.byDate[d.Date.String()]; taken && other != d.ID {
		return store.ErrConflict
	}
	delete(m.byDate, old.Date.String())
	m.workDays[d.ID] = d
	m.byDate[d.Date.String()] = d.ID
	return nil
}

func (m *Memory) DeleteWorkDay(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.workDays[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(m.workDays, id)
	delete(m.byDate, d.Date.String())
	return nil
}

// =============================================================================
// WEEK RECORDS
// =============================================================================

func (m *Memory) WeekRecord(_ context.Context, week, year int) (*pay.Week, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	w, ok := m.weeks[weekKey{Week: week, Year: year}]
	if !ok {
		return nil, nil
	}
	out := w
	return &out, nil
}

func (m *Memory) SaveWeekRecord(_ context.Context, w pay.Week) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.weeks[weekKey{Week: w.Week, Year: w.Year}] = w
	return nil
}

// =============================================================================
// VAN HIRES
// =============================================================================

func (m *Memory) VanHires(_ context.Context) ([]pay.VanHire, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]pay.VanHire, 0, len(m.vans))
	for _, v := range m.vans {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OnHireDate.Before(result[j].OnHireDate) })
	return result, nil
}

func (m *Memory) CreateVanHire(_ context.Context, v pay.VanHire) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v.Active() {
		for _, existing := range m.vans {
			if existing.Active() {
				return store.ErrConflict
			}
		}
	}
	m.vans[v.ID] = v
	return nil
}

func (m *Memory) UpdateVanHire(_ context.Context, v pay.VanHire) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.vans[v.ID]; !ok {
		return store.ErrNotFound
	}
	if v.Active() {
		for id, existing := range m.vans {
			if id != v.ID && existing.Active() {
				return store.ErrConflict
			}
		}
	}
	m.vans[v.ID] = v
	return nil
}

func (m *Memory) DeleteVanHire(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.vans[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.vans, id)
	return nil
}

func (m *Memory) SetVanDeposits(_ context.Context, vans []pay.VanHire) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range vans {
		if existing, ok := m.vans[v.ID]; ok {
			existing.DepositPaid = v.DepositPaid
			existing.DepositHoldUntil = v.DepositHoldUntil
			m.vans[v.ID] = existing
		}
	}
	return nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (m *Memory) Settings(_ context.Context) (pay.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.settings == nil {
		return pay.DefaultSettings(), nil
	}
	return *m.settings, nil
}

func (m *Memory) SaveSettings(_ context.Context, s pay.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = &s
	return nil
}

// Compile-time check.
var _ store.Store = (*Memory)(nil)
