// Package store provides in-memory planilla.Store and holiday storage.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/recargo-engine/calendar"
	"github.com/warp/recargo-engine/planilla"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	drivers  map[string]planilla.Driver
	entries  map[string][]planilla.Entry // driver ID -> entries ordered by date, start
	byID     map[string]string           // entry ID -> driver ID
	holidays map[string]calendar.Holiday
}

func NewMemory() *Memory {
	return &Memory{
		drivers:  make(map[string]planilla.Driver),
		entries:  make(map[string][]planilla.Entry),
		byID:     make(map[string]string),
		holidays: make(map[string]calendar.Holiday),
	}
}

func (m *Memory) SaveDriver(_ context.Context, d planilla.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[d.ID] = d
	return nil
}

func (m *Memory) GetDriver(_ context.Context, id string) (*planilla.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drivers[id]
	if !ok {
		return nil, planilla.ErrDriverNotFound
	}
	return &d, nil
}

func (m *Memory) ListDrivers(_ context.Context) ([]planilla.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]planilla.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SaveEntry inserts e in date order, replacing any entry with the same ID.
func (m *Memory) SaveEntry(_ context.Context, e planilla.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if owner, ok := m.byID[e.ID]; ok {
		m.removeLocked(owner, e.ID)
	}

	entries := m.entries[e.DriverID]

	// Binary search for insertion point
	i := sort.Search(len(entries), func(i int) bool {
		return entryAfter(entries[i], e)
	})

	entries = append(entries, planilla.Entry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = e
	m.entries[e.DriverID] = entries
	m.byID[e.ID] = e.DriverID
	return nil
}

func (m *Memory) GetEntry(_ context.Context, id string) (*planilla.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	owner, ok := m.byID[id]
	if !ok {
		return nil, planilla.ErrEntryNotFound
	}
	for _, e := range m.entries[owner] {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, planilla.ErrEntryNotFound
}

func (m *Memory) DeleteEntry(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, ok := m.byID[id]
	if !ok {
		return planilla.ErrEntryNotFound
	}
	m.removeLocked(owner, id)
	return nil
}

func (m *Memory) ListEntries(_ context.Context, driverID string, year int, month time.Month) ([]planilla.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []planilla.Entry
	for _, e := range m.entries[driverID] {
		if e.Date.Year() == year && e.Date.Month() == month {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *Memory) removeLocked(driverID, id string) {
	entries := m.entries[driverID]
	for i, e := range entries {
		if e.ID == id {
			m.entries[driverID] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	delete(m.byID, id)
}

// entryAfter orders entries by date, then start hour.
func entryAfter(a, b planilla.Entry) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.Start.GreaterThan(b.Start)
}

// =============================================================================
// CUSTOM HOLIDAYS
// =============================================================================

// SaveHoliday stores h. A holiday with the same date and name is updated
// in place and keeps its ID.
func (m *Memory) SaveHoliday(_ context.Context, h calendar.Holiday) (calendar.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.holidays {
		if existing.Date.Equal(h.Date) && existing.Name == h.Name {
			h.ID = id
			break
		}
	}
	h.Kind = calendar.KindCustom
	m.holidays[h.ID] = h
	return h, nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[id]; !ok {
		return calendar.ErrHolidayNotFound
	}
	delete(m.holidays, id)
	return nil
}

// ListHolidays implements calendar.CustomSource.
func (m *Memory) ListHolidays(_ context.Context) ([]calendar.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]calendar.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
