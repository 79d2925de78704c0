package planilla

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDriverNotFound is returned when a referenced driver doesn't exist.
	ErrDriverNotFound = errors.New("driver not found")

	// ErrEntryNotFound is returned when a referenced entry doesn't exist.
	ErrEntryNotFound = errors.New("entry not found")
)

// Store persists drivers and their recorded shifts.
// Implementations:
//   - store/memory.go: in-memory, for tests and dev
//   - ../store/sqlite: SQLite
type Store interface {
	SaveDriver(ctx context.Context, d Driver) error
	GetDriver(ctx context.Context, id string) (*Driver, error)
	ListDrivers(ctx context.Context) ([]Driver, error)

	// SaveEntry inserts or replaces an entry by ID.
	SaveEntry(ctx context.Context, e Entry) error
	GetEntry(ctx context.Context, id string) (*Entry, error)
	DeleteEntry(ctx context.Context, id string) error

	// ListEntries returns a driver's entries starting in year/month,
	// ordered by date then start hour.
	ListEntries(ctx context.Context, driverID string, year int, month time.Month) ([]Entry, error)
}
