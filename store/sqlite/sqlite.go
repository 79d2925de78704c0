/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements planilla.Store (drivers and recorded shifts) and
  calendar.CustomSource (company holidays) using SQLite.

KEY TABLES:
  drivers:   Workers whose recargos are tracked
  entries:   Recorded shifts, one row per working day
  holidays:  Custom holidays on top of the statutory calendar

HOURS:
  start_hour/end_hour are stored as decimal TEXT ("8.5") so values come
  back exactly as recorded. Derived surcharge totals are NOT stored; they
  are recomputed from the rows on every read.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In-memory databases are pinned to a
  single connection, otherwise every pooled connection would see its own
  empty database.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

USAGE:
  store, err := sqlite.New("./data/recargos.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - planilla/store.go: Interface definition
  - planilla/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/recargo-engine/calendar"
	"github.com/warp/recargo-engine/planilla"
)

const dateLayout = "2006-01-02"

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Drivers
	CREATE TABLE IF NOT EXISTS drivers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		document TEXT,
		company TEXT,
		created_at TEXT NOT NULL
	);

	-- Recorded shifts
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		driver_id TEXT NOT NULL REFERENCES drivers(id) ON DELETE CASCADE,
		plate TEXT,
		work_date TEXT NOT NULL,
		start_hour TEXT NOT NULL,
		end_hour TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	-- Hot path: monthly planilla per driver
	CREATE INDEX IF NOT EXISTS idx_entries_driver_date
		ON entries(driver_id, work_date);

	-- Custom holidays
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DRIVER STORE
// =============================================================================

// SaveDriver inserts or updates a driver.
func (s *Store) SaveDriver(ctx context.Context, d planilla.Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO drivers (id, name, document, company, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			document = excluded.document,
			company = excluded.company
	`

	_, err := s.db.ExecContext(ctx, query,
		d.ID, d.Name, nullString(d.Document), nullString(d.Company),
		createdAt.Format(time.RFC3339),
	)
	return err
}

// GetDriver retrieves a driver by ID.
func (s *Store) GetDriver(ctx context.Context, id string) (*planilla.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, document, company, created_at FROM drivers WHERE id = ?",
		id,
	)
	d, err := scanDriver(row)
	if err == sql.ErrNoRows {
		return nil, planilla.ErrDriverNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDrivers returns all drivers ordered by name.
func (s *Store) ListDrivers(ctx context.Context) ([]planilla.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, document, company, created_at FROM drivers ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []planilla.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDriver(row scanner) (planilla.Driver, error) {
	var d planilla.Driver
	var document, company sql.NullString
	var createdAt string
	if err := row.Scan(&d.ID, &d.Name, &document, &company, &createdAt); err != nil {
		return planilla.Driver{}, err
	}
	d.Document = document.String
	d.Company = company.String
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return d, nil
}

// =============================================================================
// ENTRY STORE
// =============================================================================

// SaveEntry inserts or replaces an entry.
func (s *Store) SaveEntry(ctx context.Context, e planilla.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO entries (id, driver_id, plate, work_date, start_hour, end_hour, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			driver_id = excluded.driver_id,
			plate = excluded.plate,
			work_date = excluded.work_date,
			start_hour = excluded.start_hour,
			end_hour = excluded.end_hour,
			notes = excluded.notes
	`

	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.DriverID, nullString(e.Plate),
		e.Date.Format(dateLayout),
		e.Start.String(), e.End.String(),
		nullString(e.Notes),
		createdAt.Format(time.RFC3339),
	)
	if isForeignKeyError(err) {
		return planilla.ErrDriverNotFound
	}
	return err
}

// GetEntry retrieves an entry by ID.
func (s *Store) GetEntry(ctx context.Context, id string) (*planilla.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, driver_id, plate, work_date, start_hour, end_hour, notes, created_at
		FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, planilla.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEntry removes an entry by ID.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return planilla.ErrEntryNotFound
	}
	return nil
}

// ListEntries returns a driver's entries for one month.
func (s *Store) ListEntries(ctx context.Context, driverID string, year int, month time.Month) ([]planilla.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, driver_id, plate, work_date, start_hour, end_hour, notes, created_at
		FROM entries
		WHERE driver_id = ? AND work_date >= ? AND work_date < ?
		ORDER BY work_date ASC, CAST(start_hour AS REAL) ASC`,
		driverID, from.Format(dateLayout), to.Format(dateLayout),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []planilla.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(row scanner) (planilla.Entry, error) {
	var e planilla.Entry
	var plate, notes sql.NullString
	var workDate, start, end, createdAt string

	if err := row.Scan(&e.ID, &e.DriverID, &plate, &workDate, &start, &end, &notes, &createdAt); err != nil {
		return planilla.Entry{}, err
	}

	var err error
	if e.Date, err = time.Parse(dateLayout, workDate); err != nil {
		return planilla.Entry{}, fmt.Errorf("entry %s: bad work_date %q: %w", e.ID, workDate, err)
	}
	if e.Start, err = decimal.NewFromString(start); err != nil {
		return planilla.Entry{}, fmt.Errorf("entry %s: bad start_hour %q: %w", e.ID, start, err)
	}
	if e.End, err = decimal.NewFromString(end); err != nil {
		return planilla.Entry{}, fmt.Errorf("entry %s: bad end_hour %q: %w", e.ID, end, err)
	}
	e.Plate = plate.String
	e.Notes = notes.String
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

// =============================================================================
// HOLIDAY STORE (calendar.CustomSource)
// =============================================================================

// SaveHoliday saves a custom holiday and returns it as stored. A holiday
// with the same date and name is updated in place and keeps its ID.
func (s *Store) SaveHoliday(ctx context.Context, h calendar.Holiday) (calendar.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, name) DO UPDATE SET
			recurring = excluded.recurring
		RETURNING id
	`

	var id string
	err := s.db.QueryRowContext(ctx, query,
		h.ID,
		h.Date.Format(dateLayout),
		h.Name,
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	).Scan(&id)
	if err != nil {
		return calendar.Holiday{}, err
	}

	h.ID = id
	h.Kind = calendar.KindCustom
	return h, nil
}

// DeleteHoliday deletes a custom holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return calendar.ErrHolidayNotFound
	}
	return nil
}

// ListHolidays returns every custom holiday ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, name, recurring FROM holidays ORDER BY date ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []calendar.Holiday
	for rows.Next() {
		h := calendar.Holiday{Kind: calendar.KindCustom}
		var dateStr string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		if h.Date, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("holiday %s: bad date %q: %w", h.ID, dateStr, err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"entries", "drivers", "holidays"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
