package planilla

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warp/recargo-engine/calendar"
	"github.com/warp/recargo-engine/recargo"
	"go.uber.org/zap"
)

// ErrInvalidDriver is returned when a driver is missing required fields.
var ErrInvalidDriver = errors.New("invalid driver")

// HolidaySource supplies the holiday calendar for the given years.
type HolidaySource interface {
	HolidaySet(ctx context.Context, years ...int) (*calendar.Set, error)
}

// Service records shifts and builds planillas.
type Service struct {
	store    Store
	holidays HolidaySource
	logger   *zap.Logger
}

// NewService wires a store and a holiday source.
func NewService(store Store, holidays HolidaySource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, holidays: holidays, logger: logger}
}

// =============================================================================
// DRIVERS
// =============================================================================

// CreateDriver stores a new driver, assigning an ID when none is given.
func (s *Service) CreateDriver(ctx context.Context, d Driver) (Driver, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return Driver{}, fmt.Errorf("%w: name is required", ErrInvalidDriver)
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = time.Now().UTC()

	if err := s.store.SaveDriver(ctx, d); err != nil {
		return Driver{}, fmt.Errorf("failed to save driver: %w", err)
	}
	s.logger.Info("Driver created", zap.String("driver_id", d.ID))
	return d, nil
}

// Driver returns a driver or ErrDriverNotFound.
func (s *Service) Driver(ctx context.Context, id string) (*Driver, error) {
	return s.store.GetDriver(ctx, id)
}

// Drivers lists every driver.
func (s *Service) Drivers(ctx context.Context) ([]Driver, error) {
	return s.store.ListDrivers(ctx)
}

// =============================================================================
// ENTRIES
// =============================================================================

// RecordEntry validates and stores a shift for an existing driver.
// Shifts the engine would reject are never stored.
func (s *Service) RecordEntry(ctx context.Context, e Entry) (Entry, error) {
	if _, err := s.store.GetDriver(ctx, e.DriverID); err != nil {
		return Entry{}, err
	}

	e.Date = time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.UTC)
	if err := validateEntry(e); err != nil {
		return Entry{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Plate = strings.ToUpper(strings.TrimSpace(e.Plate))
	e.CreatedAt = time.Now().UTC()

	if err := s.store.SaveEntry(ctx, e); err != nil {
		return Entry{}, fmt.Errorf("failed to save entry: %w", err)
	}
	s.logger.Info("Entry recorded",
		zap.String("entry_id", e.ID),
		zap.String("driver_id", e.DriverID),
		zap.String("date", e.Date.Format("2006-01-02")),
		zap.String("start", e.Start.String()),
		zap.String("end", e.End.String()))
	return e, nil
}

// DeleteEntry removes an entry or returns ErrEntryNotFound.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	return s.store.DeleteEntry(ctx, id)
}

func validateEntry(e Entry) error {
	sh := e.Shift()
	if !recargo.ValidDate(sh.Day, sh.Month, sh.Year) {
		return &recargo.DateError{Year: sh.Year, Month: int(sh.Month), Day: sh.Day}
	}
	_, err := recargo.ShiftDuration(sh.Start, sh.End)
	return err
}

// =============================================================================
// PLANILLA
// =============================================================================

// Month builds a driver's planilla: every row is recomputed, invalid rows
// keep their error and are excluded from Totals.
func (s *Service) Month(ctx context.Context, driverID string, year int, month time.Month) (*Month, error) {
	if month < time.January || month > time.December {
		return nil, &recargo.DateError{Year: year, Month: int(month), Day: 1}
	}
	driver, err := s.store.GetDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.ListEntries(ctx, driverID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	// The next year is needed when a Dec 31 shift crosses midnight.
	set, err := s.holidays.HolidaySet(ctx, year, year+1)
	if err != nil {
		return nil, err
	}

	rows, totals, invalid := evaluate(entries, set)
	if invalid > 0 {
		s.logger.Warn("Planilla has invalid rows",
			zap.String("driver_id", driverID),
			zap.Int("year", year),
			zap.Int("month", int(month)),
			zap.Int("invalid", invalid))
	}

	return &Month{
		Driver:   *driver,
		DriverID: driverID,
		Year:     year,
		Month:    month,
		Rows:     rows,
		Totals:   totals,
		Invalid:  invalid,
	}, nil
}

// Evaluate computes ad hoc shifts that are not stored. The result has one
// row per shift in input order plus the sum of the valid rows.
func (s *Service) Evaluate(ctx context.Context, shifts []recargo.Shift) ([]Row, recargo.Totals, error) {
	entries := make([]Entry, len(shifts))
	years := map[int]bool{}
	for i, sh := range shifts {
		entries[i] = Entry{
			Date:  time.Date(sh.Year, sh.Month, sh.Day, 0, 0, 0, 0, time.UTC),
			Start: sh.Start,
			End:   sh.End,
		}
		years[sh.Year] = true
		years[sh.Year+1] = true
	}

	yearList := make([]int, 0, len(years))
	for y := range years {
		yearList = append(yearList, y)
	}
	sort.Ints(yearList)

	set, err := s.holidays.HolidaySet(ctx, yearList...)
	if err != nil {
		return nil, recargo.Totals{}, err
	}

	// Entry.Date normalizes invalid days, so evaluate from the raw shift.
	rows := make([]Row, len(shifts))
	valid := make([]recargo.Totals, 0, len(shifts))
	for i, sh := range shifts {
		rows[i] = evaluateShift(entries[i], sh, set)
		if rows[i].Valid() {
			valid = append(valid, rows[i].Totals)
		}
	}
	return rows, recargo.SumShiftTotals(valid...), nil
}

func evaluate(entries []Entry, set recargo.HolidaySet) ([]Row, recargo.Totals, int) {
	rows := make([]Row, len(entries))
	valid := make([]recargo.Totals, 0, len(entries))
	invalid := 0
	for i, e := range entries {
		rows[i] = evaluateShift(e, e.Shift(), set)
		if rows[i].Valid() {
			valid = append(valid, rows[i].Totals)
		} else {
			invalid++
		}
	}
	return rows, recargo.SumShiftTotals(valid...), invalid
}

func evaluateShift(e Entry, sh recargo.Shift, set recargo.HolidaySet) Row {
	totals, err := recargo.ComputeShiftSurcharges(sh, set)
	if err != nil {
		return Row{Entry: e, Err: err}
	}
	return Row{
		Entry:   e,
		Totals:  totals,
		Sunday:  recargo.IsSunday(sh.Day, sh.Month, sh.Year),
		Holiday: recargo.IsHoliday(sh.Day, sh.Month, sh.Year, set),
	}
}
