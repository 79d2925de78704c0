package planilla_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/recargo-engine/calendar"
	"github.com/warp/recargo-engine/planilla"
	"github.com/warp/recargo-engine/planilla/store"
	"github.com/warp/recargo-engine/recargo"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*planilla.Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	svc := planilla.NewService(mem, calendar.NewProvider(mem, nil), nil)
	return svc, mem
}

func newDriver(t *testing.T, svc *planilla.Service) planilla.Driver {
	t.Helper()
	d, err := svc.CreateDriver(context.Background(), planilla.Driver{Name: "Carlos Pérez", Document: "1020304050"})
	require.NoError(t, err)
	return d
}

func entry(driverID string, date time.Time, start, end float64) planilla.Entry {
	return planilla.Entry{
		DriverID: driverID,
		Date:     date,
		Start:    decimal.NewFromFloat(start),
		End:      decimal.NewFromFloat(end),
	}
}

func july(day int) time.Time {
	return time.Date(2025, time.July, day, 0, 0, 0, 0, time.UTC)
}

func hoursEqual(t *testing.T, want float64, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, decimal.NewFromFloat(want).Equal(got), "expected %v, got %s %v", want, got, msgAndArgs)
}

// =============================================================================
// DRIVERS
// =============================================================================

func TestCreateDriver_AssignsID(t *testing.T) {
	svc, _ := newTestService(t)
	d := newDriver(t, svc)

	assert.NotEmpty(t, d.ID)
	assert.False(t, d.CreatedAt.IsZero())

	got, err := svc.Driver(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carlos Pérez", got.Name)
}

func TestCreateDriver_RequiresName(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateDriver(context.Background(), planilla.Driver{Name: "  "})
	assert.ErrorIs(t, err, planilla.ErrInvalidDriver)
}

// =============================================================================
// ENTRIES
// =============================================================================

func TestRecordEntry_RejectsInvalidShift(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	d := newDriver(t, svc)

	_, err := svc.RecordEntry(ctx, entry(d.ID, july(15), 10, 10))
	assert.ErrorIs(t, err, recargo.ErrInvalidShift)

	_, err = svc.RecordEntry(ctx, entry(d.ID, july(15), 8, 17.2))
	assert.ErrorIs(t, err, recargo.ErrInvalidShift)

	entries, err := mem.ListEntries(ctx, d.ID, 2025, time.July)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected shifts are never stored")
}

func TestRecordEntry_UnknownDriver(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.RecordEntry(context.Background(), entry("nobody", july(15), 8, 17))
	assert.ErrorIs(t, err, planilla.ErrDriverNotFound)
}

func TestRecordEntry_NormalizesFields(t *testing.T) {
	svc, _ := newTestService(t)
	d := newDriver(t, svc)

	e := entry(d.ID, time.Date(2025, time.July, 15, 13, 45, 0, 0, time.UTC), 8, 17)
	e.Plate = " abc123 "
	saved, err := svc.RecordEntry(context.Background(), e)
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "ABC123", saved.Plate)
	assert.Equal(t, july(15), saved.Date)
}

func TestDeleteEntry(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	d := newDriver(t, svc)

	saved, err := svc.RecordEntry(ctx, entry(d.ID, july(15), 8, 17))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(ctx, saved.ID))
	assert.ErrorIs(t, svc.DeleteEntry(ctx, saved.ID), planilla.ErrEntryNotFound)
}

// =============================================================================
// PLANILLA
// =============================================================================

func TestMonth_SumsValidRowsOnly(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	d := newDriver(t, svc)

	_, err := svc.RecordEntry(ctx, entry(d.ID, july(20), 6, 18)) // holiday
	require.NoError(t, err)
	_, err = svc.RecordEntry(ctx, entry(d.ID, july(15), 8, 17))
	require.NoError(t, err)
	_, err = svc.RecordEntry(ctx, entry(d.ID, july(6), 22, 6)) // Sunday night
	require.NoError(t, err)

	// A legacy row that bypassed validation.
	broken := entry(d.ID, july(16), 9, 9)
	broken.ID = "legacy-1"
	require.NoError(t, mem.SaveEntry(ctx, broken))

	m, err := svc.Month(ctx, d.ID, 2025, time.July)
	require.NoError(t, err)

	assert.Equal(t, d.ID, m.Driver.ID)
	assert.Equal(t, "Carlos Pérez", m.Driver.Name)
	require.Len(t, m.Rows, 4)
	assert.Equal(t, july(6), m.Rows[0].Entry.Date, "rows ordered by date")
	assert.Equal(t, 1, m.Invalid)
	assert.ErrorIs(t, m.Rows[2].Err, recargo.ErrInvalidShift)
	assert.True(t, m.Rows[2].Totals.IsZero())

	hoursEqual(t, 1, m.Totals.HED, "HED")
	hoursEqual(t, 4, m.Totals.HEFD, "HEFD")
	hoursEqual(t, 8, m.Totals.RN, "RN")
	hoursEqual(t, 10, m.Totals.RD, "RD")
	hoursEqual(t, 29, m.Totals.TotalHours, "TotalHours")

	holidayRow := m.Rows[3]
	assert.True(t, holidayRow.Holiday)
	assert.True(t, holidayRow.Sunday)
}

func TestMonth_CustomHoliday(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	d := newDriver(t, svc)

	_, err := mem.SaveHoliday(ctx, calendar.Holiday{
		ID:   "h-1",
		Date: july(15),
		Name: "Día de la empresa",
		Kind: calendar.KindCustom,
	})
	require.NoError(t, err)
	_, err = svc.RecordEntry(ctx, entry(d.ID, july(15), 8, 17))
	require.NoError(t, err)

	m, err := svc.Month(ctx, d.ID, 2025, time.July)
	require.NoError(t, err)
	hoursEqual(t, 8, m.Totals.RD)
	hoursEqual(t, 1, m.Totals.HEFD)
	assert.True(t, m.Totals.HED.IsZero())
}

func TestMonth_NewYearsEveUsesNextYearHolidays(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	d := newDriver(t, svc)

	_, err := svc.RecordEntry(ctx, entry(d.ID, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), 20, 4))
	require.NoError(t, err)

	m, err := svc.Month(ctx, d.ID, 2025, time.December)
	require.NoError(t, err)
	hoursEqual(t, 4, m.Totals.RD, "Jan 1 2026 side is a holiday")
	hoursEqual(t, 7, m.Totals.RN)
}

func TestMonth_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Month(ctx, "nobody", 2025, time.July)
	assert.ErrorIs(t, err, planilla.ErrDriverNotFound)

	_, err = svc.Month(ctx, "nobody", 2025, 13)
	assert.ErrorIs(t, err, recargo.ErrInvalidDate)
}

func TestEvaluate_PerRowErrors(t *testing.T) {
	svc, _ := newTestService(t)

	rows, totals, err := svc.Evaluate(context.Background(), []recargo.Shift{
		recargo.NewShift(2025, time.July, 15, 8, 17),
		recargo.NewShift(2025, time.April, 31, 8, 17),
		recargo.NewShift(2025, time.July, 20, 6, 18),
		recargo.NewShift(2025, time.July, 15, 10, 10),
	})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.True(t, rows[0].Valid())
	assert.ErrorIs(t, rows[1].Err, recargo.ErrInvalidDate)
	assert.True(t, rows[2].Valid())
	assert.ErrorIs(t, rows[3].Err, recargo.ErrInvalidShift)

	hoursEqual(t, 1, totals.HED)
	hoursEqual(t, 8, totals.RD)
	hoursEqual(t, 4, totals.HEFD)
	hoursEqual(t, 21, totals.TotalHours)
}
