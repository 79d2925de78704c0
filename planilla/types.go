/*
Package planilla keeps the recargo register: drivers, the shifts recorded
for them, and the monthly planilla computed from those shifts.

PURPOSE:
  The surcharge engine in package recargo is pure. This package is the
  thin stateful layer around it: it stores rows, recomputes every row
  from scratch when a planilla is requested, and sums the valid ones.

KEY CONCEPTS:
  - Driver:  the worker the recargos belong to
  - Entry:   one recorded shift (a row in the planilla)
  - Row:     an entry plus its computed totals or its error
  - Month:   all rows of a driver in a month plus the period totals

INVALID ROWS:
  A row whose shift cannot be classified keeps its error and is left out
  of the period totals. Other rows are unaffected.

SEE ALSO:
  - store.go: persistence port
  - store/memory.go, ../store/sqlite: implementations
*/
package planilla

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/recargo-engine/recargo"
)

// Driver is a worker whose shifts are recorded.
type Driver struct {
	ID        string
	Name      string
	Document  string // cédula
	Company   string
	CreatedAt time.Time
}

// Entry is one recorded shift. Date is the day the shift starts on.
type Entry struct {
	ID        string
	DriverID  string
	Plate     string // vehicle plate, informational
	Date      time.Time
	Start     decimal.Decimal
	End       decimal.Decimal
	Notes     string
	CreatedAt time.Time
}

// Shift converts the entry into the engine's input.
func (e Entry) Shift() recargo.Shift {
	return recargo.Shift{
		Day:   e.Date.Day(),
		Month: e.Date.Month(),
		Year:  e.Date.Year(),
		Start: e.Start,
		End:   e.End,
	}
}

// Row is an entry with its computed breakdown. Err is set when the entry
// could not be classified; Totals is zero in that case.
type Row struct {
	Entry   Entry
	Totals  recargo.Totals
	Sunday  bool
	Holiday bool
	Err     error
}

// Valid reports whether the row contributes to period totals.
func (r Row) Valid() bool { return r.Err == nil }

// Month is a driver's planilla for one calendar month.
type Month struct {
	Driver   Driver
	DriverID string
	Year     int
	Month    time.Month
	Rows     []Row
	Totals   recargo.Totals
	Invalid  int
}
