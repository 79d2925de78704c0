/*
Package recargo computes Colombian labor surcharges ("recargos") for driver
shifts.

PURPOSE:
  Given the calendar day a shift starts on, its start/end hour and the
  holiday calendar, determine how many hours fall into each of the six
  legal surcharge buckets (HED, HEN, HEFD, HEFN, RN, RD).

LAYERS:
  1. Calendar classifier (calendar.go): Sunday / holiday / special day
  2. Shift normalizer (shift.go):       decimal hours -> clock-hour units
  3. Classifier (classify.go):          units -> bucket totals
  4. Aggregator (totals.go):            field-wise sum across shifts

DESIGN PRINCIPLES:
  1. Pure: every function depends only on its arguments, no package state
  2. Precision: hours are decimal.Decimal, never float64
  3. Strict: invalid input is reported, never clamped

USAGE:
  shift := recargo.NewShift(2025, time.July, 20, 6, 18)
  totals, err := recargo.ComputeShiftSurcharges(shift, holidays)
  // totals.RD == 8, totals.HEFD == 4

SEE ALSO:
  - calendar/: HolidaySet provider with the Colombian calendar
  - planilla/: monthly aggregation over recorded shifts
*/
package recargo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BUCKETS
// =============================================================================

// Bucket identifies one of the six surcharge categories.
type Bucket string

const (
	HED  Bucket = "HED"  // Ordinary daytime overtime
	HEN  Bucket = "HEN"  // Ordinary nighttime overtime
	HEFD Bucket = "HEFD" // Sunday/holiday daytime overtime
	HEFN Bucket = "HEFN" // Sunday/holiday nighttime overtime
	RN   Bucket = "RN"   // Night differential on ordinary hours
	RD   Bucket = "RD"   // Sunday/holiday differential on ordinary hours
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{HED, HEN, HEFD, HEFN, RN, RD}

// Multiplier returns the legal surcharge percentage as a fraction.
// Informational only: the engine never converts hours to money.
func (b Bucket) Multiplier() decimal.Decimal {
	switch b {
	case HED:
		return decimal.RequireFromString("0.25")
	case HEN:
		return decimal.RequireFromString("0.75")
	case HEFD:
		return decimal.RequireFromString("1.00")
	case HEFN:
		return decimal.RequireFromString("1.50")
	case RN:
		return decimal.RequireFromString("0.35")
	case RD:
		return decimal.RequireFromString("0.75")
	default:
		return decimal.Zero
	}
}

// Description returns the Spanish label used on planillas.
func (b Bucket) Description() string {
	switch b {
	case HED:
		return "Hora extra diurna"
	case HEN:
		return "Hora extra nocturna"
	case HEFD:
		return "Hora extra festiva diurna"
	case HEFN:
		return "Hora extra festiva nocturna"
	case RN:
		return "Recargo nocturno"
	case RD:
		return "Recargo dominical/festivo"
	default:
		return string(b)
	}
}

// =============================================================================
// SHIFT - One worker's labor interval on one calendar day
// =============================================================================

// Shift is a working interval that starts on Year-Month-Day.
// End < Start means the shift crosses midnight into the next day.
type Shift struct {
	Day   int
	Month time.Month
	Year  int
	Start decimal.Decimal
	End   decimal.Decimal
}

// NewShift builds a shift from float hours (e.g. 8.5 for 08:30).
func NewShift(year int, month time.Month, day int, start, end float64) Shift {
	return Shift{
		Day:   day,
		Month: month,
		Year:  year,
		Start: decimal.NewFromFloat(start),
		End:   decimal.NewFromFloat(end),
	}
}

// Date returns the calendar day the shift starts on.
func (s Shift) Date() time.Time {
	return time.Date(s.Year, s.Month, s.Day, 0, 0, 0, 0, time.UTC)
}

func (s Shift) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %s-%s", s.Year, s.Month, s.Day, s.Start, s.End)
}

// =============================================================================
// TOTALS - Bucket breakdown for one shift or a whole period
// =============================================================================

// Totals holds hour counts per bucket plus the total worked hours.
// RN and RD are independent of the overtime buckets, so the six buckets
// do not necessarily sum to TotalHours.
type Totals struct {
	HED        decimal.Decimal
	HEN        decimal.Decimal
	HEFD       decimal.Decimal
	HEFN       decimal.Decimal
	RN         decimal.Decimal
	RD         decimal.Decimal
	TotalHours decimal.Decimal
}

// Add returns the field-wise sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		HED:        t.HED.Add(o.HED),
		HEN:        t.HEN.Add(o.HEN),
		HEFD:       t.HEFD.Add(o.HEFD),
		HEFN:       t.HEFN.Add(o.HEFN),
		RN:         t.RN.Add(o.RN),
		RD:         t.RD.Add(o.RD),
		TotalHours: t.TotalHours.Add(o.TotalHours),
	}
}

// Get returns the hours recorded for bucket b.
func (t Totals) Get(b Bucket) decimal.Decimal {
	switch b {
	case HED:
		return t.HED
	case HEN:
		return t.HEN
	case HEFD:
		return t.HEFD
	case HEFN:
		return t.HEFN
	case RN:
		return t.RN
	case RD:
		return t.RD
	default:
		return decimal.Zero
	}
}

// OvertimeHours is HED + HEN + HEFD + HEFN.
func (t Totals) OvertimeHours() decimal.Decimal {
	return t.HED.Add(t.HEN).Add(t.HEFD).Add(t.HEFN)
}

// OrdinaryHours is the non-overtime part of TotalHours.
func (t Totals) OrdinaryHours() decimal.Decimal {
	return t.TotalHours.Sub(t.OvertimeHours())
}

// Equal compares every field numerically.
func (t Totals) Equal(o Totals) bool {
	for _, b := range Buckets {
		if !t.Get(b).Equal(o.Get(b)) {
			return false
		}
	}
	return t.TotalHours.Equal(o.TotalHours)
}

// IsZero is true when no hours were recorded at all.
func (t Totals) IsZero() bool {
	return t.Equal(Totals{})
}
