package recargo

import "github.com/shopspring/decimal"

// =============================================================================
// SHIFT NORMALIZER
// =============================================================================

// Nighttime is the clock window [21:00, 06:00) regardless of calendar day.
const (
	NightStartHour = 21
	NightEndHour   = 6
)

var (
	hoursPerDay = decimal.NewFromInt(24)
	two         = decimal.NewFromInt(2)
	one         = decimal.NewFromInt(1)
)

// HourUnit is a slice [From, To) of one clock hour covered by a shift.
// From and To are clock hours of the calendar day the unit falls on, so a
// unit after midnight has NextDay set and From/To in [0, 24).
type HourUnit struct {
	From    decimal.Decimal
	To      decimal.Decimal
	Night   bool
	NextDay bool
}

// Duration is To - From, at most one hour.
func (u HourUnit) Duration() decimal.Decimal {
	return u.To.Sub(u.From)
}

// IsNightHour reports whether clock hour h (0-23) lies in the night window.
func IsNightHour(h int) bool {
	return h >= NightStartHour || h < NightEndHour
}

// ShiftDuration returns the worked hours between start and end, wrapping
// forward past midnight when end <= start.
func ShiftDuration(start, end decimal.Decimal) (decimal.Decimal, error) {
	effEnd, crosses, err := resolve(start, end)
	if err != nil {
		return decimal.Zero, err
	}
	if crosses {
		return hoursPerDay.Sub(start).Add(effEnd), nil
	}
	return effEnd.Sub(start), nil
}

// ExpandToHourUnits decomposes a shift into clock-hour units in time order.
// Units are split at every integer hour, so each one is entirely inside or
// entirely outside the night window. The origin-day part comes first; the
// part after midnight is tagged NextDay.
func ExpandToHourUnits(start, end decimal.Decimal) ([]HourUnit, error) {
	effEnd, crosses, err := resolve(start, end)
	if err != nil {
		return nil, err
	}
	if !crosses {
		return appendUnits(nil, start, effEnd, false), nil
	}
	units := appendUnits(nil, start, hoursPerDay, false)
	return appendUnits(units, decimal.Zero, effEnd, true), nil
}

func appendUnits(units []HourUnit, from, to decimal.Decimal, nextDay bool) []HourUnit {
	cur := from
	for cur.LessThan(to) {
		hour := cur.Floor()
		next := decimal.Min(hour.Add(one), to)
		units = append(units, HourUnit{
			From:    cur,
			To:      next,
			Night:   IsNightHour(int(hour.IntPart())),
			NextDay: nextDay,
		})
		cur = next
	}
	return units
}

// resolve validates a start/end pair and returns the effective end hour on
// its own calendar day, plus whether the shift crosses midnight.
func resolve(start, end decimal.Decimal) (decimal.Decimal, bool, error) {
	if err := checkHour(start, end, start, "start"); err != nil {
		return decimal.Zero, false, err
	}
	if err := checkHour(start, end, end, "end"); err != nil {
		return decimal.Zero, false, err
	}
	if start.Equal(hoursPerDay) {
		return decimal.Zero, false, &ShiftError{Start: start, End: end, Reason: "shift cannot start at 24:00"}
	}
	if start.Equal(end) {
		return decimal.Zero, false, &ShiftError{Start: start, End: end, Reason: "zero duration"}
	}

	// 00:00 as an end hour means the shift runs until midnight.
	effEnd := end
	if end.IsZero() {
		effEnd = hoursPerDay
	}
	if effEnd.GreaterThan(start) {
		return effEnd, false, nil
	}
	return effEnd, true, nil
}

func checkHour(start, end, h decimal.Decimal, name string) error {
	if h.IsNegative() || h.GreaterThan(hoursPerDay) {
		return &ShiftError{Start: start, End: end, Reason: name + " hour outside [0, 24]"}
	}
	if !h.Mul(two).IsInteger() {
		return &ShiftError{Start: start, End: end, Reason: name + " hour not on the half-hour grid"}
	}
	return nil
}
