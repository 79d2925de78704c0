package recargo

import "github.com/shopspring/decimal"

// =============================================================================
// SURCHARGE CLASSIFIER
// =============================================================================

// OrdinaryHoursPerShift is the daily threshold: the first 8 hours of a shift
// are ordinary, anything beyond is overtime regardless of clock time.
var OrdinaryHoursPerShift = decimal.NewFromInt(8)

// ComputeShiftSurcharges classifies a shift against the holiday calendar.
// The day the shift starts on and, for midnight-crossing shifts, the next
// calendar day are classified independently.
func ComputeShiftSurcharges(s Shift, holidays HolidaySet) (Totals, error) {
	if !ValidDate(s.Day, s.Month, s.Year) {
		return Totals{}, &DateError{Year: s.Year, Month: int(s.Month), Day: s.Day}
	}
	next := s.Date().AddDate(0, 0, 1)
	specialOrigin := IsSpecialDay(s.Day, s.Month, s.Year, holidays)
	specialNext := IsSpecialDay(next.Day(), next.Month(), next.Year(), holidays)
	return ClassifyShift(s, specialOrigin, specialNext)
}

// ClassifyShift buckets a shift given the special-day status of the day it
// starts on and of the following day.
//
// Ordinary hours (the first OrdinaryHoursPerShift of the shift):
//
//	night               -> RN
//	special day         -> RD
//	night + special day -> RN and RD
//
// Overtime hours are totalled per kind of day and then split with the
// legacy subtractive identities
//
//	HED  = common overtime  - common night overtime
//	HEFD = special overtime - special night overtime
//
// with HEN and HEFN being the night overtime of each kind.
func ClassifyShift(s Shift, specialOrigin, specialNext bool) (Totals, error) {
	units, err := ExpandToHourUnits(s.Start, s.End)
	if err != nil {
		return Totals{}, err
	}
	return classifyUnits(units, specialOrigin, specialNext), nil
}

func classifyUnits(units []HourUnit, specialOrigin, specialNext bool) Totals {
	var (
		t                    Totals
		commonOvertime       decimal.Decimal
		commonNightOvertime  decimal.Decimal
		specialOvertime      decimal.Decimal
		specialNightOvertime decimal.Decimal
	)
	remaining := OrdinaryHoursPerShift

	for _, u := range units {
		special := specialOrigin
		if u.NextDay {
			special = specialNext
		}

		d := u.Duration()
		ordinary := decimal.Min(d, remaining)
		remaining = remaining.Sub(ordinary)
		overtime := d.Sub(ordinary)

		if u.Night {
			t.RN = t.RN.Add(ordinary)
		}
		if special {
			t.RD = t.RD.Add(ordinary)
			specialOvertime = specialOvertime.Add(overtime)
			if u.Night {
				specialNightOvertime = specialNightOvertime.Add(overtime)
			}
		} else {
			commonOvertime = commonOvertime.Add(overtime)
			if u.Night {
				commonNightOvertime = commonNightOvertime.Add(overtime)
			}
		}
		t.TotalHours = t.TotalHours.Add(d)
	}

	t.HEN = commonNightOvertime
	t.HED = commonOvertime.Sub(commonNightOvertime)
	t.HEFN = specialNightOvertime
	t.HEFD = specialOvertime.Sub(specialNightOvertime)
	return t
}
