package recargo

import "time"

// =============================================================================
// CALENDAR CLASSIFIER
// =============================================================================

// HolidaySet answers whether a date is a public holiday.
// Implementations must be safe for concurrent reads.
type HolidaySet interface {
	Contains(year int, month time.Month, day int) bool
}

// NoHolidays is an empty HolidaySet.
type NoHolidays struct{}

func (NoHolidays) Contains(int, time.Month, int) bool { return false }

// IsSunday reports whether day/month/year falls on a Sunday.
// Out-of-range values are normalized the way time.Date does.
func IsSunday(day int, month time.Month, year int) bool {
	return civil(year, month, day).Weekday() == time.Sunday
}

// IsHoliday reports whether the (normalized) date is in holidays.
// A nil set has no holidays.
func IsHoliday(day int, month time.Month, year int, holidays HolidaySet) bool {
	if holidays == nil {
		return false
	}
	d := civil(year, month, day)
	return holidays.Contains(d.Year(), d.Month(), d.Day())
}

// IsSpecialDay is IsSunday || IsHoliday. Special days earn RD/HEFD/HEFN.
func IsSpecialDay(day int, month time.Month, year int, holidays HolidaySet) bool {
	return IsSunday(day, month, year) || IsHoliday(day, month, year, holidays)
}

// ValidDate reports whether day/month/year names an existing calendar day.
func ValidDate(day int, month time.Month, year int) bool {
	if month < time.January || month > time.December || day < 1 {
		return false
	}
	d := civil(year, month, day)
	return d.Year() == year && d.Month() == month && d.Day() == day
}

func civil(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
