/*
colombia.go - Colombian public holiday calendar

PURPOSE:
  Produces the statutory holidays for a year. Surcharge classification
  only needs a HolidaySet; this file is where that set comes from.

HOLIDAY KINDS:
  Fixed:     always on the same date (Jan 1, May 1, Jul 20, Aug 7, Dec 8, Dec 25)
  Emiliani:  fixed date moved to the following Monday (Ley 51 de 1983)
  Easter:    offset from Easter Sunday; some of them also Monday-shifted

EXAMPLE (2025):
  Mar 19 (Wednesday) -> Mar 24 (Monday)
  Ascension: Easter Apr 20 + 43 days -> Jun 2 (Monday)

SEE ALSO:
  - set.go: HolidaySet implementation
  - provider.go: merges custom holidays
*/
package calendar

import (
	"sort"
	"time"
)

// Kind describes how a holiday date is derived.
type Kind string

const (
	KindFixed    Kind = "fixed"
	KindEmiliani Kind = "emiliani"
	KindEaster   Kind = "easter"
	KindCustom   Kind = "custom"
)

// Holiday is a non-working public or company day.
type Holiday struct {
	ID        string    // only set for custom holidays
	Date      time.Time // UTC midnight
	Name      string
	Kind      Kind
	Recurring bool // custom only: same month/day every year
}

type fixedRule struct {
	month time.Month
	day   int
	name  string
}

var fixedHolidays = []fixedRule{
	{time.January, 1, "Año Nuevo"},
	{time.May, 1, "Día del Trabajo"},
	{time.July, 20, "Día de la Independencia"},
	{time.August, 7, "Batalla de Boyacá"},
	{time.December, 8, "Inmaculada Concepción"},
	{time.December, 25, "Navidad"},
}

var emilianiHolidays = []fixedRule{
	{time.January, 6, "Reyes Magos"},
	{time.March, 19, "San José"},
	{time.June, 29, "San Pedro y San Pablo"},
	{time.August, 15, "Asunción de la Virgen"},
	{time.October, 12, "Día de la Raza"},
	{time.November, 1, "Todos los Santos"},
	{time.November, 11, "Independencia de Cartagena"},
}

type easterRule struct {
	offset int // days from Easter Sunday, already landing on the final day
	name   string
}

var easterHolidays = []easterRule{
	{-3, "Jueves Santo"},
	{-2, "Viernes Santo"},
	{43, "Ascensión del Señor"},
	{64, "Corpus Christi"},
	{71, "Sagrado Corazón"},
}

// Colombia returns the statutory holidays of year, ordered by date.
func Colombia(year int) []Holiday {
	holidays := make([]Holiday, 0, len(fixedHolidays)+len(emilianiHolidays)+len(easterHolidays))

	for _, r := range fixedHolidays {
		holidays = append(holidays, Holiday{Date: date(year, r.month, r.day), Name: r.name, Kind: KindFixed})
	}
	for _, r := range emilianiHolidays {
		holidays = append(holidays, Holiday{Date: NextMonday(date(year, r.month, r.day)), Name: r.name, Kind: KindEmiliani})
	}
	easter := Easter(year)
	for _, r := range easterHolidays {
		holidays = append(holidays, Holiday{Date: easter.AddDate(0, 0, r.offset), Name: r.name, Kind: KindEaster})
	}

	sort.SliceStable(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays
}

// Easter returns Easter Sunday of year (Gregorian, anonymous algorithm).
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return date(year, time.Month(month), day)
}

// NextMonday moves d to the following Monday; Mondays stay put.
func NextMonday(d time.Time) time.Time {
	shift := (int(time.Monday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, shift)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
