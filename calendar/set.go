package calendar

import (
	"sort"
	"time"
)

// Set is a read-only lookup of holidays across one or more years.
// It implements recargo.HolidaySet.
type Set struct {
	byDate map[time.Time][]Holiday
}

// NewSet indexes holidays by date. Several holidays may share a date
// (e.g. San Pedro and Sagrado Corazón both on 2025-06-30).
func NewSet(holidays ...Holiday) *Set {
	s := &Set{byDate: make(map[time.Time][]Holiday, len(holidays))}
	for _, h := range holidays {
		d := date(h.Date.Year(), h.Date.Month(), h.Date.Day())
		h.Date = d
		s.byDate[d] = append(s.byDate[d], h)
	}
	return s
}

// ColombiaSet builds the statutory set for the given years.
func ColombiaSet(years ...int) *Set {
	var all []Holiday
	for _, y := range years {
		all = append(all, Colombia(y)...)
	}
	return NewSet(all...)
}

// Contains reports whether year-month-day is a holiday.
func (s *Set) Contains(year int, month time.Month, day int) bool {
	if s == nil {
		return false
	}
	_, ok := s.byDate[date(year, month, day)]
	return ok
}

// Lookup returns the holidays on a date, if any.
func (s *Set) Lookup(year int, month time.Month, day int) []Holiday {
	if s == nil {
		return nil
	}
	return s.byDate[date(year, month, day)]
}

// Holidays returns every holiday of year ordered by date, then name.
func (s *Set) Holidays(year int) []Holiday {
	if s == nil {
		return nil
	}
	var out []Holiday
	for d, hs := range s.byDate {
		if d.Year() == year {
			out = append(out, hs...)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].Name < out[j].Name
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Len is the number of distinct holiday dates.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byDate)
}
