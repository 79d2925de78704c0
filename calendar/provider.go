package calendar

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrHolidayNotFound is returned when a custom holiday ID doesn't exist.
var ErrHolidayNotFound = errors.New("holiday not found")

// CustomSource lists company holidays stored outside the statutory calendar.
type CustomSource interface {
	ListHolidays(ctx context.Context) ([]Holiday, error)
}

// Provider builds holiday sets from the Colombian calendar plus custom
// holidays. It keeps no state between calls.
type Provider struct {
	custom CustomSource
	logger *zap.Logger
}

// NewProvider creates a provider. custom may be nil.
func NewProvider(custom CustomSource, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{custom: custom, logger: logger}
}

// HolidaySet returns the holidays of every requested year.
func (p *Provider) HolidaySet(ctx context.Context, years ...int) (*Set, error) {
	var all []Holiday
	for _, y := range years {
		all = append(all, Colombia(y)...)
	}

	if p.custom != nil {
		custom, err := p.custom.ListHolidays(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load custom holidays: %w", err)
		}
		for _, y := range years {
			all = append(all, customInYear(custom, y)...)
		}
	}

	set := NewSet(all...)
	p.logger.Debug("Holiday set built",
		zap.Ints("years", years),
		zap.Int("dates", set.Len()))
	return set, nil
}

// customInYear projects recurring custom holidays onto year and keeps
// one-off holidays that already fall in it. A recurring Feb 29 is skipped
// in non-leap years.
func customInYear(custom []Holiday, year int) []Holiday {
	var out []Holiday
	for _, h := range custom {
		switch {
		case h.Recurring:
			d := date(year, h.Date.Month(), h.Date.Day())
			if d.Month() != h.Date.Month() {
				continue
			}
			h.Date = d
			out = append(out, h)
		case h.Date.Year() == year:
			out = append(out, h)
		}
	}
	return out
}
