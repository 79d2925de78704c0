package recargo

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidShift is returned when start/end hours are outside [0, 24],
	// off the half-hour grid, or yield a non-positive duration.
	ErrInvalidShift = errors.New("invalid shift")

	// ErrInvalidDate is returned when day/month/year is not a real calendar date.
	ErrInvalidDate = errors.New("invalid date")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ShiftError explains why a start/end pair was rejected.
type ShiftError struct {
	Start  decimal.Decimal
	End    decimal.Decimal
	Reason string
}

func (e *ShiftError) Error() string {
	return fmt.Sprintf("invalid shift %s-%s: %s", e.Start, e.End, e.Reason)
}

func (e *ShiftError) Unwrap() error {
	return ErrInvalidShift
}

// DateError reports a day/month/year that does not exist.
type DateError struct {
	Year  int
	Month int
	Day   int
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %04d-%02d-%02d", e.Year, e.Month, e.Day)
}

func (e *DateError) Unwrap() error {
	return ErrInvalidDate
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidShift) || errors.Is(err, ErrInvalidDate)
}
