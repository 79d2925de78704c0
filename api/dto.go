/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Hours travel as JSON
  numbers (8.5 = 08:30) and are converted to decimals at the boundary.
  Every valid hour value sits on the half-hour grid, so the float64 form
  is exact.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/recargo-engine/calendar"
	"github.com/warp/recargo-engine/planilla"
	"github.com/warp/recargo-engine/recargo"
)

const dateLayout = "2006-01-02"

// =============================================================================
// SURCHARGES
// =============================================================================

// ShiftRequest is one shift to classify. End < Start crosses midnight.
type ShiftRequest struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Day   int     `json:"day"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (r ShiftRequest) toShift() recargo.Shift {
	return recargo.NewShift(r.Year, time.Month(r.Month), r.Day, r.Start, r.End)
}

// BatchRequest classifies several shifts at once.
type BatchRequest struct {
	Shifts []ShiftRequest `json:"shifts"`
}

// TotalsDTO is the bucket breakdown in hours.
type TotalsDTO struct {
	HED        float64 `json:"HED"`
	HEN        float64 `json:"HEN"`
	HEFD       float64 `json:"HEFD"`
	HEFN       float64 `json:"HEFN"`
	RN         float64 `json:"RN"`
	RD         float64 `json:"RD"`
	TotalHours float64 `json:"total_hours"`
}

func toTotalsDTO(t recargo.Totals) TotalsDTO {
	return TotalsDTO{
		HED:        t.HED.InexactFloat64(),
		HEN:        t.HEN.InexactFloat64(),
		HEFD:       t.HEFD.InexactFloat64(),
		HEFN:       t.HEFN.InexactFloat64(),
		RN:         t.RN.InexactFloat64(),
		RD:         t.RD.InexactFloat64(),
		TotalHours: t.TotalHours.InexactFloat64(),
	}
}

// ComputeResponse is the result for a single shift.
type ComputeResponse struct {
	Totals  TotalsDTO `json:"totals"`
	Sunday  bool      `json:"sunday"`
	Holiday bool      `json:"holiday"`
}

// BatchRowDTO is one batch row. Totals is nil when Error is set.
type BatchRowDTO struct {
	Index   int        `json:"index"`
	Totals  *TotalsDTO `json:"totals,omitempty"`
	Sunday  bool       `json:"sunday"`
	Holiday bool       `json:"holiday"`
	Error   string     `json:"error,omitempty"`
}

// BatchResponse holds per-row results and the sum of the valid rows.
type BatchResponse struct {
	Rows    []BatchRowDTO `json:"rows"`
	Totals  TotalsDTO     `json:"totals"`
	Invalid int           `json:"invalid"`
}

// =============================================================================
// CALENDAR
// =============================================================================

// HolidayDTO represents a statutory or custom holiday.
type HolidayDTO struct {
	ID        string `json:"id,omitempty"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Recurring bool   `json:"recurring,omitempty"`
}

func toHolidayDTO(h calendar.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:        h.ID,
		Date:      h.Date.Format(dateLayout),
		Name:      h.Name,
		Kind:      string(h.Kind),
		Recurring: h.Recurring,
	}
}

// CreateHolidayRequest adds a custom holiday.
type CreateHolidayRequest struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// DayDTO classifies one calendar day.
type DayDTO struct {
	Date     string       `json:"date"`
	Sunday   bool         `json:"sunday"`
	Holiday  bool         `json:"holiday"`
	Special  bool         `json:"special"`
	Holidays []HolidayDTO `json:"holidays"`
}

// =============================================================================
// DRIVERS & PLANILLA
// =============================================================================

// DriverDTO represents a driver in API responses.
type DriverDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Document  string `json:"document,omitempty"`
	Company   string `json:"company,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toDriverDTO(d planilla.Driver) DriverDTO {
	return DriverDTO{
		ID:        d.ID,
		Name:      d.Name,
		Document:  d.Document,
		Company:   d.Company,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}

// CreateDriverRequest is the request body for creating a driver.
type CreateDriverRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Company  string `json:"company"`
}

// CreateEntryRequest records a shift for a driver.
type CreateEntryRequest struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Plate string  `json:"plate"`
	Notes string  `json:"notes"`
}

// EntryDTO represents a recorded shift.
type EntryDTO struct {
	ID       string  `json:"id"`
	DriverID string  `json:"driver_id"`
	Date     string  `json:"date"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Plate    string  `json:"plate,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

func toEntryDTO(e planilla.Entry) EntryDTO {
	return EntryDTO{
		ID:       e.ID,
		DriverID: e.DriverID,
		Date:     e.Date.Format(dateLayout),
		Start:    e.Start.InexactFloat64(),
		End:      e.End.InexactFloat64(),
		Plate:    e.Plate,
		Notes:    e.Notes,
	}
}

// PlanillaRowDTO is one recorded shift with its surcharges.
type PlanillaRowDTO struct {
	Entry   EntryDTO   `json:"entry"`
	Totals  *TotalsDTO `json:"totals,omitempty"`
	Sunday  bool       `json:"sunday"`
	Holiday bool       `json:"holiday"`
	Error   string     `json:"error,omitempty"`
}

// PlanillaDTO is a driver's monthly planilla.
type PlanillaDTO struct {
	Driver  DriverDTO        `json:"driver"`
	Year    int              `json:"year"`
	Month   int              `json:"month"`
	Rows    []PlanillaRowDTO `json:"rows"`
	Totals  TotalsDTO        `json:"totals"`
	Invalid int              `json:"invalid"`
}

func toPlanillaDTO(m *planilla.Month) PlanillaDTO {
	rows := make([]PlanillaRowDTO, 0, len(m.Rows))
	for _, row := range m.Rows {
		dto := PlanillaRowDTO{Entry: toEntryDTO(row.Entry)}
		if row.Valid() {
			t := toTotalsDTO(row.Totals)
			dto.Totals = &t
			dto.Sunday = row.Sunday
			dto.Holiday = row.Holiday
		} else {
			dto.Error = row.Err.Error()
		}
		rows = append(rows, dto)
	}
	return PlanillaDTO{
		Driver:  toDriverDTO(m.Driver),
		Year:    m.Year,
		Month:   int(m.Month),
		Rows:    rows,
		Totals:  toTotalsDTO(m.Totals),
		Invalid: m.Invalid,
	}
}

// =============================================================================
// COMMON
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func hoursFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
