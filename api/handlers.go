/*
handlers.go - HTTP API handlers for the recargo engine

PURPOSE:
  Exposes the surcharge engine, the holiday calendar and the planilla
  register via REST API. Handles HTTP request/response, JSON serialization,
  and delegates to domain logic.

ENDPOINTS:
  Surcharges:
    POST   /api/recargos/compute           Classify one shift
    POST   /api/recargos/batch             Classify many shifts + sum valid rows

  Calendar:
    GET    /api/calendar/{year}/holidays   Statutory + custom holidays of a year
    GET    /api/calendar/days/{date}       Sunday / holiday / special day

  Custom holidays:
    GET    /api/holidays                   List custom holidays
    POST   /api/holidays                   Create custom holiday
    DELETE /api/holidays/{id}              Delete custom holiday

  Drivers & planilla:
    GET    /api/drivers                    List drivers
    POST   /api/drivers                    Create driver
    GET    /api/drivers/{id}               Get driver
    POST   /api/drivers/{id}/entries       Record a shift
    DELETE /api/entries/{id}               Delete a recorded shift
    GET    /api/drivers/{id}/planilla/{year}/{month}             Monthly planilla
    GET    /api/drivers/{id}/planilla/{year}/{month}/export.csv  CSV export
    GET    /api/drivers/{id}/planilla/{year}/{month}/export.pdf  PDF export

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid shift, invalid date, malformed body
  - 404: Driver, entry or custom holiday not found
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/recargo-engine/calendar"
	"github.com/warp/recargo-engine/planilla"
	"github.com/warp/recargo-engine/recargo"
	"github.com/warp/recargo-engine/report"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// HolidayStore persists custom holidays.
type HolidayStore interface {
	calendar.CustomSource
	// SaveHoliday returns the holiday as stored; its ID may differ from
	// the one given when the same date and name already exist.
	SaveHoliday(ctx context.Context, h calendar.Holiday) (calendar.Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *planilla.Service
	Calendar *calendar.Provider
	Holidays HolidayStore
	Logger   *zap.Logger
}

// NewHandler creates a new handler. logger may be nil.
func NewHandler(svc *planilla.Service, cal *calendar.Provider, holidays HolidayStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Service:  svc,
		Calendar: cal,
		Holidays: holidays,
		Logger:   logger,
	}
}

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SURCHARGE HANDLERS
// =============================================================================

// ComputeShift classifies a single shift.
// POST /api/recargos/compute
func (h *Handler) ComputeShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rows, _, err := h.Service.Evaluate(r.Context(), []recargo.Shift{req.toShift()})
	if err != nil {
		h.writeServiceError(w, "Failed to compute surcharges", err)
		return
	}
	row := rows[0]
	if !row.Valid() {
		h.writeServiceError(w, "Shift cannot be classified", row.Err)
		return
	}

	writeJSON(w, http.StatusOK, ComputeResponse{
		Totals:  toTotalsDTO(row.Totals),
		Sunday:  row.Sunday,
		Holiday: row.Holiday,
	})
}

// ComputeBatch classifies many shifts. Invalid rows carry an error and are
// left out of the totals.
// POST /api/recargos/batch
func (h *Handler) ComputeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Shifts) == 0 {
		writeError(w, http.StatusBadRequest, "At least one shift is required", nil)
		return
	}

	shifts := make([]recargo.Shift, len(req.Shifts))
	for i, s := range req.Shifts {
		shifts[i] = s.toShift()
	}

	rows, totals, err := h.Service.Evaluate(r.Context(), shifts)
	if err != nil {
		h.writeServiceError(w, "Failed to compute surcharges", err)
		return
	}

	resp := BatchResponse{Rows: make([]BatchRowDTO, len(rows)), Totals: toTotalsDTO(totals)}
	for i, row := range rows {
		dto := BatchRowDTO{Index: i}
		if row.Valid() {
			t := toTotalsDTO(row.Totals)
			dto.Totals = &t
			dto.Sunday = row.Sunday
			dto.Holiday = row.Holiday
		} else {
			dto.Error = row.Err.Error()
			resp.Invalid++
		}
		resp.Rows[i] = dto
	}

	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// ListYearHolidays returns statutory and custom holidays for a year.
// GET /api/calendar/{year}/holidays
func (h *Handler) ListYearHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	set, err := h.Calendar.HolidaySet(r.Context(), year)
	if err != nil {
		h.writeServiceError(w, "Failed to build holiday calendar", err)
		return
	}

	holidays := set.Holidays(year)
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, toHolidayDTO(hol))
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "holidays": dtos})
}

// ClassifyDay reports whether a date is a Sunday, a holiday, or both.
// GET /api/calendar/days/{date}
func (h *Handler) ClassifyDay(w http.ResponseWriter, r *http.Request) {
	d, err := time.Parse(dateLayout, chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	set, err := h.Calendar.HolidaySet(r.Context(), d.Year())
	if err != nil {
		h.writeServiceError(w, "Failed to build holiday calendar", err)
		return
	}

	day, month, year := d.Day(), d.Month(), d.Year()
	matches := set.Lookup(year, month, day)
	dtos := make([]HolidayDTO, 0, len(matches))
	for _, hol := range matches {
		dtos = append(dtos, toHolidayDTO(hol))
	}

	writeJSON(w, http.StatusOK, DayDTO{
		Date:     d.Format(dateLayout),
		Sunday:   recargo.IsSunday(day, month, year),
		Holiday:  recargo.IsHoliday(day, month, year, set),
		Special:  recargo.IsSpecialDay(day, month, year, set),
		Holidays: dtos,
	})
}

// =============================================================================
// CUSTOM HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all custom holidays.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Holidays.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, toHolidayDTO(hol))
	}
	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday creates a custom holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Date == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Date and name are required", nil)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	holiday := calendar.Holiday{
		ID:        uuid.NewString(),
		Date:      date,
		Name:      req.Name,
		Kind:      calendar.KindCustom,
		Recurring: req.Recurring,
	}
	holiday, err = h.Holidays.SaveHoliday(r.Context(), holiday)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create holiday", err)
		return
	}

	h.Logger.Info("Custom holiday created",
		zap.String("holiday_id", holiday.ID),
		zap.String("date", req.Date),
		zap.Bool("recurring", holiday.Recurring))
	writeJSON(w, http.StatusCreated, toHolidayDTO(holiday))
}

// DeleteHoliday deletes a custom holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Holidays.DeleteHoliday(r.Context(), id); err != nil {
		h.writeServiceError(w, "Failed to delete holiday", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// DRIVER HANDLERS
// =============================================================================

// ListDrivers returns all drivers.
// GET /api/drivers
func (h *Handler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.Service.Drivers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list drivers", err)
		return
	}

	dtos := make([]DriverDTO, 0, len(drivers))
	for _, d := range drivers {
		dtos = append(dtos, toDriverDTO(d))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateDriver creates a driver.
// POST /api/drivers
func (h *Handler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var req CreateDriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	d, err := h.Service.CreateDriver(r.Context(), planilla.Driver{
		Name:     req.Name,
		Document: strings.TrimSpace(req.Document),
		Company:  strings.TrimSpace(req.Company),
	})
	if err != nil {
		h.writeServiceError(w, "Failed to create driver", err)
		return
	}
	writeJSON(w, http.StatusCreated, toDriverDTO(d))
}

// GetDriver returns a single driver.
// GET /api/drivers/{id}
func (h *Handler) GetDriver(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.Driver(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Failed to get driver", err)
		return
	}
	writeJSON(w, http.StatusOK, toDriverDTO(*d))
}

// CreateEntry records a shift for a driver.
// POST /api/drivers/{id}/entries
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	e, err := h.Service.RecordEntry(r.Context(), planilla.Entry{
		DriverID: chi.URLParam(r, "id"),
		Date:     date,
		Start:    hoursFromFloat(req.Start),
		End:      hoursFromFloat(req.End),
		Plate:    req.Plate,
		Notes:    req.Notes,
	})
	if err != nil {
		h.writeServiceError(w, "Failed to record shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(e))
}

// DeleteEntry deletes a recorded shift.
// DELETE /api/entries/{id}
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, "Failed to delete entry", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// PLANILLA HANDLERS
// =============================================================================

// GetPlanilla returns a driver's monthly planilla.
// GET /api/drivers/{id}/planilla/{year}/{month}
func (h *Handler) GetPlanilla(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadPlanilla(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPlanillaDTO(m))
}

// ExportPlanillaCSV streams the planilla as CSV.
// GET /api/drivers/{id}/planilla/{year}/{month}/export.csv
func (h *Handler) ExportPlanillaCSV(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadPlanilla(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export planilla", err)
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", exportName(m, "csv"), buf.Bytes())
}

// ExportPlanillaPDF renders the planilla as PDF.
// GET /api/drivers/{id}/planilla/{year}/{month}/export.pdf
func (h *Handler) ExportPlanillaPDF(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadPlanilla(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WritePDF(&buf, m.Driver, m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export planilla", err)
		return
	}
	writeAttachment(w, "application/pdf", exportName(m, "pdf"), buf.Bytes())
}

// loadPlanilla parses the route and builds the month. On failure the error
// response has already been written.
func (h *Handler) loadPlanilla(w http.ResponseWriter, r *http.Request) (*planilla.Month, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return nil, false
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return nil, false
	}

	m, err := h.Service.Month(r.Context(), chi.URLParam(r, "id"), year, time.Month(month))
	if err != nil {
		h.writeServiceError(w, "Failed to build planilla", err)
		return nil, false
	}
	return m, true
}

func exportName(m *planilla.Month, ext string) string {
	return fmt.Sprintf("planilla-%s-%04d-%02d.%s", m.Driver.ID, m.Year, int(m.Month), ext)
}

// =============================================================================
// HELPERS
// =============================================================================

// writeServiceError maps domain errors to HTTP status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case recargo.IsClientError(err), errors.Is(err, planilla.ErrInvalidDriver):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, planilla.ErrDriverNotFound), errors.Is(err, planilla.ErrEntryNotFound),
		errors.Is(err, calendar.ErrHolidayNotFound):
		writeError(w, http.StatusNotFound, message, err)
	default:
		h.Logger.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
