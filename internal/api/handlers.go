package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/seasoncal/internal/calendar"
	"github.com/zapponejosh/seasoncal/internal/config"
	"github.com/zapponejosh/seasoncal/internal/database"
	"github.com/zapponejosh/seasoncal/internal/logger"
)

// ClockStore is a game clock that can also be moved. Both the SQLite
// database and the save file implement it.
type ClockStore interface {
	calendar.Clock
	SetDate(ctx context.Context, d calendar.Date) error
	AdvanceDays(ctx context.Context, days int) (calendar.Date, error)
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db     *database.DB
	clock  ClockStore
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance. Events always live in db; the
// clock may be db itself or a save file.
func NewHandlers(db *database.DB, clock ClockStore, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		db:     db,
		clock:  clock,
		cfg:    cfg,
		logger: logger,
	}
}

// decodeJSON reads a JSON body into v. Calendar validation faults raised while
// decoding dates are reported with their own error codes.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if !writeCalendarError(w, err) {
			WriteBadRequest(w, "Invalid JSON body")
		}
		return false
	}
	return true
}

// fail writes err as a client error when it is a calendar fault and as a 500
// otherwise.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if writeCalendarError(w, err) {
		return
	}
	logger.FromContext(r.Context(), h.logger).Error(msg, slog.Any("error", err))
	WriteInternalError(w, "Failed to process request")
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}
	if _, err := h.clock.Current(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Game clock unreadable", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status":       "healthy",
		"clock_source": h.cfg.ClockSource,
	})
}

// GetNow handles GET /api/v1/date/now
func (h *Handlers) GetNow(w http.ResponseWriter, r *http.Request) {
	now, err := calendar.Now(r.Context(), h.clock)
	if err != nil {
		h.fail(w, r, "failed to read game clock", err)
		return
	}
	WriteSuccess(w, now)
}

// GetByOrdinal handles GET /api/v1/date/ordinal/{n}
func (h *Handlers) GetByOrdinal(w http.ResponseWriter, r *http.Request) {
	nStr := chi.URLParam(r, "n")
	n, err := strconv.Atoi(nStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid ordinal: %s", nStr))
		return
	}

	d, err := calendar.FromOrdinal(n)
	if err != nil {
		h.fail(w, r, "failed to convert ordinal", err)
		return
	}
	WriteSuccess(w, d)
}

type resolveRequest struct {
	Day    int    `json:"day"`
	Season string `json:"season"`
	Year   *int   `json:"year,omitempty"`
}

// ResolveDate handles POST /api/v1/date/resolve. Without a year the date is
// placed in the current in-game year; an explicit year is always validated.
func (h *Handlers) ResolveDate(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	season, err := calendar.ParseSeason(req.Season)
	if err != nil {
		writeCalendarError(w, err)
		return
	}

	var d calendar.Date
	if req.Year == nil {
		d, err = calendar.NewThisYear(r.Context(), h.clock, req.Day, season)
	} else {
		d, err = calendar.New(req.Day, season, *req.Year)
	}
	if err != nil {
		h.fail(w, r, "failed to resolve date", err)
		return
	}
	WriteSuccess(w, d)
}

type addRequest struct {
	Date calendar.Date `json:"date"`
	Days int           `json:"days"`
}

// AddDays handles POST /api/v1/date/add. A missing date means today.
func (h *Handlers) AddDays(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	from := req.Date
	if from.IsZero() {
		var err error
		if from, err = calendar.Now(r.Context(), h.clock); err != nil {
			h.fail(w, r, "failed to read game clock", err)
			return
		}
	}

	d, err := from.AddDays(req.Days)
	if err != nil {
		h.fail(w, r, "failed to add days", err)
		return
	}
	WriteSuccess(w, d)
}

type compareRequest struct {
	A calendar.Date `json:"a"`
	B calendar.Date `json:"b"`
}

type compareResponse struct {
	Comparison  int  `json:"comparison"`
	Equal       bool `json:"equal"`
	Before      bool `json:"before"`
	After       bool `json:"after"`
	DaysBetween int  `json:"days_between"`
}

// CompareDates handles POST /api/v1/date/compare
func (h *Handlers) CompareDates(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.A.IsZero() || req.B.IsZero() {
		WriteBadRequest(w, "Both dates a and b are required")
		return
	}

	WriteSuccess(w, compareResponse{
		Comparison:  calendar.Compare(req.A, req.B),
		Equal:       req.A.Equal(req.B),
		Before:      req.A.Before(req.B),
		After:       req.A.After(req.B),
		DaysBetween: calendar.DaysBetween(req.A, req.B),
	})
}

type seasonCalendar struct {
	Year   int               `json:"year"`
	Season calendar.Season   `json:"season"`
	Weeks  [][]calendar.Date `json:"weeks"`
	Events []database.Event  `json:"events"`
}

// GetSeasonCalendar handles GET /api/v1/calendar/{year}/{season}
func (h *Handlers) GetSeasonCalendar(w http.ResponseWriter, r *http.Request) {
	yearStr := chi.URLParam(r, "year")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s", yearStr))
		return
	}
	season, err := calendar.ParseSeason(chi.URLParam(r, "season"))
	if err != nil {
		writeCalendarError(w, err)
		return
	}

	dates, err := calendar.DatesInSeason(season, year)
	if err != nil {
		h.fail(w, r, "failed to build season calendar", err)
		return
	}

	events, err := h.db.EventsBetween(r.Context(), dates[0], dates[len(dates)-1])
	if err != nil {
		h.fail(w, r, "failed to list events", err)
		return
	}

	WriteSuccess(w, seasonCalendar{
		Year:   year,
		Season: season,
		Weeks:  calendar.Weeks(dates),
		Events: events,
	})
}

// SetClock handles PUT /api/v1/clock. The body is a date object.
func (h *Handlers) SetClock(w http.ResponseWriter, r *http.Request) {
	var d calendar.Date
	if !decodeJSON(w, r, &d) {
		return
	}
	if d.IsZero() {
		WriteBadRequest(w, "A date is required")
		return
	}

	if err := h.clock.SetDate(r.Context(), d); err != nil {
		h.fail(w, r, "failed to set game clock", err)
		return
	}

	logger.FromContext(r.Context(), h.logger).Info("game clock set", slog.String("date", d.String()))
	WriteSuccess(w, d)
}

type advanceRequest struct {
	Days *int `json:"days"`
}

// AdvanceClock handles POST /api/v1/clock/advance. Days defaults to 1.
func (h *Handlers) AdvanceClock(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	days := 1
	if req.Days != nil {
		days = *req.Days
	}

	d, err := h.clock.AdvanceDays(r.Context(), days)
	if err != nil {
		h.fail(w, r, "failed to advance game clock", err)
		return
	}

	logger.FromContext(r.Context(), h.logger).Info("game clock advanced",
		slog.Int("days", days),
		slog.String("date", d.String()))
	WriteSuccess(w, d)
}

// ListEvents handles GET /api/v1/events?from={ordinal}&limit={n}. Without
// from, events are listed starting today.
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	var (
		from calendar.Date
		err  error
	)
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		n, convErr := strconv.Atoi(fromStr)
		if convErr != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid from ordinal: %s", fromStr))
			return
		}
		from, err = calendar.FromOrdinal(n)
	} else {
		from, err = calendar.Now(ctx, h.clock)
	}
	if err != nil {
		h.fail(w, r, "failed to resolve start date", err)
		return
	}

	events, err := h.db.ListEvents(ctx, from, limit)
	if err != nil {
		h.fail(w, r, "failed to list events", err)
		return
	}

	WriteSuccess(w, map[string]any{
		"from":   from,
		"events": events,
	})
}

// GetEvent handles GET /api/v1/events/{id}
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	e, err := h.db.GetEvent(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Event not found")
			return
		}
		h.fail(w, r, "failed to get event", err)
		return
	}
	WriteSuccess(w, e)
}

type createEventRequest struct {
	Name  string        `json:"name"`
	Date  calendar.Date `json:"date"`
	Notes *string       `json:"notes,omitempty"`
}

// CreateEvent handles POST /api/v1/events
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		WriteBadRequest(w, "Event name is required")
		return
	}
	if req.Date.IsZero() {
		WriteBadRequest(w, "Event date is required")
		return
	}

	e := &database.Event{Name: req.Name, Date: req.Date, Notes: req.Notes}
	if err := h.db.CreateEvent(r.Context(), e); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			WriteError(w, http.StatusConflict, "An event with that name already exists on that date", "CONFLICT")
			return
		}
		h.fail(w, r, "failed to create event", err)
		return
	}

	logger.FromContext(r.Context(), h.logger).Info("event created",
		slog.Int64("id", e.ID),
		slog.String("name", e.Name),
		slog.String("date", e.Date.String()))
	WriteCreated(w, e)
}

// DeleteEvent handles DELETE /api/v1/events/{id}
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteEvent(r.Context(), id); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Event not found")
			return
		}
		h.fail(w, r, "failed to delete event", err)
		return
	}

	WriteSuccess(w, map[string]string{
		"message": "Event deleted",
	})
}

func eventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		WriteBadRequest(w, fmt.Sprintf("Invalid event ID: %s", idStr))
		return 0, false
	}
	return id, true
}
