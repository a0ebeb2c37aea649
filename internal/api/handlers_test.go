package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/zapponejosh/seasoncal/internal/calendar"
	"github.com/zapponejosh/seasoncal/internal/config"
	"github.com/zapponejosh/seasoncal/internal/database"
	"github.com/zapponejosh/seasoncal/internal/logger"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

const testAPIKey = "test-key-for-game-master-endpoints"

// testEnv holds a migrated database, config and the full router.
type testEnv struct {
	db     *database.DB
	cfg    *config.Config
	router http.Handler
}

// setupTest creates a fresh test environment. The clock is stored in SQLite
// and starts at 1 spring, year 1.
func setupTest(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}, logger.Discard())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	cfg := &config.Config{
		Port:         8080,
		Env:          config.EnvProduction,
		ClockSource:  config.ClockSQLite,
		DatabasePath: ":memory:",
		APIKey:       testAPIKey,
		LogLevel:     "error",
		LogFormat:    "text",
	}

	handlers := NewHandlers(db, db, cfg, logger.Discard())

	return &testEnv{
		db:     db,
		cfg:    cfg,
		router: SetupRoutes(handlers, cfg, logger.Discard()),
	}
}

// setClock moves the stored game clock.
func (env *testEnv) setClock(t *testing.T, d calendar.Date) {
	t.Helper()
	if err := env.db.SetDate(context.Background(), d); err != nil {
		t.Fatalf("set clock: %v", err)
	}
}

// do sends a request through the router.
func (env *testEnv) do(method, path string, body any, apiKey string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, makeRequest(method, path, body, apiKey))
	return rr
}

// makeRequest is a helper to make HTTP requests with optional API key.
// A string body is sent verbatim.
func makeRequest(method, path string, body any, apiKey string) *http.Request {
	var bodyReader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		bodyReader = strings.NewReader(b)
	default:
		jsonData, _ := json.Marshal(b)
		bodyReader = bytes.NewReader(jsonData)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	return req
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

type dateView struct {
	Day       int    `json:"day"`
	Season    string `json:"season"`
	Year      int    `json:"year"`
	DayOfWeek string `json:"day_of_week"`
	Ordinal   int    `json:"ordinal"`
}

// parseResponse decodes the envelope and, when data is non-nil, its payload.
func parseResponse(t *testing.T, rr *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v, body: %s", err, rr.Body.String())
	}
	if data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v, data: %s", err, env.Data)
		}
	}
	return env
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, want, rr.Body.String())
	}
}

func expectErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, rr, status)
	env := parseResponse(t, rr, nil)
	if env.Success {
		t.Error("Success = true, want false")
	}
	if env.Error == nil || env.Error.Code != code {
		t.Errorf("Error = %+v, want code %s", env.Error, code)
	}
}

func dateBody(d calendar.Date) map[string]any {
	return map[string]any{"day": d.Day(), "season": string(d.Season()), "year": d.Year()}
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{Env: config.EnvProduction, APIKey: testAPIKey}

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"valid key", testAPIKey, http.StatusOK},
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "not-the-key", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(cfg, logger.Discard())(okHandler())
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, makeRequest("POST", "/test", nil, tt.key))
			if rr.Code != tt.want {
				t.Errorf("Status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestAuthMiddleware_DevelopmentWithoutKey(t *testing.T) {
	cfg := &config.Config{Env: config.EnvDevelopment}

	handler := AuthMiddleware(cfg, logger.Discard())(okHandler())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, makeRequest("POST", "/test", nil, ""))

	if rr.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, makeRequest("GET", "/", nil, ""))
	if seen == "" || rr.Header().Get("X-Request-ID") != seen {
		t.Errorf("request id = %q, header = %q", seen, rr.Header().Get("X-Request-ID"))
	}

	req := makeRequest("GET", "/", nil, "")
	req.Header.Set("X-Request-ID", "from-client")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "from-client" {
		t.Errorf("request id = %q, want caller's id", seen)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, makeRequest("GET", "/", nil, ""))
	expectErrorCode(t, rr, http.StatusInternalServerError, "INTERNAL_ERROR")
}

func TestCORSPreflight(t *testing.T) {
	env := setupTest(t)

	rr := env.do("OPTIONS", "/api/v1/events", nil, "")
	expectStatus(t, rr, http.StatusNoContent)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

// =============================================================================
// DATE ENDPOINT TESTS
// =============================================================================

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)

	rr := env.do("GET", "/health", nil, "")
	expectStatus(t, rr, http.StatusOK)

	var data map[string]string
	parseResponse(t, rr, &data)
	if data["status"] != "healthy" || data["clock_source"] != config.ClockSQLite {
		t.Errorf("data = %v", data)
	}
}

func TestGetNow(t *testing.T) {
	env := setupTest(t)
	env.setClock(t, calendar.MustNew(9, calendar.Summer, 3))

	rr := env.do("GET", "/api/v1/date/now", nil, "")
	expectStatus(t, rr, http.StatusOK)

	var got dateView
	parseResponse(t, rr, &got)
	want := dateView{Day: 9, Season: "summer", Year: 3, DayOfWeek: "Tuesday", Ordinal: 2*112 + 28 + 9}
	if got != want {
		t.Errorf("now = %+v, want %+v", got, want)
	}
}

func TestGetByOrdinal(t *testing.T) {
	env := setupTest(t)

	rr := env.do("GET", "/api/v1/date/ordinal/113", nil, "")
	expectStatus(t, rr, http.StatusOK)
	var got dateView
	parseResponse(t, rr, &got)
	if got.Day != 1 || got.Season != "spring" || got.Year != 2 {
		t.Errorf("ordinal 113 = %+v, want 1 spring Y2", got)
	}

	expectErrorCode(t, env.do("GET", "/api/v1/date/ordinal/0", nil, ""), http.StatusBadRequest, "ORDINAL_UNDERFLOW")
	expectErrorCode(t, env.do("GET", "/api/v1/date/ordinal/abc", nil, ""), http.StatusBadRequest, "BAD_REQUEST")
}

func TestResolveDate(t *testing.T) {
	env := setupTest(t)
	env.setClock(t, calendar.MustNew(20, calendar.Winter, 4))

	tests := []struct {
		name     string
		body     any
		wantYear int
		wantCode string
	}{
		{"explicit year", map[string]any{"day": 3, "season": "fall", "year": 2}, 2, ""},
		{"this year", map[string]any{"day": 3, "season": "Fall"}, 4, ""},
		{"bad season", map[string]any{"day": 3, "season": "monsoon", "year": 2}, 0, "INVALID_SEASON"},
		{"missing season", map[string]any{"day": 3, "year": 2}, 0, "INVALID_SEASON"},
		{"bad day", map[string]any{"day": 29, "season": "fall", "year": 2}, 0, "INVALID_DAY"},
		{"bad year", map[string]any{"day": 3, "season": "fall", "year": -1}, 0, "INVALID_YEAR"},
		{"explicit year zero", map[string]any{"day": 3, "season": "fall", "year": 0}, 0, "INVALID_YEAR"},
		{"null year", map[string]any{"day": 3, "season": "fall", "year": nil}, 4, ""},
		{"bad json", "{", 0, "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do("POST", "/api/v1/date/resolve", tt.body, "")
			if tt.wantCode != "" {
				expectErrorCode(t, rr, http.StatusBadRequest, tt.wantCode)
				return
			}
			expectStatus(t, rr, http.StatusOK)
			var got dateView
			parseResponse(t, rr, &got)
			if got.Day != 3 || got.Season != "fall" || got.Year != tt.wantYear {
				t.Errorf("resolved = %+v, want 3 fall Y%d", got, tt.wantYear)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	env := setupTest(t)
	env.setClock(t, calendar.MustNew(28, calendar.Winter, 1))

	// Without a date, days are added to today.
	rr := env.do("POST", "/api/v1/date/add", map[string]any{"days": 1}, "")
	expectStatus(t, rr, http.StatusOK)
	var got dateView
	parseResponse(t, rr, &got)
	if got.Day != 1 || got.Season != "spring" || got.Year != 2 {
		t.Errorf("today + 1 = %+v, want 1 spring Y2", got)
	}

	body := map[string]any{"date": dateBody(calendar.MustNew(5, calendar.Summer, 1)), "days": -10}
	rr = env.do("POST", "/api/v1/date/add", body, "")
	expectStatus(t, rr, http.StatusOK)
	parseResponse(t, rr, &got)
	if got.Day != 23 || got.Season != "spring" || got.Year != 1 {
		t.Errorf("5 summer - 10 = %+v, want 23 spring Y1", got)
	}

	body = map[string]any{"date": dateBody(calendar.MustNew(5, calendar.Spring, 1)), "days": -5}
	expectErrorCode(t, env.do("POST", "/api/v1/date/add", body, ""), http.StatusBadRequest, "RESULT_BEFORE_EPOCH")

	body = map[string]any{"date": map[string]any{"day": 0, "season": "spring", "year": 1}, "days": 1}
	expectErrorCode(t, env.do("POST", "/api/v1/date/add", body, ""), http.StatusBadRequest, "INVALID_DAY")

	body = map[string]any{"date": dateBody(calendar.MustNew(2, calendar.Spring, 1)), "days": math.MaxInt}
	expectErrorCode(t, env.do("POST", "/api/v1/date/add", body, ""), http.StatusBadRequest, "OUT_OF_RANGE")
}

func TestCompareDates(t *testing.T) {
	env := setupTest(t)

	a := calendar.MustNew(28, calendar.Fall, 2)
	b := calendar.MustNew(1, calendar.Winter, 2)

	rr := env.do("POST", "/api/v1/date/compare", map[string]any{"a": dateBody(a), "b": dateBody(b)}, "")
	expectStatus(t, rr, http.StatusOK)

	var got compareResponse
	parseResponse(t, rr, &got)
	want := compareResponse{Comparison: -1, Before: true, DaysBetween: 1}
	if got != want {
		t.Errorf("compare = %+v, want %+v", got, want)
	}

	rr = env.do("POST", "/api/v1/date/compare", map[string]any{"a": dateBody(a)}, "")
	expectErrorCode(t, rr, http.StatusBadRequest, "BAD_REQUEST")
}

func TestGetSeasonCalendar(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	for _, e := range []*database.Event{
		{Name: "Luau", Date: calendar.MustNew(11, calendar.Summer, 1)},
		{Name: "Moonlight Jellies", Date: calendar.MustNew(28, calendar.Summer, 1)},
		{Name: "Harvest Fair", Date: calendar.MustNew(16, calendar.Fall, 1)},
	} {
		if err := env.db.CreateEvent(ctx, e); err != nil {
			t.Fatalf("create event: %v", err)
		}
	}

	rr := env.do("GET", "/api/v1/calendar/1/Summer", nil, "")
	expectStatus(t, rr, http.StatusOK)

	var got struct {
		Year   int          `json:"year"`
		Season string       `json:"season"`
		Weeks  [][]dateView `json:"weeks"`
		Events []struct {
			Name string `json:"name"`
		} `json:"events"`
	}
	parseResponse(t, rr, &got)

	if got.Year != 1 || got.Season != "summer" {
		t.Errorf("header = %d %s", got.Year, got.Season)
	}
	if len(got.Weeks) != 4 {
		t.Fatalf("weeks = %d, want 4", len(got.Weeks))
	}
	for i, week := range got.Weeks {
		if len(week) != 7 || week[0].DayOfWeek != "Monday" || week[6].DayOfWeek != "Sunday" {
			t.Errorf("week %d = %+v", i, week)
		}
	}
	if len(got.Events) != 2 || got.Events[0].Name != "Luau" {
		t.Errorf("events = %+v, want Luau and Moonlight Jellies", got.Events)
	}

	expectErrorCode(t, env.do("GET", "/api/v1/calendar/1/monsoon", nil, ""), http.StatusBadRequest, "INVALID_SEASON")
	expectErrorCode(t, env.do("GET", "/api/v1/calendar/0/spring", nil, ""), http.StatusBadRequest, "INVALID_YEAR")
}

// =============================================================================
// CLOCK ENDPOINT TESTS
// =============================================================================

func TestSetClock(t *testing.T) {
	env := setupTest(t)
	body := dateBody(calendar.MustNew(14, calendar.Fall, 2))

	expectStatus(t, env.do("PUT", "/api/v1/clock", body, ""), http.StatusUnauthorized)

	rr := env.do("PUT", "/api/v1/clock", body, testAPIKey)
	expectStatus(t, rr, http.StatusOK)

	now, err := calendar.Now(context.Background(), env.db)
	if err != nil {
		t.Fatalf("Now: %v", err)
	}
	if now.String() != "14 fall Y2" {
		t.Errorf("clock = %s, want 14 fall Y2", now)
	}

	rr = env.do("PUT", "/api/v1/clock", map[string]any{"day": 1, "season": "autumn", "year": 1}, testAPIKey)
	expectErrorCode(t, rr, http.StatusBadRequest, "INVALID_SEASON")

	expectErrorCode(t, env.do("PUT", "/api/v1/clock", "null", testAPIKey), http.StatusBadRequest, "BAD_REQUEST")
}

func TestAdvanceClock(t *testing.T) {
	env := setupTest(t)
	env.setClock(t, calendar.MustNew(27, calendar.Winter, 1))

	rr := env.do("POST", "/api/v1/clock/advance", nil, testAPIKey)
	expectStatus(t, rr, http.StatusOK)
	var got dateView
	parseResponse(t, rr, &got)
	if got.Day != 28 || got.Season != "winter" {
		t.Errorf("advance default = %+v, want 28 winter", got)
	}

	rr = env.do("POST", "/api/v1/clock/advance", map[string]any{"days": 2}, testAPIKey)
	expectStatus(t, rr, http.StatusOK)
	parseResponse(t, rr, &got)
	if got.Day != 2 || got.Season != "spring" || got.Year != 2 {
		t.Errorf("advance 2 = %+v, want 2 spring Y2", got)
	}

	rr = env.do("POST", "/api/v1/clock/advance", map[string]any{"days": -500}, testAPIKey)
	expectErrorCode(t, rr, http.StatusBadRequest, "RESULT_BEFORE_EPOCH")
}

// =============================================================================
// EVENT ENDPOINT TESTS
// =============================================================================

func TestEventsLifecycle(t *testing.T) {
	env := setupTest(t)

	create := map[string]any{
		"name":  "Egg Festival",
		"date":  dateBody(calendar.MustNew(13, calendar.Spring, 1)),
		"notes": "find the eggs",
	}

	expectStatus(t, env.do("POST", "/api/v1/events", create, ""), http.StatusUnauthorized)

	rr := env.do("POST", "/api/v1/events", create, testAPIKey)
	expectStatus(t, rr, http.StatusCreated)

	var created struct {
		ID    int64    `json:"id"`
		Name  string   `json:"name"`
		Date  dateView `json:"date"`
		Notes *string  `json:"notes"`
	}
	parseResponse(t, rr, &created)
	if created.ID == 0 || created.Name != "Egg Festival" || created.Date.Ordinal != 13 {
		t.Errorf("created = %+v", created)
	}
	if created.Notes == nil || *created.Notes != "find the eggs" {
		t.Errorf("notes = %v", created.Notes)
	}

	expectErrorCode(t, env.do("POST", "/api/v1/events", create, testAPIKey), http.StatusConflict, "CONFLICT")

	rr = env.do("GET", "/api/v1/events", nil, "")
	expectStatus(t, rr, http.StatusOK)
	var list struct {
		From   dateView `json:"from"`
		Events []struct {
			ID int64 `json:"id"`
		} `json:"events"`
	}
	parseResponse(t, rr, &list)
	if list.From.Ordinal != 1 || len(list.Events) != 1 {
		t.Errorf("list = %+v", list)
	}

	// Starting after the festival leaves nothing.
	rr = env.do("GET", "/api/v1/events?from=14&limit=10", nil, "")
	expectStatus(t, rr, http.StatusOK)
	parseResponse(t, rr, &list)
	if len(list.Events) != 0 {
		t.Errorf("events from 14 = %+v, want none", list.Events)
	}

	path := "/api/v1/events/" + itoa(created.ID)
	expectStatus(t, env.do("GET", path, nil, ""), http.StatusOK)
	expectStatus(t, env.do("DELETE", path, nil, testAPIKey), http.StatusOK)
	expectErrorCode(t, env.do("GET", path, nil, ""), http.StatusNotFound, "NOT_FOUND")
	expectErrorCode(t, env.do("DELETE", path, nil, testAPIKey), http.StatusNotFound, "NOT_FOUND")
}

func TestCreateEvent_Validation(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		body any
		code string
	}{
		{"missing name", map[string]any{"date": dateBody(calendar.Epoch())}, "BAD_REQUEST"},
		{"missing date", map[string]any{"name": "Luau"}, "BAD_REQUEST"},
		{"invalid date", map[string]any{"name": "Luau", "date": map[string]any{"day": 30, "season": "summer", "year": 1}}, "INVALID_DAY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do("POST", "/api/v1/events", tt.body, testAPIKey)
			expectErrorCode(t, rr, http.StatusBadRequest, tt.code)
		})
	}
}

func TestInvalidEventID(t *testing.T) {
	env := setupTest(t)
	expectErrorCode(t, env.do("GET", "/api/v1/events/abc", nil, ""), http.StatusBadRequest, "BAD_REQUEST")
}

func TestUnknownRoute(t *testing.T) {
	env := setupTest(t)
	expectErrorCode(t, env.do("GET", "/api/v1/nothing", nil, ""), http.StatusNotFound, "NOT_FOUND")
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
