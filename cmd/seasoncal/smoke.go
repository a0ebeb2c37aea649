package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Run read-only checks against a running API",
	Long: `Calls the public endpoints of a running seasoncal API and checks the
answers against the calendar rules. Nothing is written, so it is safe to
point at a live server.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		url, _ := cmd.Flags().GetString("url")
		verbose, _ := cmd.Flags().GetBool("verbose")

		tr := NewSmokeRunner(url, cmd.OutOrStdout(), verbose)
		if failed := tr.Run(); failed > 0 {
			return fmt.Errorf("%d smoke check(s) failed", failed)
		}
		return nil
	},
}

func init() {
	smokeCmd.Flags().String("url", "http://localhost:8080", "API base URL")
	rootCmd.AddCommand(smokeCmd)
}

// =============================================================================
// Response Types
// =============================================================================

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"error,omitempty"`
}

type apiDate struct {
	Day       int    `json:"day"`
	Season    string `json:"season"`
	Year      int    `json:"year"`
	DayOfWeek string `json:"day_of_week"`
	Ordinal   int    `json:"ordinal"`
}

func (d apiDate) String() string {
	return fmt.Sprintf("%02d %s Y%d", d.Day, d.Season, d.Year)
}

// =============================================================================
// Runner
// =============================================================================

// SmokeRunner runs the checks and keeps score.
type SmokeRunner struct {
	baseURL      string
	client       *http.Client
	out          io.Writer
	verbose      bool
	successCount int
	errors       []string
}

func NewSmokeRunner(baseURL string, out io.Writer, verbose bool) *SmokeRunner {
	return &SmokeRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		out:     out,
		verbose: verbose,
	}
}

// Run executes every check group and returns the number of failures.
func (tr *SmokeRunner) Run() int {
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "seasoncal API smoke checks")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "Base URL: %s\n", tr.baseURL)

	tr.checkHealth()
	tr.checkNow()
	tr.checkOrdinals()
	tr.checkErrors()
	tr.checkCompare()
	tr.checkSeasonGrid()

	tr.printSummary()
	return len(tr.errors)
}

func (tr *SmokeRunner) checkHealth() {
	tr.printSection("Health")

	var health map[string]string
	if err := tr.call("GET", "/health", nil, http.StatusOK, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}
	if health["status"] != "healthy" {
		tr.recordError("Health", fmt.Sprintf("unexpected status %q", health["status"]))
		return
	}
	tr.recordSuccess(fmt.Sprintf("healthy (clock: %s)", health["clock_source"]))
}

func (tr *SmokeRunner) checkNow() {
	tr.printSection("Current date")

	var now apiDate
	if err := tr.call("GET", "/api/v1/date/now", nil, http.StatusOK, &now); err != nil {
		tr.recordError("Now", err.Error())
		return
	}
	want := (now.Year-1)*112 + seasonOffset(now.Season) + now.Day
	if now.Ordinal != want {
		tr.recordError("Now", fmt.Sprintf("%s has ordinal %d, want %d", now, now.Ordinal, want))
		return
	}
	tr.recordSuccess(fmt.Sprintf("today is %s (%s)", now, now.DayOfWeek))
}

func (tr *SmokeRunner) checkOrdinals() {
	tr.printSection("Ordinals")

	cases := []struct {
		n    int
		want string
		dow  string
	}{
		{1, "01 spring Y1", "Monday"},
		{28, "28 spring Y1", "Sunday"},
		{29, "01 summer Y1", "Monday"},
		{112, "28 winter Y1", "Sunday"},
		{113, "01 spring Y2", "Monday"},
	}
	for _, tc := range cases {
		var d apiDate
		if err := tr.call("GET", fmt.Sprintf("/api/v1/date/ordinal/%d", tc.n), nil, http.StatusOK, &d); err != nil {
			tr.recordError(fmt.Sprintf("Ordinal %d", tc.n), err.Error())
			continue
		}
		if d.String() != tc.want || d.DayOfWeek != tc.dow || d.Ordinal != tc.n {
			tr.recordError(fmt.Sprintf("Ordinal %d", tc.n), fmt.Sprintf("got %s %s #%d", d, d.DayOfWeek, d.Ordinal))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%d -> %s", tc.n, tc.want))
	}
}

func (tr *SmokeRunner) checkErrors() {
	tr.printSection("Error codes")

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		code   string
	}{
		{"ordinal 0", "GET", "/api/v1/date/ordinal/0", nil, "ORDINAL_UNDERFLOW"},
		{"unknown season", "POST", "/api/v1/date/resolve", map[string]any{"day": 1, "season": "monsoon", "year": 1}, "INVALID_SEASON"},
		{"day 29", "POST", "/api/v1/date/resolve", map[string]any{"day": 29, "season": "spring", "year": 1}, "INVALID_DAY"},
		{"year -1", "POST", "/api/v1/date/resolve", map[string]any{"day": 1, "season": "spring", "year": -1}, "INVALID_YEAR"},
		{"before epoch", "POST", "/api/v1/date/add", map[string]any{"date": map[string]any{"day": 1, "season": "spring", "year": 1}, "days": -1}, "RESULT_BEFORE_EPOCH"},
	}
	for _, tc := range cases {
		code, err := tr.callError(tc.method, tc.path, tc.body)
		if err != nil {
			tr.recordError(tc.name, err.Error())
			continue
		}
		if code != tc.code {
			tr.recordError(tc.name, fmt.Sprintf("code %s, want %s", code, tc.code))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s -> %s", tc.name, code))
	}
}

func (tr *SmokeRunner) checkCompare() {
	tr.printSection("Compare")

	body := map[string]any{
		"a": map[string]any{"day": 28, "season": "winter", "year": 1},
		"b": map[string]any{"day": 1, "season": "spring", "year": 2},
	}
	var res struct {
		Comparison  int  `json:"comparison"`
		Before      bool `json:"before"`
		DaysBetween int  `json:"days_between"`
	}
	if err := tr.call("POST", "/api/v1/date/compare", body, http.StatusOK, &res); err != nil {
		tr.recordError("Compare", err.Error())
		return
	}
	if res.Comparison != -1 || !res.Before || res.DaysBetween != 1 {
		tr.recordError("Compare", fmt.Sprintf("year rollover compared as %+v", res))
		return
	}
	tr.recordSuccess("28 winter Y1 is one day before 01 spring Y2")
}

func (tr *SmokeRunner) checkSeasonGrid() {
	tr.printSection("Season grid")

	var grid struct {
		Weeks [][]apiDate `json:"weeks"`
	}
	if err := tr.call("GET", "/api/v1/calendar/1/fall", nil, http.StatusOK, &grid); err != nil {
		tr.recordError("Grid", err.Error())
		return
	}
	if len(grid.Weeks) != 4 {
		tr.recordError("Grid", fmt.Sprintf("%d weeks, want 4", len(grid.Weeks)))
		return
	}
	for _, week := range grid.Weeks {
		if len(week) != 7 || week[0].DayOfWeek != "Monday" || week[6].DayOfWeek != "Sunday" {
			tr.recordError("Grid", fmt.Sprintf("week does not run Monday to Sunday: %v", week))
			return
		}
	}
	tr.recordSuccess("fall Y1 is four Monday-to-Sunday weeks")
}

// =============================================================================
// Helpers
// =============================================================================

func seasonOffset(season string) int {
	for i, s := range []string{"spring", "summer", "fall", "winter"} {
		if s == season {
			return i * 28
		}
	}
	return -1
}

func (tr *SmokeRunner) do(method, path string, body any) (*apiResponse, int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, tr.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := tr.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	if tr.verbose {
		fmt.Fprintf(tr.out, "    %s %s -> %d %s\n", method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("parse response: %w", err)
	}
	return &parsed, resp.StatusCode, nil
}

// call expects a successful response with the given status and decodes its data.
func (tr *SmokeRunner) call(method, path string, body any, status int, data any) error {
	resp, code, err := tr.do(method, path, body)
	if err != nil {
		return err
	}
	if code != status || !resp.Success {
		return fmt.Errorf("HTTP %d, want %d", code, status)
	}
	return json.Unmarshal(resp.Data, data)
}

// callError expects a 400 and returns its error code.
func (tr *SmokeRunner) callError(method, path string, body any) (string, error) {
	resp, code, err := tr.do(method, path, body)
	if err != nil {
		return "", err
	}
	if code != http.StatusBadRequest || resp.Error == nil {
		return "", fmt.Errorf("HTTP %d, want 400", code)
	}
	return resp.Error.Code, nil
}

func (tr *SmokeRunner) printSection(name string) {
	fmt.Fprintf(tr.out, "\n--- %s ---\n", name)
}

func (tr *SmokeRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Fprintf(tr.out, "  ✓ %s\n", msg)
}

func (tr *SmokeRunner) recordError(test, msg string) {
	tr.errors = append(tr.errors, fmt.Sprintf("%s: %s", test, msg))
	fmt.Fprintf(tr.out, "  ✗ %s: %s\n", test, msg)
}

func (tr *SmokeRunner) printSummary() {
	fmt.Fprintln(tr.out)
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "Passed: %d  Failed: %d\n", tr.successCount, len(tr.errors))
	for _, e := range tr.errors {
		fmt.Fprintf(tr.out, "  - %s\n", e)
	}
}
