package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zapponejosh/seasoncal/internal/calendar"
)

// Response represents a standard API response.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// WriteCreated writes a 201 Created response.
func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, status int, message string, code ...string) error {
	errInfo := ErrorInfo{
		Message: message,
	}
	if len(code) > 0 {
		errInfo.Code = code[0]
	}

	return WriteJSON(w, status, Response{
		Success: false,
		Error:   &errInfo,
	})
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusNotFound, message, "NOT_FOUND")
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusBadRequest, message, "BAD_REQUEST")
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusInternalServerError, message, "INTERNAL_ERROR")
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusUnauthorized, message, "UNAUTHORIZED")
}

// calendarErrorCodes maps calendar input faults to client error codes.
// ErrUnrecognizedSeason is deliberately absent: it is an internal fault.
var calendarErrorCodes = []struct {
	err  error
	code string
}{
	{calendar.ErrInvalidSeason, "INVALID_SEASON"},
	{calendar.ErrInvalidDay, "INVALID_DAY"},
	{calendar.ErrInvalidYear, "INVALID_YEAR"},
	{calendar.ErrResultBeforeEpoch, "RESULT_BEFORE_EPOCH"},
	{calendar.ErrOrdinalUnderflow, "ORDINAL_UNDERFLOW"},
	{calendar.ErrOutOfRange, "OUT_OF_RANGE"},
}

// writeCalendarError writes a 400 response if err is a calendar input fault
// and reports whether it did.
func writeCalendarError(w http.ResponseWriter, err error) bool {
	for _, c := range calendarErrorCodes {
		if errors.Is(err, c.err) {
			WriteError(w, http.StatusBadRequest, err.Error(), c.code)
			return true
		}
	}
	return false
}
