package database

import (
	"time"

	"github.com/zapponejosh/seasoncal/internal/calendar"
)

// Event is something scheduled on an in-game date: a festival, a birthday,
// a crop that is ready to harvest.
type Event struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Date      calendar.Date `json:"date"`
	Notes     *string       `json:"notes,omitempty"` // nullable
	CreatedAt time.Time     `json:"created_at"`
}

// ClockState is the stored game clock together with its last update time.
type ClockState struct {
	Date      calendar.Date `json:"date"`
	UpdatedAt time.Time     `json:"updated_at"`
}
