package model

import (
	"time"
)

// Drawing result statuses.
const (
	DrawingStatusScheduled = "scheduled"
	DrawingStatusDrawn     = "drawn"
	DrawingStatusFailed    = "failed"
)

// DrawingResult is the per-company outcome of one drawing invocation.
// A batch response carries one result per processed company so a single
// misbehaving company never hides the success of the others.
type DrawingResult struct {
	CompanyID   string     `json:"company_id"`
	CompanyName string     `json:"company_name"`
	Status      string     `json:"status"`
	WinnerID    string     `json:"winner_id,omitempty"`
	Error       string     `json:"error,omitempty"`
	NextDrawing *time.Time `json:"next_drawing,omitempty"`
}
