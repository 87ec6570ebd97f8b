// Package api provides HTTP API handlers for the chrono timer server.
package api

import "github.com/chrono-timers/chrono-go/pkg/timer"

// TimerListResponse is the response for GET /api/timers.
type TimerListResponse struct {
	Timers []timer.Snapshot `json:"timers"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// InfoResponse is the response for GET /api/info.
type InfoResponse struct {
	Version string `json:"version"`
	Running int    `json:"running"`
	Stopped int    `json:"stopped"`
	Total   int    `json:"total"`
}

// ErrorResponse is returned for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
