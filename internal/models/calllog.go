package models

import "time"

// ApiCallLog is one row per upstream fetch attempt, success or failure.
// Append-only; counts of logs and snapshots intentionally diverge.
type ApiCallLog struct {
	ID           int64         `json:"id"`
	Endpoint     string        `json:"endpoint"`
	CapturedAt   time.Time     `json:"captured_at"`
	StatusCode   *int          `json:"status_code,omitempty"`
	ResponseTime time.Duration `json:"response_time_ms,omitempty"`
	Success      bool          `json:"success"`
	ErrorMessage string        `json:"error_message,omitempty"`
}
