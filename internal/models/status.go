package models

import (
	"encoding/json"
	"time"
)

// AttractionStatus is one immutable snapshot of an attraction at poll time.
// Snapshots are append-only; the pipeline never mutates or deletes them.
type AttractionStatus struct {
	ID              int64            `json:"id"`
	AttractionID    string           `json:"attraction_id"`
	CapturedAt      time.Time        `json:"captured_at"`
	Status          string           `json:"status"` // OPERATING | DOWN | CLOSED | REFURBISHMENT | ...
	StandbyWait     *int             `json:"standby_wait_time,omitempty"`      // minutes
	SingleRiderWait *int             `json:"single_rider_wait_time,omitempty"` // minutes
	LastUpdated     *time.Time       `json:"last_updated,omitempty"`           // upstream-reported
	RawData         json.RawMessage  `json:"-"`                                // original live item
	OperatingHours  []OperatingHours `json:"operating_hours,omitempty"`
}

// ShowStatus is one immutable snapshot of a show at poll time.
type ShowStatus struct {
	ID          int64           `json:"id"`
	ShowID      string          `json:"show_id"`
	CapturedAt  time.Time       `json:"captured_at"`
	Status      string          `json:"status"`
	LastUpdated *time.Time      `json:"last_updated,omitempty"`
	RawData     json.RawMessage `json:"-"`
	Showtimes   []Showtime      `json:"showtimes,omitempty"`
}

// OperatingHours is a child window of an attraction snapshot.
type OperatingHours struct {
	ID        int64      `json:"id"`
	StatusID  int64      `json:"-"`
	Type      string     `json:"type"` // e.g. "OPERATING", "EXTRA_HOURS"
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// Showtime is a child performance window of a show snapshot.
type Showtime struct {
	ID        int64      `json:"id"`
	StatusID  int64      `json:"-"`
	Type      string     `json:"type"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// LatestAttraction joins an attraction with its most recent snapshot.
type LatestAttraction struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Status          string     `json:"status"`
	StandbyWait     *int       `json:"standby_wait_time,omitempty"`
	SingleRiderWait *int       `json:"single_rider_wait_time,omitempty"`
	LastUpdated     *time.Time `json:"last_updated,omitempty"`
	CapturedAt      time.Time  `json:"captured_at"`
}

// LatestShow joins a show with its most recent snapshot.
type LatestShow struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	StatusID    int64      `json:"-"` // for upcoming-showtimes lookup
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	CapturedAt  time.Time  `json:"captured_at"`
}

// HourlyWait is one bucket of the hour-of-day wait aggregate.
type HourlyWait struct {
	Hour    int     `json:"hour"` // 0..23 in UTC
	AvgWait float64 `json:"avg_wait"`
	Samples int     `json:"samples"`
}
