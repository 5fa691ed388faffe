package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sarvar/parkpulse/internal/models"
)

type StatusSQLite struct {
	db *sql.DB
}

func NewStatusSQLite(db *sql.DB) *StatusSQLite { return &StatusSQLite{db: db} }

var _ StatusRepo = (*StatusSQLite)(nil)

const (
	insertAttractionStatusSQL = `
		INSERT INTO attraction_statuses (attraction_id, captured_at, status, standby_wait, single_rider_wait, last_updated, raw_data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	insertShowStatusSQL = `
		INSERT INTO show_statuses (show_id, captured_at, status, last_updated, raw_data)
		VALUES (?, ?, ?, ?, ?)
	`

	insertOperatingHoursSQL = `
		INSERT INTO operating_hours (status_id, type, start_time, end_time)
		VALUES (?, ?, ?, ?)
	`

	insertShowtimeSQL = `
		INSERT INTO showtimes (status_id, type, start_time, end_time)
		VALUES (?, ?, ?, ?)
	`

	latestAttractionStatusesSQL = `
		SELECT a.id, a.name, s.status, s.standby_wait, s.single_rider_wait, s.last_updated, s.captured_at
		FROM attractions a
		JOIN attraction_statuses s ON s.attraction_id = a.id
		WHERE s.id = (
			SELECT id FROM attraction_statuses
			WHERE attraction_id = a.id
			ORDER BY captured_at DESC, id DESC LIMIT 1
		)
		ORDER BY a.name ASC
	`

	latestShowStatusesSQL = `
		SELECT sh.id, sh.name, s.id, s.status, s.last_updated, s.captured_at
		FROM shows sh
		JOIN show_statuses s ON s.show_id = sh.id
		WHERE s.id = (
			SELECT id FROM show_statuses
			WHERE show_id = sh.id
			ORDER BY captured_at DESC, id DESC LIMIT 1
		)
		ORDER BY sh.name ASC
	`

	attractionHistorySQL = `
		SELECT id, attraction_id, captured_at, status, standby_wait, single_rider_wait, last_updated
		FROM attraction_statuses
		WHERE attraction_id = ? AND captured_at >= ? AND captured_at <= ?
		ORDER BY captured_at ASC
	`

	hourlyAverageWaitsSQL = `
		SELECT CAST(strftime('%H', captured_at) AS INTEGER) AS hour,
		       AVG(standby_wait), COUNT(*)
		FROM attraction_statuses
		WHERE attraction_id = ? AND captured_at >= ? AND standby_wait IS NOT NULL
		GROUP BY hour
		ORDER BY hour ASC
	`

	upcomingShowtimesSQL = `
		SELECT id, status_id, type, start_time, end_time
		FROM showtimes
		WHERE status_id = ? AND start_time > ?
		ORDER BY start_time ASC
		LIMIT ?
	`
)

// normalizeCaptureTime defaults a zero capture timestamp to UTC now.
func normalizeCaptureTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// utcOrNil keeps optional instants in UTC without inventing values.
func utcOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// rawOrNil converts the payload blob to a driver-friendly value.
func rawOrNil(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

// InsertAttractionStatus appends one snapshot plus its operating-hour children
// in a single transaction, so readers never observe a snapshot without them.
func (r *StatusSQLite) InsertAttractionStatus(ctx context.Context, st models.AttractionStatus, hours []models.OperatingHours) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, insertAttractionStatusSQL,
		st.AttractionID,
		normalizeCaptureTime(st.CapturedAt),
		st.Status,
		st.StandbyWait,
		st.SingleRiderWait,
		utcOrNil(st.LastUpdated),
		rawOrNil(st.RawData),
	)
	if err != nil {
		return 0, err
	}
	statusID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, oh := range hours {
		if _, err := tx.ExecContext(ctx, insertOperatingHoursSQL,
			statusID, oh.Type, utcOrNil(oh.StartTime), utcOrNil(oh.EndTime)); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return statusID, nil
}

// InsertShowStatus appends one show snapshot plus its showtime children atomically.
func (r *StatusSQLite) InsertShowStatus(ctx context.Context, st models.ShowStatus, times []models.Showtime) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, insertShowStatusSQL,
		st.ShowID,
		normalizeCaptureTime(st.CapturedAt),
		st.Status,
		utcOrNil(st.LastUpdated),
		rawOrNil(st.RawData),
	)
	if err != nil {
		return 0, err
	}
	statusID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, stime := range times {
		if _, err := tx.ExecContext(ctx, insertShowtimeSQL,
			statusID, stime.Type, utcOrNil(stime.StartTime), utcOrNil(stime.EndTime)); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return statusID, nil
}

// LatestAttractionStatuses returns each attraction joined with its newest snapshot.
func (r *StatusSQLite) LatestAttractionStatuses(ctx context.Context) ([]models.LatestAttraction, error) {
	rows, err := r.db.QueryContext(ctx, latestAttractionStatusesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.LatestAttraction, 0, 32)
	for rows.Next() {
		var (
			la          models.LatestAttraction
			standby     sql.NullInt64
			singleRider sql.NullInt64
			lastUpdated sql.NullTime
		)
		if err := rows.Scan(&la.ID, &la.Name, &la.Status, &standby, &singleRider, &lastUpdated, &la.CapturedAt); err != nil {
			return nil, err
		}
		la.StandbyWait = intPtrFromNull(standby)
		la.SingleRiderWait = intPtrFromNull(singleRider)
		la.LastUpdated = timePtrFromNull(lastUpdated)
		la.CapturedAt = la.CapturedAt.UTC()
		out = append(out, la)
	}
	return out, rows.Err()
}

// LatestShowStatuses returns each show joined with its newest snapshot.
func (r *StatusSQLite) LatestShowStatuses(ctx context.Context) ([]models.LatestShow, error) {
	rows, err := r.db.QueryContext(ctx, latestShowStatusesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.LatestShow, 0, 16)
	for rows.Next() {
		var (
			ls          models.LatestShow
			lastUpdated sql.NullTime
		)
		if err := rows.Scan(&ls.ID, &ls.Name, &ls.StatusID, &ls.Status, &lastUpdated, &ls.CapturedAt); err != nil {
			return nil, err
		}
		ls.LastUpdated = timePtrFromNull(lastUpdated)
		ls.CapturedAt = ls.CapturedAt.UTC()
		out = append(out, ls)
	}
	return out, rows.Err()
}

// AttractionHistory returns snapshots for [from, to] in chronological order.
func (r *StatusSQLite) AttractionHistory(ctx context.Context, attractionID string, from, to time.Time) ([]models.AttractionStatus, error) {
	rows, err := r.db.QueryContext(ctx, attractionHistorySQL, attractionID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.AttractionStatus, 0, 64)
	for rows.Next() {
		var (
			st          models.AttractionStatus
			standby     sql.NullInt64
			singleRider sql.NullInt64
			lastUpdated sql.NullTime
		)
		if err := rows.Scan(&st.ID, &st.AttractionID, &st.CapturedAt, &st.Status, &standby, &singleRider, &lastUpdated); err != nil {
			return nil, err
		}
		st.StandbyWait = intPtrFromNull(standby)
		st.SingleRiderWait = intPtrFromNull(singleRider)
		st.LastUpdated = timePtrFromNull(lastUpdated)
		st.CapturedAt = st.CapturedAt.UTC()
		out = append(out, st)
	}
	return out, rows.Err()
}

// HourlyAverageWaits aggregates standby waits by hour of day since the cutoff.
func (r *StatusSQLite) HourlyAverageWaits(ctx context.Context, attractionID string, since time.Time) ([]models.HourlyWait, error) {
	rows, err := r.db.QueryContext(ctx, hourlyAverageWaitsSQL, attractionID, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.HourlyWait, 0, 24)
	for rows.Next() {
		var hw models.HourlyWait
		if err := rows.Scan(&hw.Hour, &hw.AvgWait, &hw.Samples); err != nil {
			return nil, err
		}
		out = append(out, hw)
	}
	return out, rows.Err()
}

// UpcomingShowtimes lists child showtimes of a snapshot starting after a cutoff.
func (r *StatusSQLite) UpcomingShowtimes(ctx context.Context, statusID int64, after time.Time, limit int) ([]models.Showtime, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.QueryContext(ctx, upcomingShowtimesSQL, statusID, after.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Showtime, 0, limit)
	for rows.Next() {
		var (
			st    models.Showtime
			start sql.NullTime
			end   sql.NullTime
		)
		if err := rows.Scan(&st.ID, &st.StatusID, &st.Type, &start, &end); err != nil {
			return nil, err
		}
		st.StartTime = timePtrFromNull(start)
		st.EndTime = timePtrFromNull(end)
		out = append(out, st)
	}
	return out, rows.Err()
}

// scan helpers

func intPtrFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func timePtrFromNull(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time.UTC()
	return &t
}
