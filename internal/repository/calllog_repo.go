package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sarvar/parkpulse/internal/models"
)

type CallLogSQLite struct {
	db *sql.DB
}

func NewCallLogSQLite(db *sql.DB) *CallLogSQLite { return &CallLogSQLite{db: db} }

var _ CallLogRepo = (*CallLogSQLite)(nil)

const (
	insertCallLogSQL = `
		INSERT INTO api_call_logs (endpoint, captured_at, status_code, response_time_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	defaultCallLogLimit = 100
	maxCallLogLimit     = 1000
)

// Append inserts one fetch-attempt row. If CapturedAt is zero, it's set to UTC now.
func (r *CallLogSQLite) Append(ctx context.Context, l models.ApiCallLog) error {
	capturedAt := l.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now().UTC()
	} else {
		capturedAt = capturedAt.UTC()
	}

	var errMsg any
	if l.ErrorMessage != "" {
		errMsg = l.ErrorMessage
	}

	_, err := r.db.ExecContext(ctx, insertCallLogSQL,
		l.Endpoint,
		capturedAt,
		l.StatusCode,
		l.ResponseTime.Milliseconds(),
		l.Success,
		errMsg,
	)
	return err
}

// List returns call logs newest first, filtered by [from, to] and success flag.
func (r *CallLogSQLite) List(ctx context.Context, from, to time.Time, onlyFailures bool, limit int) ([]models.ApiCallLog, error) {
	if limit <= 0 {
		limit = defaultCallLogLimit
	}
	if limit > maxCallLogLimit {
		limit = maxCallLogLimit
	}

	q := `SELECT id, endpoint, captured_at, status_code, response_time_ms, success, error_message FROM api_call_logs`
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "captured_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "captured_at <= ?")
		args = append(args, to.UTC())
	}
	if onlyFailures {
		conds = append(conds, "success = 0")
	}
	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += " ORDER BY captured_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.ApiCallLog, 0, limit)
	for rows.Next() {
		var (
			l      models.ApiCallLog
			code   sql.NullInt64
			rtMS   sql.NullInt64
			errMsg sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.Endpoint, &l.CapturedAt, &code, &rtMS, &l.Success, &errMsg); err != nil {
			return nil, err
		}
		l.StatusCode = intPtrFromNull(code)
		if rtMS.Valid {
			l.ResponseTime = time.Duration(rtMS.Int64) * time.Millisecond
		}
		l.ErrorMessage = errMsg.String
		l.CapturedAt = l.CapturedAt.UTC()
		out = append(out, l)
	}
	return out, rows.Err()
}
