package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/sarvar/parkpulse/internal/models"
)

func newCallLogMock(t *testing.T) (*CallLogSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	repo := NewCallLogSQLite(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func TestCallLogAppend_SuccessRow(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newCallLogMock(t)
	defer cleanup()

	code := 200
	captured := time.Date(2025, 5, 22, 14, 30, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(insertCallLogSQL)).
		WithArgs("entity/park-1/live", captured, &code, int64(840), true, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Append(ctx(t), models.ApiCallLog{
		Endpoint:     "entity/park-1/live",
		CapturedAt:   captured,
		StatusCode:   &code,
		ResponseTime: 840 * time.Millisecond,
		Success:      true,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestCallLogAppend_FailureRowKeepsMessageAndNilCode(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newCallLogMock(t)
	defer cleanup()

	// A transport failure has no status code but always has a message.
	mock.ExpectExec(regexp.QuoteMeta(insertCallLogSQL)).
		WithArgs("entity/park-1/live", sqlmock.AnyArg(), nil, int64(0), false, "connection refused").
		WillReturnResult(sqlmock.NewResult(2, 1))

	err := repo.Append(ctx(t), models.ApiCallLog{
		Endpoint:     "entity/park-1/live",
		Success:      false,
		ErrorMessage: "connection refused",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestCallLogList_NoFiltersAppliesDefaultLimit(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newCallLogMock(t)
	defer cleanup()

	captured := time.Date(2025, 5, 22, 14, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "endpoint", "captured_at", "status_code", "response_time_ms", "success", "error_message"}).
		AddRow(2, "entity/park-1/live", captured, 200, 840, true, nil).
		AddRow(1, "entity/park-1/live", captured.Add(-time.Minute), nil, 0, false, "connection refused")

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY captured_at DESC LIMIT ?")).
		WithArgs(defaultCallLogLimit).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), time.Time{}, time.Time{}, false, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d", len(got))
	}
	if got[0].StatusCode == nil || *got[0].StatusCode != 200 {
		t.Fatalf("unexpected status code: %v", got[0].StatusCode)
	}
	if got[0].ResponseTime != 840*time.Millisecond {
		t.Fatalf("unexpected response time: %v", got[0].ResponseTime)
	}
	if got[1].StatusCode != nil {
		t.Fatalf("failed attempt must have nil status code")
	}
	if got[1].ErrorMessage != "connection refused" {
		t.Fatalf("unexpected error message: %q", got[1].ErrorMessage)
	}
}

func TestCallLogList_RangeAndFailureFilter(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newCallLogMock(t)
	defer cleanup()

	from := time.Date(2025, 5, 22, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 5, 22, 23, 59, 59, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "endpoint", "captured_at", "status_code", "response_time_ms", "success", "error_message"}).
		AddRow(3, "entity/park-1/live", from.Add(time.Hour), 502, 120, false, "upstream returned 502")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE captured_at >= ? AND captured_at <= ? AND success = 0")).
		WithArgs(from, to, 10).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), from, to, true, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Success {
		t.Fatalf("expected a single failed attempt, got %+v", got)
	}
}

func TestCallLogList_LimitIsCapped(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newCallLogMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "endpoint", "captured_at", "status_code", "response_time_ms", "success", "error_message"})

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT ?")).
		WithArgs(maxCallLogLimit).
		WillReturnRows(rows)

	if _, err := repo.List(ctx(t), time.Time{}, time.Time{}, false, 5000); err != nil {
		t.Fatalf("List: %v", err)
	}
}

func TestCallLogList_QueryError(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newCallLogMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id, endpoint").
		WillReturnError(errors.New("locked"))

	if _, err := repo.List(ctx(t), time.Time{}, time.Time{}, false, 0); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
