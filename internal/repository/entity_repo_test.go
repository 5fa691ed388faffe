package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/sarvar/parkpulse/internal/models"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newEntityMock(t *testing.T) (*EntitySQLite, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	repo := NewEntitySQLite(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func TestUpsertPark_Success(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newEntityMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(upsertParkSQL)).
		WithArgs("park-1", "Epic Universe", "DESTINATION", "America/New_York").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertPark(ctx(t), models.Park{
		ID:         "park-1",
		Name:       "Epic Universe",
		EntityType: "DESTINATION",
		Timezone:   "America/New_York",
	})
	if err != nil {
		t.Fatalf("UpsertPark: %v", err)
	}
}

func TestUpsertPark_SameIDTwiceIssuesSameStatement(t *testing.T) {
	t.Parallel()

	// The upsert is a single INSERT ... ON CONFLICT statement either way;
	// a second poll for the same park must not take a different code path.
	repo, mock, cleanup := newEntityMock(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		mock.ExpectExec(regexp.QuoteMeta(upsertParkSQL)).
			WithArgs("park-1", "Epic Universe", "DESTINATION", "America/New_York").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	p := models.Park{ID: "park-1", Name: "Epic Universe", EntityType: "DESTINATION", Timezone: "America/New_York"}
	if err := repo.UpsertPark(ctx(t), p); err != nil {
		t.Fatalf("first UpsertPark: %v", err)
	}
	if err := repo.UpsertPark(ctx(t), p); err != nil {
		t.Fatalf("second UpsertPark: %v", err)
	}
}

func TestUpsertAttraction_NullableExternalID(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newEntityMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(upsertAttractionSQL)).
		WithArgs("attr-1", "park-1", "Stardust Racers", "ATTRACTION", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertAttraction(ctx(t), models.Attraction{
		ID:         "attr-1",
		ParkID:     "park-1",
		Name:       "Stardust Racers",
		EntityType: "ATTRACTION",
	})
	if err != nil {
		t.Fatalf("UpsertAttraction: %v", err)
	}
}

func TestUpsertShow_WithExternalID(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newEntityMock(t)
	defer cleanup()

	ext := "EXT-42"
	mock.ExpectExec(regexp.QuoteMeta(upsertShowSQL)).
		WithArgs("show-1", "park-1", "Le Cirque Arcanus", "SHOW", &ext).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertShow(ctx(t), models.Show{
		ID:         "show-1",
		ParkID:     "park-1",
		Name:       "Le Cirque Arcanus",
		EntityType: "SHOW",
		ExternalID: &ext,
	})
	if err != nil {
		t.Fatalf("UpsertShow: %v", err)
	}
}

func TestUpsertPark_DBError(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newEntityMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO parks").
		WillReturnError(errors.New("locked"))

	err := repo.UpsertPark(ctx(t), models.Park{ID: "p", Name: "n"})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestGetPark_NoRows(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newEntityMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectParkSQL)).
		WillReturnError(sql.ErrNoRows)

	p, err := repo.GetPark(ctx(t))
	if err != nil {
		t.Fatalf("GetPark: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil park before first poll, got %+v", p)
	}
}

func TestGetPark_Found(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newEntityMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "name", "entity_type", "timezone"}).
		AddRow("park-1", "Epic Universe", "DESTINATION", "America/New_York")
	mock.ExpectQuery(regexp.QuoteMeta(selectParkSQL)).WillReturnRows(rows)

	p, err := repo.GetPark(ctx(t))
	if err != nil {
		t.Fatalf("GetPark: %v", err)
	}
	if p == nil || p.Name != "Epic Universe" || p.Timezone != "America/New_York" {
		t.Fatalf("unexpected park: %+v", p)
	}
}
