package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sarvar/parkpulse/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// EntityRepo upserts the stable entities a live document mentions.
// Upserts are keyed by the upstream identifier and never duplicate rows.
type EntityRepo interface {
	UpsertPark(ctx context.Context, p models.Park) error
	UpsertAttraction(ctx context.Context, a models.Attraction) error
	UpsertShow(ctx context.Context, s models.Show) error
	GetPark(ctx context.Context) (*models.Park, error)
}

// StatusRepo appends immutable snapshots. A snapshot and its child rows
// (operating hours, showtimes) are committed as one transaction.
type StatusRepo interface {
	InsertAttractionStatus(ctx context.Context, st models.AttractionStatus, hours []models.OperatingHours) (int64, error)
	InsertShowStatus(ctx context.Context, st models.ShowStatus, times []models.Showtime) (int64, error)

	LatestAttractionStatuses(ctx context.Context) ([]models.LatestAttraction, error)
	LatestShowStatuses(ctx context.Context) ([]models.LatestShow, error)
	AttractionHistory(ctx context.Context, attractionID string, from, to time.Time) ([]models.AttractionStatus, error)
	HourlyAverageWaits(ctx context.Context, attractionID string, since time.Time) ([]models.HourlyWait, error)
	UpcomingShowtimes(ctx context.Context, statusID int64, after time.Time, limit int) ([]models.Showtime, error)
}

// CallLogRepo records one row per upstream fetch attempt.
type CallLogRepo interface {
	Append(ctx context.Context, l models.ApiCallLog) error
	List(ctx context.Context, from, to time.Time, onlyFailures bool, limit int) ([]models.ApiCallLog, error)
}

type Repository struct {
	Entities EntityRepo
	Statuses StatusRepo
	CallLogs CallLogRepo
	Auth     Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Entities: NewEntitySQLite(db),
		Statuses: NewStatusSQLite(db),
		CallLogs: NewCallLogSQLite(db),
		Auth:     NewUserRepository(db),
	}
}
