package service

import (
	"context"
	"time"

	"github.com/sarvar/parkpulse/internal/logger"
	"github.com/sarvar/parkpulse/internal/models"
	"github.com/sarvar/parkpulse/internal/repository"
	"github.com/sarvar/parkpulse/internal/themepark"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Ingest runs one fetch-and-normalize pass against the upstream API.
type Ingest interface {
	PollOnce(ctx context.Context) (RunStats, error)
}

// Poller drives Ingest on a cadence with at-most-one-run-in-flight.
// RunOnce is shared by the ticker, the manual refresh endpoint, and -once mode.
type Poller interface {
	Run(ctx context.Context, interval time.Duration)
	RunOnce(ctx context.Context) (RunStats, error)
}

// ParkView exposes the read side over stored snapshots.
type ParkView interface {
	Overview(ctx context.Context) (ParkOverview, error)
	CurrentWaits(ctx context.Context) (CurrentWaits, error)
	AttractionHistory(ctx context.Context, attractionID string, from, to time.Time) ([]models.AttractionStatus, error)
	HourlyWaits(ctx context.Context, attractionID string, days int) ([]models.HourlyWait, error)
}

// CallLog exposes the append-only fetch-attempt log with filtering access.
type CallLog interface {
	List(ctx context.Context, f CallLogFilter) ([]models.ApiCallLog, error)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Ingest
	Poller
	ParkView
	CallLog
	Authorization
}

// NewService wires the repository layer and upstream client into concrete services.
func NewService(repos *repository.Repository, client *themepark.Client, log *logger.Logger) *Service {
	ingest := NewIngestService(repos, client, log)
	return &Service{
		Ingest:        ingest,
		Poller:        NewPollerService(ingest, log),
		ParkView:      NewParkViewService(repos.Entities, repos.Statuses),
		CallLog:       NewCallLogService(repos.CallLogs),
		Authorization: NewAuthService(repos.Auth),
	}
}
