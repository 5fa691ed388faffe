package service

import (
	"context"
	"time"

	"github.com/sarvar/parkpulse/internal/models"
	"github.com/sarvar/parkpulse/internal/repository"
)

// CallLogFilter supports browsing fetch attempts by time range and outcome.
type CallLogFilter struct {
	From         time.Time // inclusive; zero means no lower bound
	To           time.Time // inclusive; zero means no upper bound
	OnlyFailures bool
	Limit        int // <=0 uses the repository default
}

type CallLogService struct {
	callLogs repository.CallLogRepo
}

func NewCallLogService(callLogs repository.CallLogRepo) *CallLogService {
	return &CallLogService{callLogs: callLogs}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func (s *CallLogService) List(ctx context.Context, f CallLogFilter) ([]models.ApiCallLog, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}

	return s.callLogs.List(ctx, from, to, f.OnlyFailures, f.Limit)
}
