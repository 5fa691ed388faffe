package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sarvar/parkpulse/internal/logger"
)

// ErrRunInProgress is returned when a run is requested while another one
// is still executing. Overlapping triggers are skipped, never queued.
var ErrRunInProgress = errors.New("a poll run is already in progress")

// PollerService drives the ingest pipeline: once immediately at startup,
// then on a fixed cadence, with at most one run in flight.
type PollerService struct {
	ingest   Ingest
	log      *logger.Logger
	inFlight atomic.Bool
}

func NewPollerService(ingest Ingest, log *logger.Logger) *PollerService {
	return &PollerService{ingest: ingest, log: log}
}

// Run blocks until ctx is canceled. A failing run only logs; the next tick
// still fires.
func (p *PollerService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.log.Infow("poller started", "interval", interval.String())

	// one run immediately at startup
	p.runScheduled(ctx)

	for {
		select {
		case <-ctx.Done():
			p.log.Infow("poller stopped")
			return
		case <-ticker.C:
			p.runScheduled(ctx)
		}
	}
}

// runScheduled wraps RunOnce for the ticker path: outcomes are logged,
// never propagated, so the loop survives any single failure.
func (p *PollerService) runScheduled(ctx context.Context) {
	stats, err := p.RunOnce(ctx)
	switch {
	case errors.Is(err, ErrRunInProgress):
		p.log.Warnw("poll_tick_skipped", "reason", "previous run still in flight")
	case err != nil:
		p.log.Errorw("poll_run_failed", "err", err)
	default:
		p.log.Infow("poll_run_completed",
			"attractions", stats.Attractions,
			"shows", stats.Shows,
			"skipped", stats.Skipped,
			"failed", stats.Failed,
		)
	}
}

// RunOnce executes one pipeline pass, guarded so concurrent callers
// (scheduler tick, manual refresh) can never overlap.
func (p *PollerService) RunOnce(ctx context.Context) (RunStats, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return RunStats{}, ErrRunInProgress
	}
	defer p.inFlight.Store(false)

	return p.ingest.PollOnce(ctx)
}
