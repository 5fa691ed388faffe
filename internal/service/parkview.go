package service

import (
	"context"
	"errors"
	"time"

	"github.com/sarvar/parkpulse/internal/models"
	"github.com/sarvar/parkpulse/internal/repository"
)

const (
	defaultHistoryWindow   = 24 * time.Hour
	defaultHourlyDays      = 7
	upcomingShowtimesLimit = 5
)

var (
	errInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	// ErrNoParkData is returned before the first successful poll.
	ErrNoParkData = errors.New("no park data recorded yet")
)

// ShowWithTimes is a show's latest snapshot plus its next performances.
type ShowWithTimes struct {
	models.LatestShow
	UpcomingShowtimes []string `json:"upcoming_showtimes"` // "HH:MM", UTC
}

// ParkOverview mirrors the landing view: park metadata with the latest
// snapshot of every attraction and show.
type ParkOverview struct {
	Park        *models.Park              `json:"park"`
	Attractions []models.LatestAttraction `json:"attractions"`
	Shows       []ShowWithTimes           `json:"shows"`
	CurrentTime time.Time                 `json:"current_time"`
}

// CurrentWaits lists attractions that currently report any wait time.
type CurrentWaits struct {
	ParkName    string                    `json:"park_name"`
	Timestamp   time.Time                 `json:"timestamp"`
	Attractions []models.LatestAttraction `json:"attractions"`
}

// ParkViewService serves read-side queries over stored snapshots.
// It only reads; the ingest pipeline is the sole writer.
type ParkViewService struct {
	entities repository.EntityRepo
	statuses repository.StatusRepo
}

func NewParkViewService(entities repository.EntityRepo, statuses repository.StatusRepo) *ParkViewService {
	return &ParkViewService{entities: entities, statuses: statuses}
}

// Overview returns the park with latest statuses for all entities.
func (s *ParkViewService) Overview(ctx context.Context) (ParkOverview, error) {
	now := time.Now().UTC()

	park, err := s.entities.GetPark(ctx)
	if err != nil {
		return ParkOverview{}, err
	}

	attractions, err := s.statuses.LatestAttractionStatuses(ctx)
	if err != nil {
		return ParkOverview{}, err
	}

	latestShows, err := s.statuses.LatestShowStatuses(ctx)
	if err != nil {
		return ParkOverview{}, err
	}

	shows := make([]ShowWithTimes, 0, len(latestShows))
	for _, ls := range latestShows {
		upcoming, err := s.statuses.UpcomingShowtimes(ctx, ls.StatusID, now, upcomingShowtimesLimit)
		if err != nil {
			return ParkOverview{}, err
		}
		times := make([]string, 0, len(upcoming))
		for _, st := range upcoming {
			if st.StartTime != nil {
				times = append(times, st.StartTime.Format("15:04"))
			}
		}
		shows = append(shows, ShowWithTimes{LatestShow: ls, UpcomingShowtimes: times})
	}

	return ParkOverview{
		Park:        park,
		Attractions: attractions,
		Shows:       shows,
		CurrentTime: now,
	}, nil
}

// CurrentWaits returns attractions whose latest snapshot carries a wait time.
func (s *ParkViewService) CurrentWaits(ctx context.Context) (CurrentWaits, error) {
	park, err := s.entities.GetPark(ctx)
	if err != nil {
		return CurrentWaits{}, err
	}
	if park == nil {
		return CurrentWaits{}, ErrNoParkData
	}

	latest, err := s.statuses.LatestAttractionStatuses(ctx)
	if err != nil {
		return CurrentWaits{}, err
	}

	withWaits := make([]models.LatestAttraction, 0, len(latest))
	for _, la := range latest {
		if la.StandbyWait != nil || la.SingleRiderWait != nil {
			withWaits = append(withWaits, la)
		}
	}

	return CurrentWaits{
		ParkName:    park.Name,
		Timestamp:   time.Now().UTC(),
		Attractions: withWaits,
	}, nil
}

// AttractionHistory returns snapshots in chronological order.
// A zero range defaults to the past 24 hours.
func (s *ParkViewService) AttractionHistory(ctx context.Context, attractionID string, from, to time.Time) ([]models.AttractionStatus, error) {
	now := time.Now().UTC()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.Add(-defaultHistoryWindow)
	}
	if from.After(to) {
		return nil, errInvalidTimeRange
	}
	return s.statuses.AttractionHistory(ctx, attractionID, from.UTC(), to.UTC())
}

// HourlyWaits aggregates standby waits by hour of day over the past N days.
func (s *ParkViewService) HourlyWaits(ctx context.Context, attractionID string, days int) ([]models.HourlyWait, error) {
	if days <= 0 {
		days = defaultHourlyDays
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	return s.statuses.HourlyAverageWaits(ctx, attractionID, since)
}
