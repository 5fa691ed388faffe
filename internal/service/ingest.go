package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sarvar/parkpulse/internal/logger"
	"github.com/sarvar/parkpulse/internal/models"
	"github.com/sarvar/parkpulse/internal/repository"
	"github.com/sarvar/parkpulse/internal/themepark"
	"github.com/sarvar/parkpulse/internal/timeparse"
)

// Document- and item-level failure kinds for normalization.
// Transport-level kinds live in the themepark package.
var (
	// ErrDocumentMalformed aborts the whole document: without a valid park
	// there is nothing to attach children to.
	ErrDocumentMalformed = errors.New("malformed live-data document")
	// ErrItemMalformed skips exactly one live item; the rest of the
	// document still processes.
	ErrItemMalformed = errors.New("malformed live-data item")
)

// RunStats summarizes one pipeline pass for synchronous callers.
type RunStats struct {
	Attractions int `json:"attractions"`
	Shows       int `json:"shows"`
	Skipped     int `json:"skipped"`
	Failed      int `json:"failed"`
}

// Summary renders the operator-facing one-liner for a completed run.
func (s RunStats) Summary() string {
	return fmt.Sprintf("processed %d attractions and %d shows (%d skipped, %d failed)",
		s.Attractions, s.Shows, s.Skipped, s.Failed)
}

// LiveFetcher is the outbound HTTP dependency, narrowed for tests.
type LiveFetcher interface {
	FetchLive(ctx context.Context) (*themepark.LiveDocument, themepark.FetchResult)
}

// IngestService turns live-data documents into entity upserts and
// append-only status snapshots.
type IngestService struct {
	entities repository.EntityRepo
	statuses repository.StatusRepo
	callLogs repository.CallLogRepo
	fetcher  LiveFetcher
	log      *logger.Logger
}

func NewIngestService(repos *repository.Repository, fetcher LiveFetcher, log *logger.Logger) *IngestService {
	return &IngestService{
		entities: repos.Entities,
		statuses: repos.Statuses,
		callLogs: repos.CallLogs,
		fetcher:  fetcher,
		log:      log,
	}
}

// PollOnce performs one fetch, always logs the attempt, and normalizes the
// payload when the fetch succeeded.
func (s *IngestService) PollOnce(ctx context.Context) (RunStats, error) {
	doc, res := s.fetcher.FetchLive(ctx)
	s.logCall(ctx, res)
	observePollAttempt(res)

	if res.Err != nil {
		return RunStats{}, res.Err
	}

	stats, err := s.ProcessDocument(ctx, doc)
	if err != nil {
		return stats, err
	}
	markPollSuccess()
	return stats, nil
}

// logCall records the fetch attempt. Best-effort: a logging failure must not
// change the pipeline outcome.
func (s *IngestService) logCall(ctx context.Context, res themepark.FetchResult) {
	entry := models.ApiCallLog{
		Endpoint:     res.Endpoint,
		CapturedAt:   time.Now().UTC(),
		StatusCode:   res.StatusCode,
		ResponseTime: res.Elapsed,
		Success:      res.Err == nil,
	}
	if res.Err != nil {
		entry.ErrorMessage = res.Err.Error()
	}
	if err := s.callLogs.Append(ctx, entry); err != nil {
		s.log.Errorw("api_call_log_failed", "err", err, "endpoint", res.Endpoint)
	}
}

// ProcessDocument upserts the park, then dispatches each live item.
// A park-level failure aborts the document; item-level failures are
// contained and counted so one bad record cannot poison the whole poll.
func (s *IngestService) ProcessDocument(ctx context.Context, doc *themepark.LiveDocument) (RunStats, error) {
	var stats RunStats

	if doc == nil || doc.ID == "" || doc.Name == "" {
		return stats, fmt.Errorf("%w: park id and name are required", ErrDocumentMalformed)
	}
	if _, err := uuid.Parse(doc.ID); err != nil {
		return stats, fmt.Errorf("%w: park id %q is not a UUID", ErrDocumentMalformed, doc.ID)
	}

	park := models.Park{
		ID:         doc.ID,
		Name:       doc.Name,
		EntityType: doc.EntityType,
		Timezone:   doc.Timezone,
	}
	if err := s.entities.UpsertPark(ctx, park); err != nil {
		return stats, fmt.Errorf("upsert park %s: %w", doc.ID, err)
	}

	for i := range doc.LiveData {
		item := &doc.LiveData[i]
		switch item.EntityType {
		case themepark.EntityAttraction:
			if err := s.processAttraction(ctx, doc.ID, item); err != nil {
				stats.Failed++
				s.log.Errorw("attraction_item_failed", "err", err, "item_id", item.ID, "name", item.Name)
				continue
			}
			stats.Attractions++
		case themepark.EntityShow:
			if err := s.processShow(ctx, doc.ID, item); err != nil {
				stats.Failed++
				s.log.Errorw("show_item_failed", "err", err, "item_id", item.ID, "name", item.Name)
				continue
			}
			stats.Shows++
		default:
			stats.Skipped++
			s.log.Warnw("unknown_entity_type", "entity_type", item.EntityType, "item_id", item.ID)
		}
	}

	return stats, nil
}

// processAttraction upserts the attraction and appends one snapshot plus
// its operating-hour children as a single unit.
func (s *IngestService) processAttraction(ctx context.Context, parkID string, item *themepark.LiveItem) error {
	if err := validateItem(item); err != nil {
		return err
	}

	attraction := models.Attraction{
		ID:         item.ID,
		ParkID:     parkID,
		Name:       item.Name,
		EntityType: item.EntityType,
		ExternalID: item.ExternalID,
	}
	if err := s.entities.UpsertAttraction(ctx, attraction); err != nil {
		return fmt.Errorf("upsert attraction %s: %w", item.ID, err)
	}

	status := models.AttractionStatus{
		AttractionID:    item.ID,
		Status:          item.Status,
		StandbyWait:     item.StandbyWait(),
		SingleRiderWait: item.SingleRiderWait(),
		LastUpdated:     s.parseInstant(item.LastUpdated, item.ID),
		RawData:         item.Raw,
	}

	hours := make([]models.OperatingHours, 0, len(item.OperatingHours))
	for _, entry := range item.OperatingHours {
		hours = append(hours, models.OperatingHours{
			Type:      entry.Type,
			StartTime: s.parseInstant(entry.StartTime, item.ID),
			EndTime:   s.parseInstant(entry.EndTime, item.ID),
		})
	}

	if _, err := s.statuses.InsertAttractionStatus(ctx, status, hours); err != nil {
		return fmt.Errorf("insert attraction status %s: %w", item.ID, err)
	}
	return nil
}

// processShow upserts the show and appends one snapshot plus its showtime
// children as a single unit.
func (s *IngestService) processShow(ctx context.Context, parkID string, item *themepark.LiveItem) error {
	if err := validateItem(item); err != nil {
		return err
	}

	show := models.Show{
		ID:         item.ID,
		ParkID:     parkID,
		Name:       item.Name,
		EntityType: item.EntityType,
		ExternalID: item.ExternalID,
	}
	if err := s.entities.UpsertShow(ctx, show); err != nil {
		return fmt.Errorf("upsert show %s: %w", item.ID, err)
	}

	status := models.ShowStatus{
		ShowID:      item.ID,
		Status:      item.Status,
		LastUpdated: s.parseInstant(item.LastUpdated, item.ID),
		RawData:     item.Raw,
	}

	times := make([]models.Showtime, 0, len(item.Showtimes))
	for _, entry := range item.Showtimes {
		times = append(times, models.Showtime{
			Type:      entry.Type,
			StartTime: s.parseInstant(entry.StartTime, item.ID),
			EndTime:   s.parseInstant(entry.EndTime, item.ID),
		})
	}

	if _, err := s.statuses.InsertShowStatus(ctx, status, times); err != nil {
		return fmt.Errorf("insert show status %s: %w", item.ID, err)
	}
	return nil
}

// validateItem checks the fields every live item must carry.
func validateItem(item *themepark.LiveItem) error {
	if item.ID == "" || item.Name == "" || item.Status == "" {
		return fmt.Errorf("%w: id, name and status are required", ErrItemMalformed)
	}
	if _, err := uuid.Parse(item.ID); err != nil {
		return fmt.Errorf("%w: item id %q is not a UUID", ErrItemMalformed, item.ID)
	}
	return nil
}

// parseInstant tolerantly parses an upstream timestamp. Unparseable input
// degrades to nil with a single warning; it never fails the item.
func (s *IngestService) parseInstant(value, itemID string) *time.Time {
	t, ok := timeparse.Parse(value)
	if !ok {
		s.log.Warnw("unparseable_timestamp", "value", value, "item_id", itemID)
	}
	return t
}
