package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sarvar/parkpulse/internal/logger"
	"github.com/sarvar/parkpulse/internal/models"
	"github.com/sarvar/parkpulse/internal/service"
)

// Test doubles for the service layer. Each mock returns canned values or a
// canned error and records that it was called.

type mockAuth struct {
	userID   int
	token    string
	err      error
	parseErr error
}

func (m *mockAuth) SignUp(string, string) (int, error) { return m.userID, m.err }

func (m *mockAuth) GenerateToken(string, string) (string, error) { return m.token, m.err }
func (m *mockAuth) ParseToken(string) (int, error) {
	if m.parseErr != nil {
		return 0, m.parseErr
	}
	return m.userID, nil
}

type mockIngest struct {
	stats service.RunStats
	err   error
}

func (m *mockIngest) PollOnce(context.Context) (service.RunStats, error) { return m.stats, m.err }

type mockPoller struct {
	stats  service.RunStats
	err    error
	called int
}

func (m *mockPoller) Run(context.Context, time.Duration) {}

func (m *mockPoller) RunOnce(context.Context) (service.RunStats, error) {
	m.called++
	return m.stats, m.err
}

type mockParkView struct {
	overview service.ParkOverview
	waits    service.CurrentWaits
	history  []models.AttractionStatus
	hourly   []models.HourlyWait
	err      error
	gotFrom  time.Time
	gotTo    time.Time
	gotDays  int
}

func (m *mockParkView) Overview(context.Context) (service.ParkOverview, error) {
	return m.overview, m.err
}

func (m *mockParkView) CurrentWaits(context.Context) (service.CurrentWaits, error) {
	return m.waits, m.err
}

func (m *mockParkView) AttractionHistory(_ context.Context, _ string, from, to time.Time) ([]models.AttractionStatus, error) {
	m.gotFrom, m.gotTo = from, to
	return m.history, m.err
}

func (m *mockParkView) HourlyWaits(_ context.Context, _ string, days int) ([]models.HourlyWait, error) {
	m.gotDays = days
	return m.hourly, m.err
}

type mockCallLog struct {
	calls     []models.ApiCallLog
	err       error
	gotFilter service.CallLogFilter
}

func (m *mockCallLog) List(_ context.Context, f service.CallLogFilter) ([]models.ApiCallLog, error) {
	m.gotFilter = f
	return m.calls, m.err
}

// newTestHandler assembles a Handler over the provided mocks, substituting
// inert defaults for any nil dependency.
func newTestHandler(auth service.Authorization, poller service.Poller, view service.ParkView, callLog service.CallLog) *Handler {
	if auth == nil {
		auth = &mockAuth{userID: 1}
	}
	if poller == nil {
		poller = &mockPoller{}
	}
	if view == nil {
		view = &mockParkView{}
	}
	if callLog == nil {
		callLog = &mockCallLog{}
	}
	svc := &service.Service{
		Ingest:        &mockIngest{},
		Poller:        poller,
		ParkView:      view,
		CallLog:       callLog,
		Authorization: auth,
	}
	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
	return NewHandler(svc, log)
}
