package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sarvar/parkpulse/internal/models"
	"github.com/sarvar/parkpulse/internal/service"
)

const testAttractionID = "c9d1e2f3-3333-4c3e-9c5d-000000000002"

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(h *Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	router := h.InitRoutes()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetParkOverview_OK(t *testing.T) {
	view := &mockParkView{
		overview: service.ParkOverview{
			Park: &models.Park{ID: "p", Name: "Epic Universe"},
			Attractions: []models.LatestAttraction{
				{ID: testAttractionID, Name: "Stardust Racers", Status: "OPERATING"},
			},
			CurrentTime: time.Now().UTC(),
		},
	}
	h := newTestHandler(nil, nil, view, nil)

	w := doRequest(h, http.MethodGet, "/api/v1/park", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got service.ParkOverview
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if got.Park == nil || got.Park.Name != "Epic Universe" {
		t.Fatalf("unexpected park: %+v", got.Park)
	}
	if len(got.Attractions) != 1 {
		t.Fatalf("unexpected attractions: %+v", got.Attractions)
	}
}

func TestGetParkOverview_ServiceError(t *testing.T) {
	view := &mockParkView{err: errors.New("db down")}
	h := newTestHandler(nil, nil, view, nil)

	w := doRequest(h, http.MethodGet, "/api/v1/park", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetCurrentWaits_OK(t *testing.T) {
	wait := 45
	view := &mockParkView{
		waits: service.CurrentWaits{
			ParkName:  "Epic Universe",
			Timestamp: time.Now().UTC(),
			Attractions: []models.LatestAttraction{
				{ID: testAttractionID, Name: "Stardust Racers", Status: "OPERATING", StandbyWait: &wait},
			},
		},
	}
	h := newTestHandler(nil, nil, view, nil)

	w := doRequest(h, http.MethodGet, "/api/v1/waits", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got service.CurrentWaits
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if got.ParkName != "Epic Universe" || len(got.Attractions) != 1 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestGetCurrentWaits_NoDataYet(t *testing.T) {
	view := &mockParkView{err: service.ErrNoParkData}
	h := newTestHandler(nil, nil, view, nil)

	w := doRequest(h, http.MethodGet, "/api/v1/waits", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetCurrentWaits_InternalErrorIsNot404(t *testing.T) {
	view := &mockParkView{err: errors.New("db down")}
	h := newTestHandler(nil, nil, view, nil)

	w := doRequest(h, http.MethodGet, "/api/v1/waits", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 for non-missing-data failures", w.Code)
	}
}

func TestGetAttractionHistory_ParsesRange(t *testing.T) {
	view := &mockParkView{
		history: []models.AttractionStatus{{ID: 1, AttractionID: testAttractionID, Status: "OPERATING"}},
	}
	h := newTestHandler(nil, nil, view, nil)

	target := "/api/v1/attractions/" + testAttractionID + "/history?from=2025-05-21T00:00:00Z&to=2025-05-22T00:00:00Z"
	w := doRequest(h, http.MethodGet, target, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	wantFrom := time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC)
	if !view.gotFrom.Equal(wantFrom) {
		t.Fatalf("from = %v, want %v", view.gotFrom, wantFrom)
	}

	var body struct {
		Count   int                       `json:"count"`
		History []models.AttractionStatus `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Count != 1 || len(body.History) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestGetAttractionHistory_BadID(t *testing.T) {
	h := newTestHandler(nil, nil, &mockParkView{}, nil)

	w := doRequest(h, http.MethodGet, "/api/v1/attractions/not-a-uuid/history", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetAttractionHistory_BadFromParam(t *testing.T) {
	h := newTestHandler(nil, nil, &mockParkView{}, nil)

	w := doRequest(h, http.MethodGet, "/api/v1/attractions/"+testAttractionID+"/history?from=yesterday", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetHourlyWaits_DaysParam(t *testing.T) {
	view := &mockParkView{hourly: []models.HourlyWait{{Hour: 10, AvgWait: 25.5, Samples: 4}}}
	h := newTestHandler(nil, nil, view, nil)

	w := doRequest(h, http.MethodGet, "/api/v1/attractions/"+testAttractionID+"/hourly?days=14", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if view.gotDays != 14 {
		t.Fatalf("days = %d, want 14", view.gotDays)
	}
}

func TestGetHourlyWaits_InvalidDays(t *testing.T) {
	h := newTestHandler(nil, nil, &mockParkView{}, nil)

	w := doRequest(h, http.MethodGet, "/api/v1/attractions/"+testAttractionID+"/hourly?days=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(nil, nil, nil, nil)

	w := doRequest(h, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
