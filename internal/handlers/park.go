package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sarvar/parkpulse/internal/service"
)

const (
	errGetOverview = "failed to load park overview"
	errGetWaits    = "failed to load current waits"
	errGetHistory  = "failed to load attraction history"
	errGetHourly   = "failed to load hourly averages"

	errBadAttractionID = "invalid attraction id"
	errBadFromParam    = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errBadToParam      = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
)

func (h *Handler) getParkOverview(c *gin.Context) {
	ctx := c.Request.Context()
	overview, err := h.services.ParkView.Overview(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetOverview, "park_overview_failed", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *Handler) getCurrentWaits(c *gin.Context) {
	ctx := c.Request.Context()
	waits, err := h.services.ParkView.CurrentWaits(ctx)
	if err != nil {
		// 404 only means "no poll has landed yet"; anything else is ours
		if errors.Is(err, service.ErrNoParkData) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetWaits, "current_waits_failed", err)
		return
	}
	c.JSON(http.StatusOK, waits)
}

func (h *Handler) getAttractionHistory(c *gin.Context) {
	attractionID, ok := h.attractionIDParam(c)
	if !ok {
		return
	}

	var (
		from time.Time
		to   time.Time
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errBadFromParam})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errBadToParam})
			return
		}
	}

	ctx := c.Request.Context()
	history, err := h.services.ParkView.AttractionHistory(ctx, attractionID, from, to)
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "attraction_history_failed", err, "attraction_id", attractionID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"attraction_id": attractionID,
		"count":         len(history),
		"history":       history,
	})
}

func (h *Handler) getHourlyWaits(c *gin.Context) {
	attractionID, ok := h.attractionIDParam(c)
	if !ok {
		return
	}

	days := 0
	if qs := c.Query("days"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'days' value"})
			return
		}
		days = v
	}

	ctx := c.Request.Context()
	hourly, err := h.services.ParkView.HourlyWaits(ctx, attractionID, days)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetHourly, "hourly_waits_failed", err, "attraction_id", attractionID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"attraction_id": attractionID,
		"hourly":        hourly,
	})
}

// attractionIDParam validates the :id path segment as a UUID.
func (h *Handler) attractionIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadAttractionID})
		return "", false
	}
	return id, true
}
