package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sarvar/parkpulse/internal/service"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errListCalls   = "failed to load call logs"
	errRefresh     = "refresh failed"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

func (h *Handler) getCallLogs(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		from time.Time
		to   time.Time
		err  error
	)
	// Parse 'from' (optional)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	// Parse 'to' (optional). If only a date is provided, make it end-of-day inclusive.
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}

	onlyFailures := false
	if qs := c.Query("failed"); qs != "" {
		onlyFailures = qs == "1" || strings.EqualFold(qs, "true")
	}
	limit := 0
	if qs := c.Query("limit"); qs != "" {
		if v, convErr := strconv.Atoi(qs); convErr == nil {
			limit = v
		}
	}

	calls, err := h.services.CallLog.List(ctx, service.CallLogFilter{
		From:         from,
		To:           to,
		OnlyFailures: onlyFailures,
		Limit:        limit,
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListCalls, "call_logs_list_failed", err, "from", from, "to", to)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(calls),
		"calls": calls,
	})
}

// triggerRefresh runs the pipeline once on operator demand, reusing the same
// orchestration (and overlap guard) as the scheduled cadence.
func (h *Handler) triggerRefresh(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.services.Poller.RunOnce(ctx)
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusBadGateway, errRefresh+": "+err.Error(), "manual_refresh_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "refreshed",
		"summary": stats.Summary(),
		"stats":   stats,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
