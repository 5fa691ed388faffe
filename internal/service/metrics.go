package service

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sarvar/parkpulse/internal/themepark"
)

// Poll metrics on the default registry; exposed at /metrics.
var (
	pollTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parkpulse_poll_total",
		Help: "Upstream poll attempts by outcome.",
	}, []string{"outcome"})

	pollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "parkpulse_poll_duration_seconds",
		Help:    "Latency of upstream live-data fetches.",
		Buckets: prometheus.DefBuckets,
	})

	lastPollSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "parkpulse_last_successful_poll_timestamp_seconds",
		Help: "Unix time of the last fully processed poll.",
	})
)

const (
	outcomeSuccess   = "success"
	outcomeTransport = "transport_error"
	outcomeUpstream  = "upstream_status"
)

// observePollAttempt records one fetch attempt's latency and outcome.
func observePollAttempt(res themepark.FetchResult) {
	pollDuration.Observe(res.Elapsed.Seconds())

	switch {
	case res.Err == nil:
		pollTotal.WithLabelValues(outcomeSuccess).Inc()
	case errors.Is(res.Err, themepark.ErrUpstreamStatus):
		pollTotal.WithLabelValues(outcomeUpstream).Inc()
	default:
		pollTotal.WithLabelValues(outcomeTransport).Inc()
	}
}

// markPollSuccess stamps the completion of a fully normalized poll.
func markPollSuccess() {
	lastPollSuccess.Set(float64(time.Now().Unix()))
}
