// Package metrics exposes Prometheus collectors for the bridge service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests, labeled by method and code.",
		},
		[]string{"method", "code"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, labeled by method and route.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_uploads_total",
			Help: "Total number of spreadsheet uploads, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	uploadURLs = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bridge_upload_urls",
			Help:    "Number of URLs extracted per accepted upload.",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)

	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_upstream_requests_total",
			Help: "Total number of task service calls, labeled by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	upstreamRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_upstream_request_duration_seconds",
			Help:    "Histogram of task service call latencies, labeled by operation.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"op"},
	)

	downloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_downloads_total",
			Help: "Total number of generated spreadsheets, labeled by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
)

// Upload outcomes.
const (
	UploadSubmitted = "submitted"
	UploadRejected  = "rejected"
	UploadFailed    = "failed"
)

// Download kinds and outcomes.
const (
	DownloadResult   = "result"
	DownloadTemplate = "template"

	DownloadOK       = "ok"
	DownloadNotReady = "not_ready"
	DownloadFailed   = "failed"
)

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveUpload records an upload outcome and, for submitted uploads, the URL count.
func ObserveUpload(outcome string, urls int) {
	uploadsTotal.WithLabelValues(outcome).Inc()
	if outcome == UploadSubmitted {
		uploadURLs.Observe(float64(urls))
	}
}

// ObserveUpstreamRequest records one task service call.
func ObserveUpstreamRequest(op, outcome string, duration time.Duration) {
	upstreamRequestsTotal.WithLabelValues(op, outcome).Inc()
	upstreamRequestDurationSeconds.WithLabelValues(op).Observe(duration.Seconds())
}

// ObserveDownload records a spreadsheet generation attempt.
func ObserveDownload(kind, outcome string) {
	downloadsTotal.WithLabelValues(kind, outcome).Inc()
}
