// Package metrics defines the custom Prometheus metrics of the field task API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Every metric is registered with the default registry through promauto, so
// importing the package is enough; the /metrics route exposes them together
// with the echoprometheus request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fieldtask"

// ── Token metrics ─────────────────────────────────────────────────────────────

// TokensIssuedTotal counts signed tokens.
// Label:
//   - kind: "access" or "refresh"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued, by kind.",
	},
	[]string{"kind"},
)

// TokenRejectionsTotal counts tokens refused during verification.
// Label:
//   - reason: "invalid", "expired", "revoked" or "wrong_kind"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of tokens rejected during verification.",
	},
	[]string{"reason"},
)

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksCreatedTotal counts planned tasks.
// Label:
//   - source: "api" or "import"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by source.",
	},
	[]string{"source"},
)

// TasksCompletedTotal counts completions and updates that stamped a task.
// Label:
//   - located: "true" when coordinates were recovered from the photos
var TasksCompletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_completed_total",
		Help:      "Total number of task completions, by whether a location was found.",
	},
	[]string{"located"},
)

// ── Geolocation metrics ───────────────────────────────────────────────────────

// GeoExtractionsTotal counts coordinate extraction attempts.
// Label:
//   - result: "found", "no_gps", "invalid", "fetch_error" or "decode_error"
var GeoExtractionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geo_extractions_total",
		Help:      "Total number of photo geolocation attempts, by result.",
	},
	[]string{"result"},
)

// PhotoFetchDuration measures how long downloading a candidate photo takes.
// Label:
//   - status: "ok" or "error"
var PhotoFetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "photo_fetch_duration_seconds",
		Help:      "Duration of candidate photo downloads.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"status"},
)

// PhotosUploadedTotal counts photos written to object storage.
// Label:
//   - status: "ok" or "error"
var PhotosUploadedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photos_uploaded_total",
		Help:      "Total number of photo uploads to object storage, by status.",
	},
	[]string{"status"},
)
