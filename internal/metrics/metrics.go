package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ImageUploadsTotal counts image uploads by outcome (ok, error).
	ImageUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_uploads_total",
			Help: "Total number of image uploads by outcome",
		},
		[]string{"outcome"},
	)

	// RecipesTotal counts recipe mutations by operation (created, updated, deleted).
	RecipesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipes_total",
			Help: "Total number of recipe mutations by operation",
		},
		[]string{"operation"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, ImageUploadsTotal, RecipesTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /api/recipes/123 -> /api/recipes/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncImageUpload increments the upload counter for the given outcome (ok, error).
func IncImageUpload(outcome string) {
	ImageUploadsTotal.WithLabelValues(outcome).Inc()
}

// IncRecipe increments the recipe mutation counter for the given operation (created, updated, deleted).
func IncRecipe(operation string) {
	RecipesTotal.WithLabelValues(operation).Inc()
}
