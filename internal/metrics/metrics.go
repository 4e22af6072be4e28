package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Accounts
	Registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Registration attempts by result",
		},
		[]string{"result"}, // ok|invalid|error
	)
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	// Catalog
	BookViews = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "book_views_total",
			Help: "Recorded book detail views",
		},
	)
	BookDownloads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "book_downloads_total",
			Help: "First downloads of a book by a user",
		},
	)
	BooksCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "books_created_total",
			Help: "Books added to the catalog",
		},
	)

	// Request intake
	RequestsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_requests_submitted_total",
			Help: "Order and send requests submitted",
		},
		[]string{"kind"}, // order|send
	)

	initOnce sync.Once
)

var Handler = promhttp.Handler

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			HTTPLatency,
			Registrations,
			Logins,
			BookViews,
			BookDownloads,
			BooksCreated,
			RequestsSubmitted,
		)
	})
}
