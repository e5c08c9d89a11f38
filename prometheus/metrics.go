package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the domain collectors
type Metrics struct {
	DbOperationDuration *prometheus.HistogramVec
	AuthAttempts        *prometheus.CounterVec
	GalleryOperations   *prometheus.CounterVec
	VideoOperations     *prometheus.CounterVec
	ImportedRows        *prometheus.CounterVec
	ImportDuration      prometheus.Histogram
	OrderTransitions    *prometheus.CounterVec
	SectionErrors       *prometheus.CounterVec
	SectionDuration     *prometheus.HistogramVec
	CacheLookups        *prometheus.CounterVec
	MediaCleanupErrors  prometheus.Counter
	EventsPublished     *prometheus.CounterVec
}

var m *Metrics

// InitMetrics registers the domain collectors on reg using prefix as the metric namespace
func InitMetrics(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m = &Metrics{
		DbOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		),
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_attempts_total",
				Help: "Merchant authentication attempts by outcome",
			},
			[]string{"kind", "outcome"},
		),
		GalleryOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_gallery_operations_total",
				Help: "Total number of store gallery operations",
			},
			[]string{"operation"},
		),
		VideoOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_video_operations_total",
				Help: "Total number of promotional video operations",
			},
			[]string{"operation"},
		),
		ImportedRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_bulk_import_rows_total",
				Help: "Bulk import rows by outcome",
			},
			[]string{"outcome"},
		),
		ImportDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    prefix + "_bulk_import_duration_seconds",
				Help:    "Duration of bulk product imports",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		OrderTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_order_status_transitions_total",
				Help: "Order status changes by target status",
			},
			[]string{"to"},
		),
		SectionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_page_section_errors_total",
				Help: "Failed homepage and offers page sections",
			},
			[]string{"page", "section"},
		),
		SectionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_page_build_duration_seconds",
				Help:    "Time spent assembling aggregated pages",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"page"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_page_cache_lookups_total",
				Help: "Page cache lookups by result",
			},
			[]string{"page", "result"},
		),
		MediaCleanupErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_media_cleanup_errors_total",
				Help: "Media host deletions that failed and were skipped",
			},
		),
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_events_published_total",
				Help: "Domain events handed to the message bus",
			},
			[]string{"type", "outcome"},
		),
	}
	return m
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if m == nil {
			return
		}
		m.DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordAuthAttempt counts a login or registration attempt
func RecordAuthAttempt(kind, outcome string) {
	if m != nil {
		m.AuthAttempts.WithLabelValues(kind, outcome).Inc()
	}
}

// RecordGalleryOperation increments the counter for gallery operations
func RecordGalleryOperation(operation string) {
	if m != nil {
		m.GalleryOperations.WithLabelValues(operation).Inc()
	}
}

// RecordVideoOperation increments the counter for video operations
func RecordVideoOperation(operation string) {
	if m != nil {
		m.VideoOperations.WithLabelValues(operation).Inc()
	}
}

// RecordImport records the row outcomes and duration of one import
func RecordImport(successful, failed, warnings int, duration time.Duration) {
	if m == nil {
		return
	}
	m.ImportedRows.WithLabelValues("success").Add(float64(successful))
	m.ImportedRows.WithLabelValues("failed").Add(float64(failed))
	m.ImportedRows.WithLabelValues("warning").Add(float64(warnings))
	m.ImportDuration.Observe(duration.Seconds())
}

// RecordOrderTransition counts an applied status change
func RecordOrderTransition(to string) {
	if m != nil {
		m.OrderTransitions.WithLabelValues(to).Inc()
	}
}

// RecordSectionError counts a section that fell back to an empty list
func RecordSectionError(page, section string) {
	if m != nil {
		m.SectionErrors.WithLabelValues(page, section).Inc()
	}
}

// ObservePageBuild records how long an aggregated page took to assemble
func ObservePageBuild(page string, d time.Duration) {
	if m != nil {
		m.SectionDuration.WithLabelValues(page).Observe(d.Seconds())
	}
}

// RecordCacheLookup counts a page cache hit or miss
func RecordCacheLookup(page string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(page, result).Inc()
}

// RecordMediaCleanupError counts a swallowed media host deletion failure
func RecordMediaCleanupError() {
	if m != nil {
		m.MediaCleanupErrors.Inc()
	}
}

// RecordEventPublished counts a publish attempt
func RecordEventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.EventsPublished.WithLabelValues(eventType, outcome).Inc()
}
