package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// HTTP surface
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wordflash_http_requests_total",
		Help: "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wordflash_http_request_duration_seconds",
		Help:    "HTTP handler duration by route pattern.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"route"})

	// Practice
	ReviewsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wordflash_reviews_total",
		Help: "Scored practice results by outcome.",
	}, []string{"result"})

	MasteryLevel = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wordflash_mastery_level",
		Help:    "Mastery level of a card after a scored result.",
		Buckets: []float64{0, 20, 40, 60, 80, 100},
	})

	PracticeSessionsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wordflash_practice_sessions_started_total",
		Help: "Practice sessions started by mode.",
	}, []string{"mode"})

	ActivePracticeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wordflash_practice_sessions_active",
		Help: "Practice sessions currently held in memory.",
	})

	// Background work
	ImportedCardsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wordflash_imported_cards_total",
		Help: "Flashcards created through bulk import.",
	})

	RemindersSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wordflash_reminders_total",
		Help: "Review reminders by delivery status.",
	}, []string{"status"})

	StatsCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wordflash_stats_cache_total",
		Help: "Dashboard cache lookups by outcome.",
	}, []string{"outcome"})
)

func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		ReviewsTotal,
		MasteryLevel,
		PracticeSessionsStarted,
		ActivePracticeSessions,
		ImportedCardsTotal,
		RemindersSentTotal,
		StatsCacheTotal,
	)
}
