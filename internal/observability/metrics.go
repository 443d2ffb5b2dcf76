package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	usersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "users",
		Name:      "created_total",
		Help:      "Number of users inserted into the store.",
	})
	exercisesLogged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "exercises",
		Name:      "logged_total",
		Help:      "Number of exercises inserted into the store.",
	})
	eventPublishFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Events that could not be handed to the broker.",
	}, []string{"channel"})
	httpRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "exercise_tracker",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(usersCreated, exercisesLogged, eventPublishFailures, httpRequests)
}

// RecordUserCreated counts a newly inserted user.
func RecordUserCreated() {
	usersCreated.Inc()
}

// RecordExerciseLogged counts a newly inserted exercise.
func RecordExerciseLogged() {
	exercisesLogged.Inc()
}

// RecordPublishFailure counts an event that failed to publish.
func RecordPublishFailure(channel string) {
	eventPublishFailures.WithLabelValues(channel).Inc()
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
