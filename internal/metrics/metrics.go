package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portal"

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "route", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "notifications_total", Help: "Notification deliveries by template and result",
	}, []string{"template", "result"})
	NotificationAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "notification_attempts_total", Help: "Individual transport send attempts",
	})

	StatusTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "status_transitions_total", Help: "Participation status updates",
	}, []string{"kind", "status"})
	Submissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "submissions_total", Help: "Participation submissions by outcome",
	}, []string{"kind", "outcome"})

	LowCreditStudents = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "low_credit_students", Help: "Students below the credit threshold at the last sweep",
	})

	JobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "job_runs_total", Help: "Total background job runs",
	}, []string{"job"})
	JobErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "job_errors_total", Help: "Total background job errors",
	}, []string{"job"})
	JobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "job_duration_seconds", Help: "Background job duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})

	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequests, HTTPDuration,
		Notifications, NotificationAttempts,
		StatusTransitions, Submissions, LowCreditStudents,
		JobRuns, JobErrors, JobDuration,
		DBPing,
	)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

// ObserveJob records one run of a background job.
func ObserveJob(name string, start time.Time, err error) {
	if err != nil {
		JobErrors.WithLabelValues(name).Inc()
	}
	JobRuns.WithLabelValues(name).Inc()
	JobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
