package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	reportsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_created_total",
			Help: "Total number of maintenance reports created",
		},
		[]string{"problem_type"},
	)

	reportStatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_status_changes_total",
			Help: "Total number of report status changes",
		},
		[]string{"from_status", "to_status"},
	)

	reportsAssignedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reports_assigned_total",
			Help: "Total number of report assignments",
		},
	)

	reportsHiddenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reports_hidden_total",
			Help: "Total number of reports hidden from the admin view",
		},
	)

	roleChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_role_changes_total",
			Help: "Total number of role changes",
		},
		[]string{"new_role"},
	)
)

// ObserveRequest records HTTP metrics for one handled request.
func ObserveRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordReportCreated counts a created report.
func RecordReportCreated(problemType string) {
	reportsCreatedTotal.WithLabelValues(problemType).Inc()
}

// RecordStatusChange counts a status transition.
func RecordStatusChange(from, to string) {
	reportStatusChangesTotal.WithLabelValues(from, to).Inc()
}

// RecordReportAssigned counts an assignment.
func RecordReportAssigned() {
	reportsAssignedTotal.Inc()
}

// RecordReportHidden counts a soft delete.
func RecordReportHidden() {
	reportsHiddenTotal.Inc()
}

// RecordRoleChange counts a role change.
func RecordRoleChange(newRole string) {
	roleChangesTotal.WithLabelValues(newRole).Inc()
}
