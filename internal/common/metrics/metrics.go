// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	IntegrityScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checklist_integrity_score",
			Help:    "Integrity scores of audited food safety lists",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	IntegrityBands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checklist_integrity_band_total",
			Help: "Audited lists by integrity band",
		},
		[]string{"band"},
	)

	IntegrityIssues = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checklist_integrity_issues_total",
			Help: "Integrity findings by code",
		},
		[]string{"code"},
	)

	SanitizerStatus = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checklist_sanitizer_status_total",
			Help: "Audited lists by sanitizer expiration level",
		},
		[]string{"status"},
	)

	AuditCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checklist_audit_cache_requests_total",
			Help: "Audit cache lookups by result",
		},
		[]string{"result"},
	)

	IntegrityAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checklist_integrity_alerts_total",
			Help: "Reviewer alerts by delivery status",
		},
		[]string{"status"},
	)
)
