package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	LedgerOperationTotal       = "ledger_operations_total"
	LedgerAmountTotal          = "ledger_amount_total"
	CronJobDurationSeconds     = "cron_job_duration_seconds"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "path", "status_code"}),
		LedgerOperationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: LedgerOperationTotal,
			Help: "Count of all committed ledger operations",
		}, []string{"type"}),
		LedgerAmountTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: LedgerAmountTotal,
			Help: "Absolute amount moved by committed ledger operations",
		}, []string{"type"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "path", "status_code"}),
		CronJobDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    CronJobDurationSeconds,
			Help:    "Duration of every cron job run",
			Buckets: []float64{0.01, 0.1, 1, 10, 60},
		}, []string{"job"}),
	}
)
