package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	IngestRuns         prometheus.Counter
	IngestFailures     prometheus.Counter
	IngestSkipped      prometheus.Counter
	IngestDuration     prometheus.Histogram
	Upserts            *prometheus.CounterVec
	APINoData          *prometheus.CounterVec
	Commands           *prometheus.CounterVec
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
