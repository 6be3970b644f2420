package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncIngestRuns()
	IncIngestFailures()
	IncIngestSkipped()
	ObserveIngestDuration(duration float64)
	IncUpserts(collection string, isNew bool)
	IncAPINoData(endpoint string)
	IncCommands(command string)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
