package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		IngestRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brawlboss_ingest_runs_total",
			Help: "The total number of ingest cycles started.",
		}),
		IngestFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brawlboss_ingest_failures_total",
			Help: "The total number of ingest cycles aborted by an error.",
		}),
		IngestSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brawlboss_ingest_skipped_total",
			Help: "The total number of ingest cycles skipped because one was already running.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "brawlboss_ingest_duration_seconds",
			Help:    "The duration of a full ingest cycle.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		Upserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brawlboss_store_upserts_total",
			Help: "The total number of documents written to the store.",
		}, []string{"collection", "new"}),
		APINoData: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brawlboss_api_no_data_total",
			Help: "The total number of Brawl Stars API requests that returned no data.",
		}, []string{"endpoint"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brawlboss_commands_total",
			Help: "The total number of chat commands handled.",
		}, []string{"command"}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brawlboss_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brawlboss_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "brawlboss_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.IngestRuns,
		s.IngestFailures,
		s.IngestSkipped,
		s.IngestDuration,
		s.Upserts,
		s.APINoData,
		s.Commands,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncIngestRuns() {
	s.IngestRuns.Inc()
}

func (s *Service) IncIngestFailures() {
	s.IngestFailures.Inc()
}

func (s *Service) IncIngestSkipped() {
	s.IngestSkipped.Inc()
}

func (s *Service) ObserveIngestDuration(duration float64) {
	s.IngestDuration.Observe(duration)
}

func (s *Service) IncUpserts(collection string, isNew bool) {
	s.Upserts.WithLabelValues(collection, strconv.FormatBool(isNew)).Inc()
}

func (s *Service) IncAPINoData(endpoint string) {
	s.APINoData.WithLabelValues(endpoint).Inc()
}

func (s *Service) IncCommands(command string) {
	s.Commands.WithLabelValues(command).Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
