package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/brawlboss/internal/commands"
	"github.com/mauv0809/brawlboss/internal/config"
	"github.com/mauv0809/brawlboss/internal/ingest"
	"github.com/mauv0809/brawlboss/internal/metrics"
	"github.com/mauv0809/brawlboss/internal/notifier"
	"github.com/mauv0809/brawlboss/internal/stats"
	"github.com/mauv0809/brawlboss/internal/store"
	"golang.org/x/time/rate"
)

// Slash commands are limited per Slack user.
const (
	commandRate  rate.Limit = 2
	commandBurst            = 10
)

func NewServer(store store.Store, statsService *stats.Service, pipeline *ingest.Pipeline, responder *commands.Responder, notifier notifier.Notifier, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Store:          store,
		Stats:          statsService,
		Pipeline:       pipeline,
		Responder:      responder,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		limiter:        NewKeyedRateLimiter(commandRate, commandBurst),
	}
	if cfg.Slack.SigningSecret == "" {
		log.Warn("SLACK_SIGNING_SECRET is not set, slash command requests will not be verified")
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/update", Chain(s.UpdateHandler(), paramsMiddleware))
	s.Router.Handle("/members", Chain(s.ListMembersHandler(), paramsMiddleware))
	s.Router.Handle("/rankings", Chain(s.RankingsHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{tag}", Chain(s.PlayerHandler(), paramsMiddleware))
	s.Router.Handle("POST /slack/command/{name}", Chain(s.SlashCommandHandler(),
		paramsMiddleware,
		slackVerifyMiddleware(s.Cfg.Slack.SigningSecret),
		RateLimitMiddleware(s.limiter, slackUserKey),
	))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
