package http

import (
	"net/http"

	"github.com/mauv0809/brawlboss/internal/brawlstars"
	"github.com/mauv0809/brawlboss/internal/commands"
	"github.com/mauv0809/brawlboss/internal/config"
	"github.com/mauv0809/brawlboss/internal/ingest"
	"github.com/mauv0809/brawlboss/internal/metrics"
	"github.com/mauv0809/brawlboss/internal/notifier"
	"github.com/mauv0809/brawlboss/internal/stats"
	"github.com/mauv0809/brawlboss/internal/store"
)

type Server struct {
	Store          store.Store
	Stats          *stats.Service
	Pipeline       *ingest.Pipeline
	Responder      *commands.Responder
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux

	limiter *KeyedRateLimiter
}

// rankingsResponse is the JSON body of /rankings.
type rankingsResponse struct {
	Club     string          `json:"club"`
	Rankings []stats.Ranking `json:"rankings"`
}

// playerResponse is the JSON body of /players/{tag}.
type playerResponse struct {
	Player  brawlstars.Player `json:"player"`
	Profile stats.Profile     `json:"profile"`
}
