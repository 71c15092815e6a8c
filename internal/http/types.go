package http

import (
	"net/http"

	"github.com/pongclub/ladderbot/internal/config"
	"github.com/pongclub/ladderbot/internal/ladder"
	"github.com/pongclub/ladderbot/internal/metrics"
	"github.com/pongclub/ladderbot/internal/notifier"
	"github.com/pongclub/ladderbot/internal/stats"
)

type Server struct {
	Store          ladder.Store
	Stats          *stats.Engine
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Notifier       notifier.Notifier
	Cfg            config.Config
	Router         *http.ServeMux
}
