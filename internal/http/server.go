package http

import (
	"net/http"

	"github.com/pongclub/ladderbot/internal/config"
	"github.com/pongclub/ladderbot/internal/ladder"
	"github.com/pongclub/ladderbot/internal/metrics"
	"github.com/pongclub/ladderbot/internal/notifier"
	"github.com/pongclub/ladderbot/internal/stats"
)

func NewServer(store ladder.Store, statsEngine *stats.Engine, metricsSvc metrics.Metrics, metricsHandler http.Handler, notifier notifier.Notifier, cfg config.Config) *Server {
	server := &Server{
		Store:          store,
		Stats:          statsEngine,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Notifier:       notifier,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an
	// authentication middleware for the admin surface.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/record", Chain(s.RecordMatchHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.MatchesHandler(), paramsMiddleware))
	s.Router.Handle("/player", Chain(s.PlayerHandler(), paramsMiddleware))
	s.Router.Handle("/versus", Chain(s.VersusHandler(), paramsMiddleware))
	s.Router.Handle("/admin/hide-player", Chain(s.HidePlayerHandler(), paramsMiddleware))
	s.Router.Handle("/admin/delete-match", Chain(s.DeleteMatchHandler(), paramsMiddleware))
	s.Router.Handle("/admin/rebuild", Chain(s.RebuildHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/pong", Chain(s.PongCommandHandler(), paramsMiddleware, s.verifySlackSignature))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
