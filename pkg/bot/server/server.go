// Package server runs the HTTP endpoint surface of the bot: the Slack
// events endpoint, the health check and the Prometheus metrics endpoint.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	slackutil "github.com/bot25-netizen/SlackChatBot/pkg/bot/slack"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

const moduleName = "server"

// Server wraps the bot's http.Server and ties it to the Fx lifecycle.
type Server struct {
	srv *http.Server
}

// Params defines the dependencies of the Server.
type Params struct {
	fx.In

	Lifecycle      fx.Lifecycle
	Cfg            *config.Config
	Events         *slackutil.EventsHandler
	MetricsHandler http.Handler `name:"metricsHandler"`
}

// NewServer creates the HTTP server and registers lifecycle hooks that start
// and stop it. The listener is opened during OnStart so a bind failure stops
// application startup instead of surfacing later.
func NewServer(p Params) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.Handle("/slack/events", p.Events)
	mux.Handle("/metrics", p.MetricsHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", p.Cfg.Bot.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s := &Server{srv: srv}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return exception.NewBotErrorf(moduleName, "failed to listen on %s", srv.Addr, err)
			}
			logger.Infof("HTTP server listening on %s.", srv.Addr)
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Errorf("HTTP server terminated unexpectedly: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Infof("Shutting down HTTP server.")
			return srv.Shutdown(ctx)
		},
	})
	return s
}

// handleHealth reports process liveness.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
