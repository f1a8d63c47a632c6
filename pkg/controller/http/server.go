package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	slackCtrl "github.com/weevil-bot/weevil/pkg/controller/slack"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router       chi.Router
	slackHandler *slackCtrl.Handler
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, addr string, slackHandler *slackCtrl.Handler) *Server {
	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)

	// Slack webhook routes
	router.Route("/hooks/slack", func(r chi.Router) {
		r.Post("/event", slackHandler.HandleEvent)
	})

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router:       router,
		slackHandler: slackHandler,
	}
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "weevil",
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
	}
}
