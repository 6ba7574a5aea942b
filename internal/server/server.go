// Package server exposes the assistant over HTTP: a streaming invoke
// endpoint and a websocket variant, both stateless per request.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/imagicrafter/kwenv-fleetillo/internal/config"
	"github.com/imagicrafter/kwenv-fleetillo/internal/llm"
)

// Responder runs one assistant turn, emitting answer fragments as produced.
// Satisfied by *agent.Agent.
type Responder interface {
	Respond(ctx context.Context, messages []llm.Message, emit func(string)) error
}

// Server is the HTTP front end for the support assistant.
type Server struct {
	cfg       *config.Config
	assistant Responder
	router    chi.Router
	http      *http.Server
}

// New creates a Server around a configured assistant.
func New(cfg *config.Config, assistant Responder) *Server {
	s := &Server{
		cfg:       cfg,
		assistant: assistant,
		router:    chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		if s.cfg.Server.AuthToken != "" {
			r.Use(bearerAuth(s.cfg.Server.AuthToken))
		}
		r.Post("/assistant", s.handleInvoke)
		r.Get("/assistant/ws", s.handleWebSocket)
	})
}

// bearerAuth enforces the transport-level token when one is configured.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening on the given port.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	log.Printf("Fleetillo assistant listening on http://localhost%s", addr)
	return s.http.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.http.Shutdown(shutdownCtx)
}
