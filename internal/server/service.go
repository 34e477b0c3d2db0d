// Package server exposes the resolver and scoring engine over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/teamgrow/studymatch/internal/db"
	"github.com/teamgrow/studymatch/internal/matching"
	"github.com/teamgrow/studymatch/internal/tags"
	"github.com/teamgrow/studymatch/pkg/models"
)

const (
	// maxRequestBody caps request bodies; match requests carry candidate
	// pools so the limit is generous.
	maxRequestBody = 1 << 20 // 1 MiB

	shutdownTimeout = 10 * time.Second
)

// VocabAdmin is the administrative vocabulary surface: creating canonical
// tags ahead of resolution and inspecting the current vocabulary.
type VocabAdmin interface {
	CreateIfAbsent(ctx context.Context, label, description string) (*models.CanonicalTag, error)
	List(ctx context.Context) ([]models.CanonicalTag, error)
}

// Service wires the HTTP surface to the domain components.
type Service struct {
	resolver *tags.Resolver
	engine   *matching.Engine
	vocab    VocabAdmin // optional; admin routes are skipped without it
	store    *db.Store  // optional; health reports without it

	router *chi.Mux
	server *http.Server
}

// NewService creates the HTTP service.
func NewService(port int, resolver *tags.Resolver, engine *matching.Engine, vocab VocabAdmin, store *db.Store) *Service {
	s := &Service{
		resolver: resolver,
		engine:   engine,
		vocab:    vocab,
		store:    store,
		router:   chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Service) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(SecurityHeaders)
	s.router.Use(MaxBodySize(maxRequestBody))
	s.router.Use(RequestLogger)
}

func (s *Service) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/tags", func(r chi.Router) {
			r.Post("/resolve", s.handleResolveTags)
			if s.vocab != nil {
				r.Post("/", s.handleCreateTag)
				r.Get("/", s.handleListTags)
			}
		})
		r.Post("/surveys/score", s.handleScoreSurvey)
		r.Post("/matches", s.handleMatches)
	})
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Service) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}
