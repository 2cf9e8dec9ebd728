// Package fakeapi serves an in-memory rendition of the exam-prep REST API
// for local development and integration tests.
package fakeapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/upscprep/prepdesk/internal/config"
	"github.com/upscprep/prepdesk/internal/domain"
)

// Server holds the fixture API state.
type Server struct {
	cfg     *config.ServerConfig
	tokens  *tokenIssuer
	data    *dataset
	limiter *rate.Limiter
	logger  *slog.Logger
	now     func() time.Time
	demo    domain.Identity
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces time.Now, for tests that need to expire tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a fixture server with the demo account seeded.
func New(cfg *config.ServerConfig, logger *slog.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	// Late-bound so WithClock also moves token expiry and record timestamps.
	clock := func() time.Time { return s.now() }
	s.tokens = &tokenIssuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           clock,
	}
	s.data = newDataset(clock)

	demo, err := s.data.seedDemo()
	if err != nil {
		return nil, fmt.Errorf("seed fixtures: %w", err)
	}
	s.demo = demo
	logger.Info("Fixture data seeded", "demo_email", demo.Email, "mentors", len(s.data.mentors))
	return s, nil
}

// Demo returns the seeded demo identity.
func (s *Server) Demo() domain.Identity {
	return s.demo
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(CORS(strings.Split(s.cfg.AllowedOrigin, ",")))
	r.Use(rateLimit(s.limiter))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)
		r.Post("/auth/register", s.register)
		r.Post("/auth/refresh", s.refresh)

		r.Get("/mentors", s.listMentors)
		r.Get("/mentors/{id}", s.getMentor)
		r.Get("/mentors/{id}/availability", s.mentorAvailability)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/auth/me", s.me)

			r.Get("/assessments", s.listAssessments)
			r.Post("/assessments", s.createAssessment)
			r.Get("/assessments/{id}", s.getAssessment)
			r.Post("/assessments/{id}/submit", s.submitAssessment)

			r.Post("/evaluate/mcq", s.scoreMCQ)
			r.Post("/evaluate/subjective", s.scoreSubjective)
			r.Post("/ocr/extract", s.extractText)
			r.Get("/evaluations/{id}", s.getEvaluation)
			r.Get("/recommendations/{id}", s.getRecommendations)
			r.Get("/concept-cards/{topic}", s.getConceptCard)

			r.Post("/bookings", s.createBooking)
			r.Get("/bookings/me", s.myBookings)
			r.Get("/bookings/{id}", s.getBooking)
			r.Patch("/bookings/{id}", s.updateBooking)
			r.Delete("/bookings/{id}", s.cancelBooking)

			r.Get("/progress/user/{id}", s.userProgress)
			r.Get("/progress/comparison", s.compareProgress)
		})
	})

	return r
}
