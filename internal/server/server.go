// Package server exposes the tracker and the nutrition engine over a local
// JSON API and an iCalendar feed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/maticai/matic/internal/ai"
	"github.com/maticai/matic/internal/logger"
	"github.com/maticai/matic/internal/nutrition"
	"github.com/maticai/matic/internal/storage"
	"github.com/maticai/matic/internal/tracker"
)

// FoodAnalyzer identifies foods in a photo.
type FoodAnalyzer interface {
	AnalyzeFood(ctx context.Context, imageBase64 string) (ai.FoodAnalysis, error)
}

type Options struct {
	Tracker *tracker.Service
	Engine  *nutrition.Engine
	// Analyzer may be nil, in which case photo analysis answers 503.
	Analyzer FoodAnalyzer
	Logger   *log.Logger
	Now      func() time.Time
}

type Server struct {
	router   *chi.Mux
	tracker  *tracker.Service
	engine   *nutrition.Engine
	analyzer FoodAnalyzer
	logger   *log.Logger
	now      func() time.Time
}

func New(opts Options) *Server {
	s := &Server{
		tracker:  opts.Tracker,
		engine:   opts.Engine,
		analyzer: opts.Analyzer,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.logger == nil {
		s.logger = logger.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(s.requestLogger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			s.logger.Debug("failed to write health response", "error", err)
		}
	})

	router.Get("/calendar.ics", s.calendarFeed)

	router.Route("/api", func(r chi.Router) {
		r.Get("/agenda", s.agenda)

		r.Get("/habits/due", s.dueHabits)
		r.Get("/habits/week", s.week)
		r.Post("/habits/{id}/progress/{date}/toggle", s.toggleProgress)

		r.Get("/tasks/due", s.dueTasks)

		r.Post("/nutrition/estimate", s.estimate)
		r.Post("/nutrition/lookup", s.lookup)

		r.Post("/meals/analyze", s.analyzeMeal)
		r.Post("/meals", s.saveMeal)
		r.Get("/meals/totals", s.mealTotals)
	})

	s.router = router
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Debug("failed to write response", "status", status, "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// storeError maps a storage failure to a response, logging unexpected ones.
func (s *Server) storeError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	s.logger.Error("storage failure", "what", what, "error", err)
	s.writeError(w, http.StatusInternalServerError, "failed to load "+what)
}
