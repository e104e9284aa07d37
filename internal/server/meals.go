package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/maticai/matic/internal/ai"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/nutrition"
)

const maxBodyBytes = 10 << 20

type estimateRequest struct {
	Foods []nutrition.FoodInput `json:"foods"`
}

type estimateResponse struct {
	Estimates []nutrition.Estimate `json:"estimates"`
	Total     models.Nutrients     `json:"total"`
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) estimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if len(req.Foods) == 0 {
		s.writeError(w, http.StatusBadRequest, "foods is required")
		return
	}
	estimates := s.engine.EstimateAll(r.Context(), req.Foods)
	s.writeJSON(w, http.StatusOK, estimateResponse{
		Estimates: estimates,
		Total:     nutrition.Totals(estimates),
	})
}

// lookup answers a list of names with the records found, possibly fewer.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Names []string `json:"names"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	records := s.engine.LookupBatch(r.Context(), req.Names)
	if records == nil {
		records = []nutrition.FoodRecord{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"foods": records})
}

type analyzeResponse struct {
	estimateResponse
	Suggestions []string `json:"suggestions"`
}

func (s *Server) analyzeMeal(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		s.writeError(w, http.StatusServiceUnavailable, "photo analysis is not configured")
		return
	}
	var req struct {
		Image string `json:"image"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		s.writeError(w, http.StatusBadRequest, "image is required")
		return
	}

	analysis, err := s.analyzer.AnalyzeFood(r.Context(), req.Image)
	if err != nil {
		s.logger.Warn("food analysis failed", "error", err)
		if errors.Is(err, ai.ErrOverloaded) {
			s.writeError(w, http.StatusServiceUnavailable, "the AI service is overloaded, try again shortly")
			return
		}
		s.writeError(w, http.StatusBadGateway, "food analysis failed")
		return
	}

	estimates := s.engine.EstimateAll(r.Context(), analysis.Foods)
	suggestions := analysis.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	s.writeJSON(w, http.StatusOK, analyzeResponse{
		estimateResponse: estimateResponse{Estimates: estimates, Total: nutrition.Totals(estimates)},
		Suggestions:      suggestions,
	})
}

type saveMealRequest struct {
	Category   string               `json:"category"`
	ConsumedAt *time.Time           `json:"consumed_at"`
	Estimates  []nutrition.Estimate `json:"estimates"`
}

// saveMeal persists estimates the user confirmed.
func (s *Server) saveMeal(w http.ResponseWriter, r *http.Request) {
	var req saveMealRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if len(req.Estimates) == 0 {
		s.writeError(w, http.StatusBadRequest, "estimates is required")
		return
	}
	consumedAt := s.now()
	if req.ConsumedAt != nil {
		consumedAt = *req.ConsumedAt
	}

	entries, err := s.tracker.SaveEstimates(req.Estimates, req.Category, consumedAt, "")
	if err != nil {
		s.logger.Error("saving meal failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to save meal")
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"entries": entries})
}

func (s *Server) mealTotals(w http.ResponseWriter, r *http.Request) {
	day, ok := s.resolveDay(w, r)
	if !ok {
		return
	}
	totals, err := s.tracker.MealTotals(day)
	if err != nil {
		s.storeError(w, err, "meals")
		return
	}
	s.writeJSON(w, http.StatusOK, totals)
}
