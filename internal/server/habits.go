package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/tracker"
)

// resolveDay reads ?date=YYYY-MM-DD, defaulting to today.
func (s *Server) resolveDay(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	day, err := s.tracker.Day(r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return time.Time{}, false
	}
	return day, true
}

func (s *Server) agenda(w http.ResponseWriter, r *http.Request) {
	day, ok := s.resolveDay(w, r)
	if !ok {
		return
	}
	agenda, err := s.tracker.Agenda(day)
	if err != nil {
		s.storeError(w, err, "agenda")
		return
	}
	s.writeJSON(w, http.StatusOK, agenda)
}

func (s *Server) dueHabits(w http.ResponseWriter, r *http.Request) {
	day, ok := s.resolveDay(w, r)
	if !ok {
		return
	}
	habits, err := s.tracker.DueHabits(day)
	if err != nil {
		s.storeError(w, err, "habits")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"date":   day.Format(constants.DateFormat),
		"habits": habits,
	})
}

func (s *Server) week(w http.ResponseWriter, r *http.Request) {
	day, ok := s.resolveDay(w, r)
	if !ok {
		return
	}
	week, err := s.tracker.Week(day)
	if err != nil {
		s.storeError(w, err, "week")
		return
	}
	s.writeJSON(w, http.StatusOK, week)
}

func (s *Server) toggleProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	date := chi.URLParam(r, "date")

	next, err := s.tracker.Toggle(id, date)
	if err != nil {
		if _, perr := s.tracker.Day(date); perr != nil {
			s.writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		if errors.Is(err, tracker.ErrNotDue) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.storeError(w, err, "habit")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"habit_id": id,
		"date":     date,
		"state":    next.State(),
		"progress": next,
	})
}

func (s *Server) dueTasks(w http.ResponseWriter, r *http.Request) {
	day, ok := s.resolveDay(w, r)
	if !ok {
		return
	}
	tasks, err := s.tracker.DueTasks(day)
	if err != nil {
		s.storeError(w, err, "tasks")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"date":  day.Format(constants.DateFormat),
		"tasks": tasks,
	})
}
