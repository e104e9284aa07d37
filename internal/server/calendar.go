package server

import (
	"net/http"
	"strconv"

	"github.com/maticai/matic/internal/calendar"
)

const defaultFeedDays = 30

func (s *Server) calendarFeed(w http.ResponseWriter, r *http.Request) {
	days := defaultFeedDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}
	from, ok := s.resolveDay(w, r)
	if !ok {
		return
	}

	habits, err := s.tracker.Store().GetAllHabits(false)
	if err != nil {
		s.storeError(w, err, "habits")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="matic-habits.ics"`)
	if err := calendar.WriteHabitFeed(w, habits, from, days, s.now()); err != nil {
		s.logger.Error("writing calendar feed", "error", err)
	}
}
