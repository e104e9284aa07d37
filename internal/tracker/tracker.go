// Package tracker is the application service shared by the CLI, the TUI and
// the HTTP API: it reads through a storage.Provider and applies the habit
// evaluator, the progress cycle and meal aggregation.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/logger"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/nutrition"
	"github.com/maticai/matic/internal/scheduler"
	"github.com/maticai/matic/internal/storage"
	"github.com/maticai/matic/internal/utils"
)

// ErrNotDue rejects progress for a habit that is archived or not scheduled
// on the requested date.
var ErrNotDue = errors.New("habit is not due on this date")

type Service struct {
	store     storage.Provider
	scheduler *scheduler.Scheduler
	logger    *log.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:     store,
		scheduler: scheduler.New(),
		logger:    logger.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Store() storage.Provider {
	return s.store
}

// Location returns the configured timezone.
func (s *Service) Location() (*time.Location, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, err
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	return loc, nil
}

// Day resolves a YYYY-MM-DD string, or today in the configured timezone
// when it is empty.
func (s *Service) Day(date string) (time.Time, error) {
	if date != "" {
		return utils.ParseDate(date)
	}
	loc, err := s.Location()
	if err != nil {
		return time.Time{}, err
	}
	now := s.now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}

// HabitStatus is a due habit with its state for the day.
type HabitStatus struct {
	models.Habit
	State    constants.ProgressState `json:"state"`
	Progress *models.HabitProgress   `json:"progress,omitempty"`
}

// DueHabits lists the habits due on day with their progress.
func (s *Service) DueHabits(day time.Time) ([]HabitStatus, error) {
	habits, err := s.store.GetAllHabits(false)
	if err != nil {
		return nil, err
	}
	date := day.Format(constants.DateFormat)
	records, err := s.store.GetHabitProgressRange(date, date)
	if err != nil {
		return nil, err
	}
	index := utils.IndexProgress(records)

	due := utils.DueHabits(habits, day)
	out := make([]HabitStatus, 0, len(due))
	for _, h := range due {
		st := HabitStatus{Habit: h, State: constants.ProgressNone}
		if p, ok := index[h.ID][date]; ok {
			st.Progress = &p
			st.State = p.State()
		}
		out = append(out, st)
	}
	return out, nil
}

// DueTasks lists the tasks due on day.
func (s *Service) DueTasks(day time.Time) ([]models.Task, error) {
	tasks, err := s.store.GetAllTasks(false)
	if err != nil {
		return nil, err
	}
	return utils.DueTasks(tasks, day), nil
}

// Agenda builds the day's agenda.
func (s *Service) Agenda(day time.Time) (scheduler.Agenda, error) {
	habits, err := s.store.GetAllHabits(false)
	if err != nil {
		return scheduler.Agenda{}, err
	}
	date := day.Format(constants.DateFormat)
	progress, err := s.store.GetHabitProgressRange(date, date)
	if err != nil {
		return scheduler.Agenda{}, err
	}
	tasks, err := s.store.GetAllTasks(false)
	if err != nil {
		return scheduler.Agenda{}, err
	}
	return s.scheduler.BuildAgenda(day, habits, progress, tasks), nil
}

type Week struct {
	Dates []string        `json:"dates"`
	Rows  []utils.WeekRow `json:"rows"`
}

// Week lays out the week containing day, starting on the configured weekday.
func (s *Service) Week(day time.Time) (Week, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return Week{}, err
	}
	habits, err := s.store.GetAllHabits(false)
	if err != nil {
		return Week{}, err
	}
	days := utils.WeekDates(day, settings.WeekStartDay())
	first := days[0].Format(constants.DateFormat)
	last := days[6].Format(constants.DateFormat)
	records, err := s.store.GetHabitProgressRange(first, last)
	if err != nil {
		return Week{}, err
	}

	w := Week{Dates: make([]string, 0, len(days))}
	for _, d := range days {
		w.Dates = append(w.Dates, d.Format(constants.DateFormat))
	}
	w.Rows = utils.WeekGrid(habits, utils.IndexProgress(records), day, settings.WeekStartDay())
	return w, nil
}

// Toggle advances a habit's progress on date one step through
// none -> completed -> partial -> none and returns the new record, nil
// when the record was removed. Only active habits on a due date can be
// toggled; anything else fails with ErrNotDue.
func (s *Service) Toggle(habitID, date string) (*models.HabitProgress, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, err
	}
	habit, err := s.store.GetHabit(habitID)
	if err != nil {
		return nil, err
	}
	if !habit.Active {
		return nil, fmt.Errorf("%s is archived: %w", habit.Name, ErrNotDue)
	}
	if !utils.IsHabitActive(habit, day) {
		return nil, fmt.Errorf("%s on %s: %w", habit.Name, date, ErrNotDue)
	}

	var current *models.HabitProgress
	p, err := s.store.GetHabitProgress(habitID, date)
	switch {
	case err == nil:
		current = &p
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	next := models.CycleProgress(habit, date, current, s.now())
	if next == nil {
		if err := s.store.DeleteHabitProgress(habitID, date); err != nil {
			return nil, err
		}
		s.logger.Debug("Habit progress cleared", "habit", habitID, "date", date)
		return nil, nil
	}
	if err := s.store.SaveHabitProgress(*next); err != nil {
		return nil, err
	}
	s.logger.Debug("Habit progress saved", "habit", habitID, "date", date, "state", next.State())
	return next, nil
}

// DayTotals aggregates one day's meals.
type DayTotals struct {
	Date       string                      `json:"date"`
	Total      models.Nutrients            `json:"total"`
	ByCategory map[string]models.Nutrients `json:"by_category"`
	Meals      []models.MealLog            `json:"meals"`
}

// MealTotals sums the meals consumed on day in the configured timezone.
func (s *Service) MealTotals(day time.Time) (DayTotals, error) {
	loc, err := s.Location()
	if err != nil {
		return DayTotals{}, err
	}
	start, end := utils.DayBounds(day, loc)
	logs, err := s.store.GetMealLogs(start, end)
	if err != nil {
		return DayTotals{}, err
	}

	totals := DayTotals{
		Date:       day.Format(constants.DateFormat),
		ByCategory: make(map[string]models.Nutrients),
		Meals:      logs,
	}
	if totals.Meals == nil {
		totals.Meals = []models.MealLog{}
	}
	all := make([]models.Nutrients, 0, len(logs))
	for _, l := range logs {
		n := l.Nutrition()
		all = append(all, n)
		totals.ByCategory[l.Entry.Category] = models.SumNutrients(totals.ByCategory[l.Entry.Category], n)
	}
	totals.Total = models.SumNutrients(all...)
	return totals, nil
}

// SaveEstimates stores each confirmed estimate as a hand-entered food
// reference for the whole portion plus a one-serving meal entry.
func (s *Service) SaveEstimates(estimates []nutrition.Estimate, category string, consumedAt time.Time, photoPath string) ([]models.MealEntry, error) {
	if category == "" {
		settings, err := s.store.GetSettings()
		if err != nil {
			return nil, err
		}
		category = settings.DefaultMealCategory
	}

	now := s.now()
	entries := make([]models.MealEntry, 0, len(estimates))
	for _, est := range estimates {
		food := models.FoodReference{
			ID:                 uuid.New().String(),
			ExternalID:         models.NewManualFoodID(now),
			Name:               est.Name,
			ServingDescription: est.EstimatedPortion,
			Calories:           float64(est.Calories),
			Protein:            est.Protein,
			Carbs:              est.Carbs,
			Fat:                est.Fat,
			CreatedAt:          now,
		}
		if err := s.store.AddFood(food); err != nil {
			return entries, fmt.Errorf("failed to save food %q: %w", est.Name, err)
		}
		entry := models.MealEntry{
			ID:         uuid.New().String(),
			FoodID:     food.ID,
			Servings:   1,
			Category:   category,
			ConsumedAt: consumedAt,
			PhotoPath:  photoPath,
			CreatedAt:  now,
		}
		if err := s.store.AddMealEntry(entry); err != nil {
			return entries, fmt.Errorf("failed to save meal entry for %q: %w", est.Name, err)
		}
		entries = append(entries, entry)
	}
	s.logger.Info("Meal saved", "foods", len(entries), "category", category)
	return entries, nil
}
