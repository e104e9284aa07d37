// Package scheduler lays out one day's agenda: the habits due that day and
// the tasks due that day, timed items first in clock order.
package scheduler

import (
	"sort"
	"time"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/utils"
)

type ItemKind string

const (
	KindHabit ItemKind = "habit"
	KindTask  ItemKind = "task"
)

// Item is one line of the agenda.
type Item struct {
	Kind     ItemKind `json:"kind"`
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category,omitempty"`
	Time     string   `json:"time,omitempty"` // HH:MM
	Priority int      `json:"priority"`
	// State is set for habits.
	State constants.ProgressState `json:"state,omitempty"`
	Done  bool                    `json:"done"`
}

type Agenda struct {
	Date    string `json:"date"`
	Timed   []Item `json:"timed"`
	Anytime []Item `json:"anytime"`

	HabitsDue  int `json:"habits_due"`
	HabitsDone int `json:"habits_done"`
	TasksDue   int `json:"tasks_due"`
	TasksDone  int `json:"tasks_done"`
}

type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

// BuildAgenda creates the agenda for date. progress holds that day's
// records; records for other days are ignored.
func (s *Scheduler) BuildAgenda(date time.Time, habits []models.Habit, progress []models.HabitProgress, tasks []models.Task) Agenda {
	day := date.Format(constants.DateFormat)
	agenda := Agenda{Date: day, Timed: []Item{}, Anytime: []Item{}}

	byHabit := make(map[string]*models.HabitProgress, len(progress))
	for i := range progress {
		if progress[i].Date == day {
			byHabit[progress[i].HabitID] = &progress[i]
		}
	}

	for _, h := range utils.DueHabits(habits, date) {
		state := byHabit[h.ID].State()
		agenda.HabitsDue++
		if state == constants.ProgressCompleted {
			agenda.HabitsDone++
		}
		agenda.Anytime = append(agenda.Anytime, Item{
			Kind:     KindHabit,
			ID:       h.ID,
			Title:    h.Name,
			Category: h.Category,
			Priority: h.Priority,
			State:    state,
			Done:     state == constants.ProgressCompleted,
		})
	}

	for _, t := range utils.DueTasks(tasks, date) {
		agenda.TasksDue++
		if t.Completed {
			agenda.TasksDone++
		}
		item := Item{
			Kind:     KindTask,
			ID:       t.ID,
			Title:    t.Title,
			Category: t.Category,
			Priority: t.Priority,
			Done:     t.Completed,
		}
		if t.DueTime != nil {
			if _, err := parseTime(*t.DueTime); err == nil {
				item.Time = *t.DueTime
				agenda.Timed = append(agenda.Timed, item)
				continue
			}
		}
		agenda.Anytime = append(agenda.Anytime, item)
	}

	sort.SliceStable(agenda.Timed, func(i, j int) bool {
		a, _ := parseTime(agenda.Timed[i].Time)
		b, _ := parseTime(agenda.Timed[j].Time)
		if a != b {
			return a < b
		}
		return agenda.Timed[i].Priority < agenda.Timed[j].Priority
	})

	return agenda
}

// Remaining returns the agenda items not yet done.
func (a Agenda) Remaining() []Item {
	var out []Item
	for _, list := range [][]Item{a.Timed, a.Anytime} {
		for _, it := range list {
			if !it.Done {
				out = append(out, it)
			}
		}
	}
	return out
}

// parseTime returns minutes from midnight.
func parseTime(timeStr string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
