package utils

import (
	"time"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
)

// WeekCell is one (habit, day) square of the weekly tracker.
type WeekCell struct {
	Date  string
	Due   bool
	State constants.ProgressState
}

// WeekRow is one habit's line in the weekly tracker.
type WeekRow struct {
	Habit models.Habit
	Cells [7]WeekCell
	// DoneCount counts completed cells among the due ones.
	DoneCount int
	DueCount  int
}

// WeekDates returns the seven dates of the week containing date.
func WeekDates(date time.Time, weekStart time.Weekday) [7]time.Time {
	day := civilDate(date)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	first := day.AddDate(0, 0, -offset)

	var out [7]time.Time
	for i := range out {
		out[i] = first.AddDate(0, 0, i)
	}
	return out
}

// WeekGrid lays out active habits against the week containing date.
// progress is keyed by habit ID then YYYY-MM-DD.
func WeekGrid(habits []models.Habit, progress map[string]map[string]models.HabitProgress, date time.Time, weekStart time.Weekday) []WeekRow {
	days := WeekDates(date, weekStart)

	var rows []WeekRow
	for _, h := range habits {
		if !h.Active {
			continue
		}
		row := WeekRow{Habit: h}
		for i, d := range days {
			key := d.Format(constants.DateFormat)
			cell := WeekCell{Date: key, Due: IsHabitActive(h, d), State: constants.ProgressNone}
			if p, ok := progress[h.ID][key]; ok {
				cell.State = p.State()
			}
			if cell.Due {
				row.DueCount++
				if cell.State == constants.ProgressCompleted {
					row.DoneCount++
				}
			}
			row.Cells[i] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

// IndexProgress groups progress records by habit and date for WeekGrid.
func IndexProgress(records []models.HabitProgress) map[string]map[string]models.HabitProgress {
	out := make(map[string]map[string]models.HabitProgress)
	for _, p := range records {
		if out[p.HabitID] == nil {
			out[p.HabitID] = make(map[string]models.HabitProgress)
		}
		out[p.HabitID][p.Date] = p
	}
	return out
}
