package storage

import (
	"errors"
	"time"

	"github.com/maticai/matic/internal/models"
)

// ErrNotFound is returned when a requested row does not exist or is deleted.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits. Delete is a soft delete that clears the active flag.
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetAllHabits(includeInactive bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error

	// Habit progress, unique per (habit, date); saves are last-write-wins upserts.
	SaveHabitProgress(models.HabitProgress) error
	GetHabitProgress(habitID, date string) (models.HabitProgress, error)
	GetHabitProgressRange(startDate, endDate string) ([]models.HabitProgress, error)
	DeleteHabitProgress(habitID, date string) error

	// Tasks
	AddTask(models.Task) error
	GetTask(id string) (models.Task, error)
	GetAllTasks(includeDeleted bool) ([]models.Task, error)
	UpdateTask(models.Task) error
	CompleteTask(id string, completed bool) error
	DeleteTask(id string) error
	RestoreTask(id string) error

	// Foods
	AddFood(models.FoodReference) error
	GetFood(id string) (models.FoodReference, error)
	SearchFoods(query string, limit int) ([]models.FoodReference, error)

	// Meals. Start is inclusive, end exclusive.
	AddMealEntry(models.MealEntry) error
	GetMealEntries(start, end time.Time) ([]models.MealEntry, error)
	GetMealLogs(start, end time.Time) ([]models.MealLog, error)
	DeleteMealEntry(id string) error

	// Expenses are stored with their items in one transaction.
	AddExpense(models.Expense) error
	GetExpense(id string) (models.Expense, error)
	GetExpenses(startDate, endDate string) ([]models.Expense, error)
	DeleteExpense(id string) error

	// Utils
	GetConfigPath() string
}
