package models

import (
	"fmt"
	"time"

	"github.com/maticai/matic/internal/constants"
)

type Settings struct {
	Timezone            string `json:"timezone"`
	DefaultMealCategory string `json:"default_meal_category"`
	WeekStart           string `json:"week_start"`
}

// DefaultSettings returns the settings written on first init.
func DefaultSettings() Settings {
	return Settings{
		Timezone:            constants.DefaultTimezone,
		DefaultMealCategory: constants.DefaultMealCategory,
		WeekStart:           constants.DefaultWeekStart,
	}
}

func (s Settings) Validate() error {
	if s.Timezone != "" && s.Timezone != "Local" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
		}
	}
	if s.WeekStart != constants.WeekStartMonday && s.WeekStart != constants.WeekStartSunday {
		return fmt.Errorf("week start must be %q or %q", constants.WeekStartMonday, constants.WeekStartSunday)
	}
	if s.DefaultMealCategory == "" {
		return fmt.Errorf("default meal category is required")
	}
	return nil
}

// WeekStartDay returns the configured first day of the week.
func (s Settings) WeekStartDay() time.Weekday {
	if s.WeekStart == constants.WeekStartSunday {
		return time.Sunday
	}
	return time.Monday
}
