package system

import (
	"fmt"

	"github.com/maticai/matic/internal/cli"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone            *string `help:"IANA timezone used to decide what 'today' is."`
	DefaultMealCategory *string `help:"Category for meals logged without one."`
	WeekStart           *string `help:"First day of the week (monday or sunday)."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated := false
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.DefaultMealCategory != nil {
		settings.DefaultMealCategory = *c.DefaultMealCategory
		updated = true
	}
	if c.WeekStart != nil {
		settings.WeekStart = *c.WeekStart
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Printf("Settings updated.\n")
	}
	if c.List || !updated {
		ctx.Printf("Current Settings:\n")
		ctx.Printf("  Timezone:              %s\n", settings.Timezone)
		ctx.Printf("  Default Meal Category: %s\n", settings.DefaultMealCategory)
		ctx.Printf("  Week Start:            %s\n", settings.WeekStart)
	}
	return nil
}
