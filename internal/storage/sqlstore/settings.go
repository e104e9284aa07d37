package sqlstore

import (
	"fmt"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
)

// GetSettings reads the key/value rows over the defaults, so keys added in
// later versions still resolve.
func (s *Store) GetSettings() (models.Settings, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	query, args, err := s.sb.Select("key", "value").From("settings").ToSql()
	if err != nil {
		return models.Settings{}, err
	}
	if err := s.db.Select(&rows, query, args...); err != nil {
		return models.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	settings := models.DefaultSettings()
	for _, r := range rows {
		switch r.Key {
		case constants.SettingTimezone:
			settings.Timezone = r.Value
		case constants.SettingDefaultMealCategory:
			settings.DefaultMealCategory = r.Value
		case constants.SettingWeekStart:
			settings.WeekStart = r.Value
		}
	}
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	values := [][2]string{
		{constants.SettingTimezone, settings.Timezone},
		{constants.SettingDefaultMealCategory, settings.DefaultMealCategory},
		{constants.SettingWeekStart, settings.WeekStart},
	}
	for _, kv := range values {
		query, args, err := s.sb.Insert("settings").
			Columns("key", "value").
			Values(kv[0], kv[1]).
			Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value").
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", kv[0], err)
		}
	}
	return tx.Commit()
}
