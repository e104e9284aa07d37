package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/maticai/matic/internal/constants"
)

// frequencyData is the stored shape of the frequency_data JSON column.
// JSON object keys are strings, so per-day weekday constraints are keyed by
// the decimal month day.
type frequencyData struct {
	Type             string              `json:"type"`
	Days             []string            `json:"days,omitempty"`
	MonthDays        []int               `json:"month_days,omitempty"`
	MonthDayWeekdays map[string][]string `json:"month_day_weekdays,omitempty"`
	YearDates        []string            `json:"year_dates,omitempty"`
	RepeatInterval   int                 `json:"repeat_interval,omitempty"`
	AlternateDays    bool                `json:"alternate_days,omitempty"`
	Flexible         bool                `json:"flexible,omitempty"`
}

// StoredFrequency holds the three recurrence columns as persisted.
type StoredFrequency struct {
	Frequency     string  `db:"frequency"`
	FrequencyDays string  `db:"frequency_days"`
	FrequencyData *string `db:"frequency_data"`
}

// DecodeFrequency translates the stored columns into a Recurrence.
// A valid frequency_data blob wins; otherwise the legacy columns are used.
// On failure the zero Recurrence is returned, which is never due.
func DecodeFrequency(sf StoredFrequency) (Recurrence, error) {
	if sf.FrequencyData != nil && strings.TrimSpace(*sf.FrequencyData) != "" {
		rec, err := decodeFrequencyData(*sf.FrequencyData)
		if err == nil {
			return rec, nil
		}
		if sf.Frequency == "" {
			return Recurrence{}, err
		}
	}
	return decodeLegacy(sf.Frequency, sf.FrequencyDays)
}

func decodeFrequencyData(raw string) (Recurrence, error) {
	var fd frequencyData
	if err := json.Unmarshal([]byte(raw), &fd); err != nil {
		return Recurrence{}, fmt.Errorf("decode frequency_data: %w", err)
	}
	rec := Recurrence{
		Type:          constants.RecurrenceType(fd.Type),
		Weekdays:      normalizeWeekdays(fd.Days),
		MonthDays:     fd.MonthDays,
		YearDates:     fd.YearDates,
		Interval:      fd.RepeatInterval,
		AlternateDays: fd.AlternateDays,
		Flexible:      fd.Flexible,
	}
	if len(fd.MonthDayWeekdays) > 0 {
		rec.MonthDayWeekdays = make(map[int][]string, len(fd.MonthDayWeekdays))
		for k, v := range fd.MonthDayWeekdays {
			day, err := strconv.Atoi(k)
			if err != nil {
				return Recurrence{}, fmt.Errorf("decode frequency_data: bad month day key %q", k)
			}
			rec.MonthDayWeekdays[day] = normalizeWeekdays(v)
		}
	}
	if err := rec.Validate(); err != nil {
		return Recurrence{}, fmt.Errorf("decode frequency_data: %w", err)
	}
	return rec, nil
}

func decodeLegacy(frequency, days string) (Recurrence, error) {
	list := splitList(days)
	var rec Recurrence
	switch frequency {
	case constants.LegacyFrequencyDaily:
		rec.Type = constants.RecurrenceDaily
	case constants.LegacyFrequencyWeekly:
		rec.Type = constants.RecurrenceLegacyWeekly
	case constants.LegacyFrequencySpecificDays, string(constants.RecurrenceSpecificWeekdays):
		rec.Type = constants.RecurrenceSpecificWeekdays
		rec.Weekdays = normalizeWeekdays(list)
	case constants.LegacyFrequencyMonthly, string(constants.RecurrenceSpecificMonthdays):
		rec.Type = constants.RecurrenceSpecificMonthdays
		for _, s := range list {
			d, err := strconv.Atoi(s)
			if err != nil {
				return Recurrence{}, fmt.Errorf("decode frequency_days: bad month day %q", s)
			}
			rec.MonthDays = append(rec.MonthDays, d)
		}
	case string(constants.RecurrenceSpecificYeardays):
		rec.Type = constants.RecurrenceSpecificYeardays
		rec.YearDates = list
	case constants.LegacyFrequencyCustom, string(constants.RecurrenceRepeat):
		rec.Type = constants.RecurrenceRepeat
		if len(list) != 1 {
			return Recurrence{}, fmt.Errorf("decode frequency_days: custom frequency needs one interval, got %q", days)
		}
		n, err := strconv.Atoi(list[0])
		if err != nil {
			return Recurrence{}, fmt.Errorf("decode frequency_days: bad interval %q", list[0])
		}
		rec.Interval = n
	default:
		return Recurrence{}, fmt.Errorf("unknown frequency %q", frequency)
	}
	if err := rec.Validate(); err != nil {
		return Recurrence{}, err
	}
	return rec, nil
}

// EncodeFrequency writes all three recurrence columns from the canonical form
// so legacy readers and frequency_data readers always agree.
func EncodeFrequency(rec Recurrence) (StoredFrequency, error) {
	if err := rec.Validate(); err != nil {
		return StoredFrequency{}, err
	}

	var sf StoredFrequency
	switch rec.Type {
	case constants.RecurrenceDaily:
		sf.Frequency = constants.LegacyFrequencyDaily
	case constants.RecurrenceLegacyWeekly:
		sf.Frequency = constants.LegacyFrequencyWeekly
	case constants.RecurrenceSpecificWeekdays:
		sf.Frequency = constants.LegacyFrequencySpecificDays
		sf.FrequencyDays = strings.Join(normalizeWeekdays(rec.Weekdays), ",")
	case constants.RecurrenceSpecificMonthdays:
		sf.Frequency = constants.LegacyFrequencyMonthly
		parts := make([]string, len(rec.MonthDays))
		for i, d := range rec.MonthDays {
			parts[i] = strconv.Itoa(d)
		}
		sf.FrequencyDays = strings.Join(parts, ",")
	case constants.RecurrenceSpecificYeardays:
		// No legacy equivalent; the canonical type name is written instead.
		sf.Frequency = string(constants.RecurrenceSpecificYeardays)
		sf.FrequencyDays = strings.Join(rec.YearDates, ",")
	case constants.RecurrenceRepeat:
		sf.Frequency = constants.LegacyFrequencyCustom
		sf.FrequencyDays = strconv.Itoa(rec.Interval)
	}

	fd := frequencyData{
		Type:           string(rec.Type),
		Days:           normalizeWeekdays(rec.Weekdays),
		MonthDays:      rec.MonthDays,
		YearDates:      rec.YearDates,
		RepeatInterval: rec.Interval,
		AlternateDays:  rec.AlternateDays,
		Flexible:       rec.Flexible,
	}
	if len(rec.MonthDayWeekdays) > 0 {
		fd.MonthDayWeekdays = make(map[string][]string, len(rec.MonthDayWeekdays))
		for d, wds := range rec.MonthDayWeekdays {
			fd.MonthDayWeekdays[strconv.Itoa(d)] = normalizeWeekdays(wds)
		}
	}
	raw, err := json.Marshal(fd)
	if err != nil {
		return StoredFrequency{}, fmt.Errorf("encode frequency_data: %w", err)
	}
	data := string(raw)
	sf.FrequencyData = &data
	return sf, nil
}

// normalizeWeekdays lowercases weekday tokens, expands abbreviations and
// orders them sunday..saturday. Unknown tokens are kept so Validate can
// report them.
func normalizeWeekdays(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		name := strings.ToLower(strings.TrimSpace(s))
		if wd, ok := ParseWeekday(name); ok {
			name = WeekdayName(wd)
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.SliceStable(out, func(i, j int) bool {
		wi, oki := ParseWeekday(out[i])
		wj, okj := ParseWeekday(out[j])
		if oki && okj {
			return wi < wj
		}
		return oki
	})
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
