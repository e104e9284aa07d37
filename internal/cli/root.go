package cli

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/maticai/matic/internal/ai"
	"github.com/maticai/matic/internal/backup"
	"github.com/maticai/matic/internal/config"
	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/logger"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/notifier"
	"github.com/maticai/matic/internal/nutrition"
	"github.com/maticai/matic/internal/storage"
	"github.com/maticai/matic/internal/storage/sqlstore"
	"github.com/maticai/matic/internal/tracker"
)

// Context is handed to every command's Run method.
type Context struct {
	Store    storage.Provider
	Tracker  *tracker.Service
	Config   config.Config
	Engine   *nutrition.Engine
	AI       *ai.Client
	Notifier notifier.Sink
	Logger   *log.Logger
	In       io.Reader
	Out      io.Writer
	Now      func() time.Time
}

// Stdin returns the command input reader.
func (c *Context) Stdin() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// Stdout returns the command output writer.
func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Clock() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Printf writes command output.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

// reportedError marks an error the notification sink has already shown.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// Report sends a failure to the notification sink and returns it so
// commands can `return ctx.Report(err, ...)`. The returned error satisfies
// IsReported.
func (c *Context) Report(err error, what string) error {
	if err == nil {
		return nil
	}
	wrapped := fmt.Errorf("%s: %w", what, err)
	if c.Notifier == nil {
		return wrapped
	}
	notifier.Errorf(c.Notifier, "%v", wrapped)
	return reportedError{wrapped}
}

// IsReported reports whether err already reached the notification sink.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// SQLitePath returns the database file when the store is file backed.
func (c *Context) SQLitePath() (string, bool) {
	s, ok := c.Store.(*sqlstore.Store)
	if !ok || s.Dialect() != sqlstore.SQLite {
		return "", false
	}
	return s.GetConfigPath(), true
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	path, ok := c.SQLitePath()
	if !ok {
		return
	}
	mgr := backup.NewManager(path)
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseWeekdays parses a comma-separated list of weekday names or numbers
// (0=Sunday) into canonical lowercase names.
func ParseWeekdays(s string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if wd, ok := models.ParseWeekday(part); ok {
			out = append(out, models.WeekdayName(wd))
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		out = append(out, models.WeekdayName(time.Weekday(num)))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no weekdays given")
	}
	return out, nil
}

// ParseMonthDays parses "1,15,last" into month days; "last" is the
// last-day-of-month sentinel.
func ParseMonthDays(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if part == "last" {
			out = append(out, constants.LastDayOfMonth)
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d < 1 || d > 31 {
			return nil, fmt.Errorf("invalid month day: %s", part)
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no month days given")
	}
	return out, nil
}

// SplitList splits a comma-separated flag value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FormatRecurrence formats a recurrence rule into a human-readable string
func FormatRecurrence(rec models.Recurrence) string {
	switch rec.Type {
	case constants.RecurrenceDaily:
		if rec.AlternateDays {
			return "every other day"
		}
		return "daily"
	case constants.RecurrenceLegacyWeekly:
		return "weekly"
	case constants.RecurrenceSpecificWeekdays:
		days := make([]string, 0, len(rec.Weekdays))
		for _, wd := range rec.Weekdays {
			if len(wd) > 3 {
				wd = wd[:3]
			}
			days = append(days, wd)
		}
		return "on " + strings.Join(days, ",")
	case constants.RecurrenceSpecificMonthdays:
		days := make([]string, 0, len(rec.MonthDays))
		for _, d := range rec.MonthDays {
			if d == constants.LastDayOfMonth {
				days = append(days, "last")
			} else {
				days = append(days, strconv.Itoa(d))
			}
		}
		return "monthly on " + strings.Join(days, ",")
	case constants.RecurrenceSpecificYeardays:
		return "yearly on " + strings.Join(rec.YearDates, ",")
	case constants.RecurrenceRepeat:
		return fmt.Sprintf("every %d days", rec.Interval)
	default:
		return "unknown"
	}
}

// ReadImage loads an image file as base64 for the AI endpoints.
func ReadImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image %s is empty", path)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// RequireAI fails when no AI client was configured.
func (c *Context) RequireAI() (*ai.Client, error) {
	if c.AI == nil {
		return nil, fmt.Errorf("AI service is not configured (set ai.base_url or %s)", config.EnvAIBaseURL)
	}
	return c.AI, nil
}
