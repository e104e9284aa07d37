package system

import (
	"fmt"
	"time"

	"github.com/maticai/matic/internal/backup"
	"github.com/maticai/matic/internal/cli"
	"github.com/maticai/matic/internal/keyring"
	"github.com/maticai/matic/internal/storage/sqlstore"
	"github.com/maticai/matic/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// warn checks report problems without failing the run.
	warn   bool
	needDB bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needDB: true},
	{name: "Backups present", run: checkBackupsPresent, warn: true},
	{name: "Settings", run: checkSettings, needDB: true},
	{name: "Clock/timezone", run: checkClock},
	{name: "Habit recurrences", run: checkHabitRecurrences, needDB: true},
	{name: "Orphaned records", run: checkOrphans, needDB: true},
	{name: "Date formats", run: checkDateFormats, needDB: true},
	{name: "Expense totals", run: checkExpenseTotals, warn: true, needDB: true},
	{name: "OS keyring", run: checkKeyring, warn: true},
	{name: "AI service", run: checkAI, warn: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Printf("Running diagnostics...\n\n")

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			ctx.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			hasError = true
		}
	}

	ctx.Printf("\n")
	if hasError {
		ctx.Printf("Diagnostics completed with errors.\n")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Printf("All diagnostics passed!\n")
	return nil
}

func sqlStore(ctx *cli.Context) (*sqlstore.Store, bool) {
	s, ok := ctx.Store.(*sqlstore.Store)
	return s, ok && s.DB() != nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	s, ok := sqlStore(ctx)
	if !ok {
		return nil
	}
	if err := s.DB().Ping(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	s, ok := sqlStore(ctx)
	if !ok {
		return nil
	}
	current, latest, err := s.SchemaVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	s, ok := sqlStore(ctx)
	if !ok {
		return nil
	}
	current, latest, err := s.SchemaVersion()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'matic migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path, ok := ctx.SQLitePath()
	if !ok {
		return fmt.Errorf("backups are managed outside matic for PostgreSQL")
	}
	backups, err := backup.NewManager(path).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'matic backup create'")
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if _, err := time.LoadLocation(settings.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", settings.Timezone, err)
	}
	return nil
}

func checkClock(ctx *cli.Context) error {
	now := ctx.Clock()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkHabitRecurrences(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	bad := 0
	for _, h := range habits {
		if _, err := utils.ParseDate(h.StartDate); err != nil {
			bad++
			continue
		}
		if err := h.Recurrence.Validate(); err != nil {
			bad++
		}
	}
	if bad > 0 {
		return fmt.Errorf("found %d habit(s) with an unreadable schedule; they are never due until edited", bad)
	}
	return nil
}

func checkOrphans(ctx *cli.Context) error {
	s, ok := sqlStore(ctx)
	if !ok {
		return nil
	}
	queries := []struct {
		what  string
		query string
	}{
		{"habit progress records", `SELECT COUNT(*) FROM habit_progress p LEFT JOIN habits h ON p.habit_id = h.id WHERE h.id IS NULL`},
		{"meal entries", `SELECT COUNT(*) FROM meal_entries m LEFT JOIN foods f ON m.food_id = f.id WHERE f.id IS NULL`},
		{"expense items", `SELECT COUNT(*) FROM expense_items i LEFT JOIN expenses e ON i.expense_id = e.id WHERE e.id IS NULL`},
	}
	for _, q := range queries {
		var n int
		if err := s.DB().Get(&n, q.query); err != nil {
			return fmt.Errorf("failed to check orphaned %s: %w", q.what, err)
		}
		if n > 0 {
			return fmt.Errorf("found %d orphaned %s", n, q.what)
		}
	}
	return nil
}

func checkDateFormats(ctx *cli.Context) error {
	s, ok := sqlStore(ctx)
	if !ok {
		return nil
	}
	for _, table := range []string{"habit_progress", "expenses"} {
		var dates []string
		if err := s.DB().Select(&dates, "SELECT date FROM "+table); err != nil {
			return fmt.Errorf("failed to read %s dates: %w", table, err)
		}
		invalid := 0
		for _, d := range dates {
			if _, err := utils.ParseDate(d); err != nil {
				invalid++
			}
		}
		if invalid > 0 {
			return fmt.Errorf("found %d %s rows with an invalid date", invalid, table)
		}
	}
	return nil
}

func checkExpenseTotals(ctx *cli.Context) error {
	expenses, err := ctx.Store.GetExpenses("0001-01-01", "9999-12-31")
	if err != nil {
		return fmt.Errorf("failed to get expenses: %w", err)
	}
	mismatched := 0
	for _, e := range expenses {
		if len(e.Items) > 0 && !e.ItemsTotal().Equal(e.Total) {
			mismatched++
		}
	}
	if mismatched > 0 {
		return fmt.Errorf("%d expense(s) have items that do not add up to the total", mismatched)
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available; secrets must come from the environment or config file")
	}
	return nil
}

func checkAI(ctx *cli.Context) error {
	if _, err := ctx.RequireAI(); err != nil {
		return fmt.Errorf("%v; photo analysis and chat are disabled", err)
	}
	return nil
}
