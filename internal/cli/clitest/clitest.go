// Package clitest builds command contexts over a throwaway SQLite store.
package clitest

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/maticai/matic/internal/cli"
	"github.com/maticai/matic/internal/config"
	"github.com/maticai/matic/internal/logger"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/notifier"
	"github.com/maticai/matic/internal/nutrition"
	"github.com/maticai/matic/internal/storage/sqlstore"
	"github.com/maticai/matic/internal/tracker"
)

// Now is the fixed clock of every test context: Wednesday 2026-03-04, UTC.
var Now = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

// Env is a command context plus the buffers it writes to.
type Env struct {
	Ctx    *cli.Context
	Store  *sqlstore.Store
	DBPath string
	Out    *bytes.Buffer
	Notes  *bytes.Buffer
}

// New returns an initialized store with UTC settings and a context whose
// output and notifications land in buffers.
func New(t *testing.T) *Env {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "matic.db")
	store := sqlstore.NewSQLite(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	now := func() time.Time { return Now }
	out, notes := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Env{
		Store:  store,
		DBPath: dbPath,
		Out:    out,
		Notes:  notes,
	}
	env.Ctx = &cli.Context{
		Store:    store,
		Tracker:  tracker.New(store, tracker.WithClock(now), tracker.WithLogger(logger.Discard())),
		Config:   config.Default(),
		Engine:   nutrition.New(nil, nutrition.Config{Logger: logger.Discard()}),
		Notifier: notifier.NewWriterSink(notes),
		Logger:   logger.Discard(),
		Out:      out,
		Now:      now,
	}
	return env
}

// Output returns and clears what the commands printed so far.
func (e *Env) Output() string {
	s := e.Out.String()
	e.Out.Reset()
	return s
}
