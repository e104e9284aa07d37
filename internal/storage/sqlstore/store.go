// Package sqlstore implements storage.Provider once over sqlx for both
// SQLite and PostgreSQL. A Dialect picks the driver, placeholder format and
// embedded migration set.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/logger"
	"github.com/maticai/matic/internal/migration"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/storage"
	"github.com/maticai/matic/migrations"
)

type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) placeholder() squirrel.PlaceholderFormat {
	if d == Postgres {
		return squirrel.Dollar
	}
	return squirrel.Question
}

type Store struct {
	dialect Dialect
	// path is the SQLite file, or the PostgreSQL connection string.
	path string
	db   *sqlx.DB
	sb   squirrel.StatementBuilderType
}

var _ storage.Provider = (*Store)(nil)

// NewSQLite returns a store backed by the SQLite file at path.
func NewSQLite(path string) *Store {
	return &Store{
		dialect: SQLite,
		path:    path,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(SQLite.placeholder()),
	}
}

// NewPostgres returns a store for connStr, which must not embed a password.
func NewPostgres(connStr string) *Store {
	return &Store{
		dialect: Postgres,
		path:    ensureSearchPath(connStr),
		sb:      squirrel.StatementBuilder.PlaceholderFormat(Postgres.placeholder()),
	}
}

// NewWithDB wraps an already open database.
func NewWithDB(db *sqlx.DB, dialect Dialect) *Store {
	return &Store{
		dialect: dialect,
		db:      db,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(dialect.placeholder()),
	}
}

func (s *Store) Init() error {
	if err := s.open(true); err != nil {
		return err
	}

	if _, err := s.Migrate(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	var count int
	if err := s.db.Get(&count, "SELECT COUNT(*) FROM settings"); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if count == 0 {
		if err := s.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if err := s.open(false); err != nil {
		return err
	}
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Migrate applies pending embedded migrations.
func (s *Store) Migrate(logFn func(string)) (int, error) {
	if s.db == nil {
		if err := s.open(false); err != nil {
			return 0, err
		}
	}
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(logFn)
}

// SchemaVersion reports the applied schema version and the newest embedded one.
func (s *Store) SchemaVersion() (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, fmt.Errorf("database is not open")
	}
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, nil
}

func (s *Store) GetConfigPath() string {
	if s.dialect == Postgres {
		// never expose the connection string
		return "postgresql"
	}
	return s.path
}

// DB returns the underlying connection, nil before Init or Load.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) open(create bool) error {
	if s.db != nil {
		return nil
	}
	switch s.dialect {
	case SQLite:
		return s.openSQLite(create)
	case Postgres:
		return s.openPostgres(create)
	default:
		return fmt.Errorf("unsupported dialect %q", s.dialect)
	}
}

func (s *Store) openSQLite(create bool) error {
	if create {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	} else if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage not initialized, run 'matic init' first")
	}

	db, err := sqlx.Open("sqlite", s.path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) openPostgres(create bool) error {
	db, err := sqlx.Open("postgres", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.path) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if create {
		if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
			db.Close()
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	s.db = db
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	sub, err := fs.Sub(migrations.FS, string(s.dialect))
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", s.dialect, err)
	}
	return migration.NewRunner(s.db, sub), nil
}

// notFound maps sql.ErrNoRows onto storage.ErrNotFound.
func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
	}
	return err
}

// requireAffected turns a zero-row update into storage.ErrNotFound.
func requireAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
	}
	return nil
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
