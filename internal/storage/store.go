package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wjt/sms-query/internal/config"
	"github.com/wjt/sms-query/internal/logger"
)

// Store wraps a read-only connection to an rtcom-eventlogger database.
// The database belongs to the phone's event logger; this tool never
// writes to it.
type Store struct {
	db     *sql.DB
	config *config.DatabaseConfig
	logger *logger.Logger
	path   string
}

// StoreOptions contains options for store initialization
type StoreOptions struct {
	Config *config.DatabaseConfig

	// Skip the connection test on open
	SkipPing bool
}

// NewStore opens the event store read-only
func NewStore(cfg *config.Config, opts *StoreOptions) (*Store, error) {
	if opts == nil {
		opts = &StoreOptions{}
	}
	if opts.Config == nil {
		opts.Config = &cfg.Database
	}

	s := &Store{
		config: opts.Config,
		logger: logger.GetLogger().Storage(),
		path:   opts.Config.Path,
	}

	if err := s.open(opts); err != nil {
		return nil, err
	}

	return s, nil
}

// open sets up the database connection
func (s *Store) open(opts *StoreOptions) error {
	if _, err := os.Stat(s.path); err != nil {
		return &UnavailableError{Op: "stat", Path: s.path, Cause: err}
	}

	connStr := s.buildConnectionString()

	s.logger.Debug().
		Str("path", s.path).
		Str("connection_string", connStr).
		Msg("Opening event store read-only")

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return &UnavailableError{Op: "open", Path: s.path, Cause: err}
	}
	s.db = db

	// One reader, one pass; no pool needed
	s.db.SetMaxOpenConns(1)

	if !opts.SkipPing {
		if err := s.ping(); err != nil {
			s.db.Close()
			return err
		}
	}

	s.logger.Debug().Str("path", s.path).Msg("Event store opened")
	return nil
}

// buildConnectionString creates a read-only SQLite connection string
func (s *Store) buildConnectionString() string {
	return fmt.Sprintf("file:%s?mode=ro&_pragma=query_only(1)&_pragma=busy_timeout(%d)",
		s.path, s.config.BusyTimeoutMS)
}

// ping tests the database connection
func (s *Store) ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return &UnavailableError{Op: "ping", Path: s.path, Cause: err}
	}

	var result int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return &UnavailableError{Op: "probe", Path: s.path, Cause: err}
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	s.logger.Debug().Msg("Closing event store")

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close event store: %w", err)
	}

	s.db = nil
	return nil
}

// GetPath returns the database file path
func (s *Store) GetPath() string {
	return s.path
}

// GetDB returns the underlying sql.DB instance
func (s *Store) GetDB() *sql.DB {
	return s.db
}
