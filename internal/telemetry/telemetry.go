// Package telemetry is the "logging transport" collaborator the core
// declines to own: a modernc.org/sqlite-backed sink for log records and
// detection results, schema-managed by golang-migrate/v4 over an
// embedded migration set, adapted from the teacher's internal/db
// (db.go's applyPragmas/NewDB and migrate.go's newMigrate/MigrateUp).
package telemetry

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a migrated sqlite database that records log and detection
// events emitted while driving the detector core.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path, applies
// the teacher's performance PRAGMAs, and migrates the schema to latest.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %q: %w", path, err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("telemetry: %q: %w", p, err)
		}
	}
	return nil
}

// migrateUp runs every pending embedded migration. The migrate instance
// is never closed: its sqlite driver's Close would close the underlying
// *sql.DB, which Store manages separately across its own lifetime.
func (s *Store) migrateUp() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("telemetry: iofs source: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("telemetry: sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("telemetry: migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("telemetry: migrate up: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// InsertLogEvent records one log callback invocation.
func (s *Store) InsertLogEvent(logType string, message string, timestamp int64) error {
	_, err := s.db.Exec(
		`INSERT INTO log_event (log_type, message, timestamp) VALUES (?, ?, ?)`,
		logType, message, timestamp,
	)
	return err
}

// InsertPixelDetection records one thermal or spectral (row, col, score)
// detection against observationID. kind should be "thermal" or
// "spectral".
func (s *Store) InsertPixelDetection(observationID, kind string, row, col uint32, score float64, recordedAt int64) error {
	_, err := s.db.Exec(
		`INSERT INTO detection_event (observation_id, kind, row, col, score, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		observationID, kind, row, col, score, recordedAt,
	)
	return err
}

// InsertParticleDetection records one particle streaming-detector step's
// outcome against observationID.
func (s *Store) InsertParticleDetection(observationID, event string, score float64, recordedAt int64) error {
	_, err := s.db.Exec(
		`INSERT INTO detection_event (observation_id, kind, event, score, recorded_at) VALUES (?, 'particle', ?, ?, ?)`,
		observationID, event, score, recordedAt,
	)
	return err
}

// CountLogEvents returns the number of recorded log events, used by tests
// to confirm writes landed.
func (s *Store) CountLogEvents() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM log_event`).Scan(&n)
	return n, err
}

// CountDetectionEvents returns the number of recorded detection events.
func (s *Store) CountDetectionEvents() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM detection_event`).Scan(&n)
	return n, err
}
