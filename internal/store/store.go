// Package store persists affective engine snapshots and per-turn guidance in
// SQLite. It speaks to either modernc.org/sqlite ("sqlite", pure Go) or
// mattn/go-sqlite3 ("sqlite3", cgo) through database/sql.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // cgo driver, registered as "sqlite3"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // Pure Go driver, registered as "sqlite"

	"github.com/LianelaSky/Project-Alyssa/pkg/affect"
)

//go:embed migrations/001_initial_schema.sql
var initialSchema string

var (
	// ErrSnapshotNotFound is returned when a character has no saved snapshot.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrUnsupportedDriver is returned for drivers other than sqlite and sqlite3.
	ErrUnsupportedDriver = errors.New("unsupported sqlite driver")
)

// Store provides access to snapshot and guidance tables.
type Store struct {
	db *sql.DB
}

// GuidanceRecord is one logged turn.
type GuidanceRecord struct {
	ID       int64
	TurnAt   time.Time
	Message  string
	Guidance affect.Guidance
}

// SnapshotInfo summarizes a stored snapshot without decoding its payload.
type SnapshotInfo struct {
	ID      int64
	TakenAt time.Time
	Fatigue float64
}

// Open opens a SQLite database with the given driver. path may be ":memory:".
func Open(ctx context.Context, driver, path string) (*sql.DB, error) {
	if driver != "sqlite" && driver != "sqlite3" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite works best with a single writer; an in-memory database also
	// lives on exactly one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	if !memory {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// NewStore wraps db and runs the schema migrations.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	log.Debug().Msg("snapshot store initialized")
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range strings.Split(initialSchema, ";") {
		stmt = strings.TrimSpace(stripComments(stmt))
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute statement %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

func stripComments(stmt string) string {
	lines := strings.Split(stmt, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "--") {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, "\n")
}

// ═══════════════════════════════════════════════════════════════════════════════
// SNAPSHOTS
// ═══════════════════════════════════════════════════════════════════════════════

// SaveSnapshot stores snap and returns its row id.
func (s *Store) SaveSnapshot(ctx context.Context, snap affect.Snapshot) (int64, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("marshal snapshot: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO engine_snapshots (character, version, taken_at, fatigue, payload)
		VALUES (?, ?, ?, ?, ?)`,
		snap.Character, snap.Version, formatTime(snap.TakenAt), snap.State.Fatigue, string(payload))
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot id: %w", err)
	}

	log.Debug().
		Str("character", snap.Character).
		Int64("id", id).
		Int("memories", snap.State.Memory.Len()).
		Msg("snapshot saved")
	return id, nil
}

// LoadLatest returns the newest snapshot for character.
func (s *Store) LoadLatest(ctx context.Context, character string) (affect.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM engine_snapshots
		WHERE character = ?
		ORDER BY id DESC LIMIT 1`, character).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return affect.Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, character)
	}
	if err != nil {
		return affect.Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}

	var snap affect.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return affect.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns up to limit snapshot summaries, newest first.
func (s *Store) ListSnapshots(ctx context.Context, character string, limit int) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, taken_at, fatigue FROM engine_snapshots
		WHERE character = ?
		ORDER BY id DESC LIMIT ?`, character, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var (
			info    SnapshotInfo
			takenAt string
		)
		if err := rows.Scan(&info.ID, &takenAt, &info.Fatigue); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if info.TakenAt, err = parseTime(takenAt); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Prune deletes all but the keep newest snapshots of character and returns
// how many rows were removed.
func (s *Store) Prune(ctx context.Context, character string, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM engine_snapshots
		WHERE character = ? AND id NOT IN (
			SELECT id FROM engine_snapshots
			WHERE character = ?
			ORDER BY id DESC LIMIT ?
		)`, character, character, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	if n > 0 {
		log.Debug().Str("character", character).Int64("removed", n).Msg("snapshots pruned")
	}
	return n, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// GUIDANCE LOG
// ═══════════════════════════════════════════════════════════════════════════════

// AppendGuidance logs the guidance produced for message.
func (s *Store) AppendGuidance(ctx context.Context, character string, at time.Time, message string, g affect.Guidance) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal guidance: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO guidance_log (character, turn_at, message, guidance)
		VALUES (?, ?, ?, ?)`,
		character, formatTime(at), message, string(data))
	if err != nil {
		return fmt.Errorf("insert guidance: %w", err)
	}
	return nil
}

// RecentGuidance returns up to limit logged turns, newest first.
func (s *Store) RecentGuidance(ctx context.Context, character string, limit int) ([]GuidanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, turn_at, message, guidance FROM guidance_log
		WHERE character = ?
		ORDER BY id DESC LIMIT ?`, character, limit)
	if err != nil {
		return nil, fmt.Errorf("query guidance: %w", err)
	}
	defer rows.Close()

	var out []GuidanceRecord
	for rows.Next() {
		var (
			rec    GuidanceRecord
			turnAt string
			data   string
		)
		if err := rows.Scan(&rec.ID, &turnAt, &rec.Message, &data); err != nil {
			return nil, fmt.Errorf("scan guidance: %w", err)
		}
		if rec.TurnAt, err = parseTime(turnAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &rec.Guidance); err != nil {
			return nil, fmt.Errorf("decode guidance %d: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
