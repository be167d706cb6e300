// Package sqlite persists saved games to a single SQLite table, one JSON row
// per game, on top of the in-memory store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sudokucore/internal/infra/persistence/memory"
	"sudokucore/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ domain.GameStore = (*Store)(nil)

// DefaultPath is used when NewStore receives an empty path.
const DefaultPath = "sudoku.db"

// Store keeps games in memory and writes each change through to SQLite.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens or creates the database at path and loads existing games.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create games table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db, path: path}
	if err := s.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, payload FROM games`)
	if err != nil {
		return fmt.Errorf("select games: %w", err)
	}
	defer func() { _ = rows.Close() }()
	snapshot := memory.Snapshot{Games: map[string]domain.SavedGame{}}
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		var game domain.SavedGame
		if err := json.Unmarshal(payload, &game); err != nil {
			return fmt.Errorf("decode game %s: %w", id, err)
		}
		snapshot.Games[id] = game
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate games: %w", err)
	}
	s.ImportState(snapshot)
	return nil
}

// Save upserts the row, then updates memory.
func (s *Store) Save(ctx context.Context, game domain.SavedGame) error {
	if err := memory.ValidateGame(game); err != nil {
		return err
	}
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", game.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO games(id,payload,updated_at) VALUES(?,?,?) ON CONFLICT(id) DO UPDATE SET payload=excluded.payload, updated_at=excluded.updated_at`,
		game.ID, data, game.UpdatedAt.UTC().Format(timeLayout)); err != nil {
		return fmt.Errorf("upsert game %s: %w", game.ID, err)
	}
	return s.Store.Save(ctx, game)
}

// Delete removes the row and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete game %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete game %s: %w", id, err)
	}
	existed, _ := s.Store.Delete(ctx, id)
	return existed || n > 0, nil
}

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
