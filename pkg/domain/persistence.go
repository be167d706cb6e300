package domain

import (
	"context"
	"time"
)

// GameState tracks whether a saved game is still being played.
type GameState string

const (
	GamePlaying   GameState = "playing"
	GameCompleted GameState = "completed"
)

// SavedGame is the persisted form of a game session. Grid holds the board
// encoding (see FormatGrid) and History the encoded command log.
type SavedGame struct {
	ID           string        `json:"id"`
	Grid         string        `json:"grid"`
	History      string        `json:"history"`
	State        GameState     `json:"state"`
	CommandCount int           `json:"command_count"`
	Elapsed      time.Duration `json:"elapsed_ns"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// GameStore is the persistence contract implemented by every backend.
type GameStore interface {
	// Save inserts or replaces the game keyed by ID.
	Save(ctx context.Context, game SavedGame) error
	// Get returns ErrGameNotFound when id is unknown.
	Get(ctx context.Context, id string) (SavedGame, error)
	// List orders games by UpdatedAt descending, then ID ascending.
	List(ctx context.Context) ([]SavedGame, error)
	// Delete reports whether the game existed.
	Delete(ctx context.Context, id string) (bool, error)
}
