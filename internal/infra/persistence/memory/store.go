// Package memory provides an in-memory implementation of the saved-game store
// used for tests and ephemeral environments. The sqlite and postgres stores
// embed it as their authoritative state and write changes through.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"sudokucore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.GameStore = (*Store)(nil)

// SavedGame aliases domain.SavedGame for backends embedding this store.
type SavedGame = domain.SavedGame

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Games map[string]SavedGame `json:"games"`
}

// Store keeps saved games in a map guarded by a RWMutex.
type Store struct {
	mu    sync.RWMutex
	games map[string]SavedGame
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{games: make(map[string]SavedGame)}
}

// ExportState returns a deep copy of all games.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Snapshot{Games: make(map[string]SavedGame, len(s.games))}
	for id, g := range s.games {
		out.Games[id] = g
	}
	return out
}

// ImportState replaces the store contents with snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	games := make(map[string]SavedGame, len(snapshot.Games))
	for id, g := range snapshot.Games {
		if g.ID == "" {
			g.ID = id
		}
		games[g.ID] = g
	}
	s.mu.Lock()
	s.games = games
	s.mu.Unlock()
}

// ValidateGame rejects games that cannot be keyed or loaded.
func ValidateGame(game SavedGame) error {
	if strings.TrimSpace(game.ID) == "" {
		return fmt.Errorf("saved game id required")
	}
	if game.Grid == "" {
		return fmt.Errorf("saved game %s: grid required", game.ID)
	}
	return nil
}

// Save inserts or replaces game.
func (s *Store) Save(_ context.Context, game SavedGame) error {
	if err := ValidateGame(game); err != nil {
		return err
	}
	s.mu.Lock()
	s.games[game.ID] = game
	s.mu.Unlock()
	return nil
}

// Get returns the game or domain.ErrGameNotFound.
func (s *Store) Get(_ context.Context, id string) (SavedGame, error) {
	s.mu.RLock()
	g, ok := s.games[id]
	s.mu.RUnlock()
	if !ok {
		return SavedGame{}, fmt.Errorf("%w: %s", domain.ErrGameNotFound, id)
	}
	return g, nil
}

// List returns games, most recently updated first.
func (s *Store) List(_ context.Context) ([]SavedGame, error) {
	s.mu.RLock()
	out := make([]SavedGame, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g)
	}
	s.mu.RUnlock()
	SortGames(out)
	return out, nil
}

// Delete removes the game, reporting whether it existed.
func (s *Store) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return false, nil
	}
	delete(s.games, id)
	return true, nil
}

// SortGames orders by UpdatedAt descending, then ID ascending.
func SortGames(games []SavedGame) {
	sort.Slice(games, func(i, j int) bool {
		if !games[i].UpdatedAt.Equal(games[j].UpdatedAt) {
			return games[i].UpdatedAt.After(games[j].UpdatedAt)
		}
		return games[i].ID < games[j].ID
	})
}
