package core

import (
	"fmt"
	"sync"
	"time"

	"sudokucore/internal/journal"
	"sudokucore/pkg/domain"
	"sudokucore/pkg/domain/command"
)

// Game is an open session: a board, its undo history and the bookkeeping
// needed to persist it. Service methods serialize access per game.
type Game struct {
	mu        sync.Mutex
	id        string
	grid      *domain.Grid
	log       *journal.Log
	state     domain.GameState
	createdAt time.Time
	elapsed   time.Duration
	since     time.Time
}

func newGame(id string, grid *domain.Grid, log *journal.Log, now time.Time) *Game {
	g := &Game{id: id, grid: grid, log: log, createdAt: now, since: now}
	g.refreshState()
	return g
}

// gameFromSaved rebuilds a session. The stored board already reflects every
// command in the history, so nothing is re-applied.
func gameFromSaved(saved domain.SavedGame, now time.Time) (*Game, error) {
	grid, err := domain.ParseGrid(saved.Grid)
	if err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}
	log, err := journal.Parse(saved.History)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	g := &Game{
		id:        saved.ID,
		grid:      grid,
		log:       log,
		createdAt: saved.CreatedAt,
		elapsed:   saved.Elapsed,
		since:     now,
	}
	g.refreshState()
	return g, nil
}

// ID returns the saved game id.
func (g *Game) ID() string { return g.id }

// Grid returns a copy of the board.
func (g *Game) Grid() *domain.Grid {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.grid.Clone()
}

// State reports whether the board is complete.
func (g *Game) State() domain.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// CommandCount is the number of undoable commands.
func (g *Game) CommandCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.log.Len()
}

// History returns the undoable commands, oldest first.
func (g *Game) History() []command.Command {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.log.Commands()
}

func (g *Game) refreshState() {
	if g.grid.Filled() {
		g.state = domain.GameCompleted
		return
	}
	g.state = domain.GamePlaying
}

// snapshot folds play time since the last snapshot into elapsed. Callers
// hold g.mu.
func (g *Game) snapshot(now time.Time) domain.SavedGame {
	if now.After(g.since) {
		g.elapsed += now.Sub(g.since)
	}
	g.since = now
	return domain.SavedGame{
		ID:           g.id,
		Grid:         domain.FormatGrid(g.grid),
		History:      g.log.String(),
		State:        g.state,
		CommandCount: g.log.Len(),
		Elapsed:      g.elapsed,
		CreatedAt:    g.createdAt,
		UpdatedAt:    now,
	}
}
