// Package core hosts the game service: it owns open sessions, runs commands
// through the undo journal, autosaves to the configured store and moves save
// files in and out of the archive.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sudokucore/internal/archive"
	"sudokucore/internal/journal"
	"sudokucore/pkg/domain"
	"sudokucore/pkg/domain/command"
)

var (
	// ErrNoArchive is returned by Export and Import when no archive is configured.
	ErrNoArchive = errors.New("archive not configured")
	// ErrNotPersisted wraps an autosave failure after Execute or Undo changed
	// the game. The in-memory game keeps the change; call Save to retry.
	ErrNotPersisted = errors.New("game changed but not persisted")
	// ErrGameExists is returned by Import when the store already holds a game
	// with the save's ID.
	ErrGameExists = errors.New("saved game already exists")
)

// Service coordinates games, persistence and the archive.
type Service struct {
	store   domain.GameStore
	archive archive.Store
	logger  *zap.Logger
	metrics MetricsRecorder
	now     func() time.Time
	newID   func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger. nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithArchive enables Export and Import.
func WithArchive(a archive.Store) Option {
	return func(s *Service) { s.archive = a }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the uuid-based game id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService constructs a service backed by store.
func NewService(store domain.GameStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		logger:  zap.NewNop(),
		metrics: noopMetrics{},
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying game store.
func (s *Service) Store() domain.GameStore { return s.store }

func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) {
	s.metrics.Observe(ctx, op, err == nil, time.Since(start))
}

// NewGame starts a game from a puzzle line or a full board encoding and
// saves it.
func (s *Service) NewGame(ctx context.Context, puzzle string) (_ *Game, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "new_game", start, err) }()

	grid, err := domain.ParseGrid(puzzle)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	g := newGame(s.newID(), grid, journal.New(), s.now())
	if err := s.save(ctx, g); err != nil {
		return nil, err
	}
	s.logger.Info("game created", zap.String("game_id", g.id), zap.String("state", string(g.state)))
	return g, nil
}

// Open loads a saved game. A save that cannot be decoded yields an error
// wrapping domain.ErrMalformedSave.
func (s *Service) Open(ctx context.Context, id string) (_ *Game, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "open", start, err) }()

	saved, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open game %s: %w", id, err)
	}
	g, err := gameFromSaved(saved, s.now())
	if err != nil {
		s.logger.Warn("saved game unreadable", zap.String("game_id", id), zap.Error(err))
		return nil, fmt.Errorf("open game %s: %w", id, err)
	}
	s.logger.Debug("game opened", zap.String("game_id", id), zap.Int("commands", g.log.Len()))
	return g, nil
}

// Execute applies cmd, records it for undo and autosaves. A rejected command
// leaves the game unchanged; an autosave failure wraps ErrNotPersisted and
// the command stays applied.
func (s *Service) Execute(ctx context.Context, g *Game, cmd command.Command) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "execute", start, err) }()

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.log.Execute(g.grid, cmd); err != nil {
		s.logger.Warn("command rejected", zap.String("game_id", g.id), zap.String("kind", kindName(cmd)), zap.Error(err))
		return err
	}
	g.refreshState()
	s.logger.Debug("command executed",
		zap.String("game_id", g.id),
		zap.String("kind", cmd.Kind().Name()),
		zap.Int("commands", g.log.Len()))
	if g.state == domain.GameCompleted {
		s.logger.Info("game completed", zap.String("game_id", g.id))
	}
	return s.autosaveLocked(ctx, g)
}

func kindName(cmd command.Command) string {
	if cmd == nil {
		return "<nil>"
	}
	return cmd.Kind().Name()
}

// Undo reverses the most recent command and autosaves. It returns
// journal.ErrNothingToUndo on an empty history. On an autosave failure the
// undone command is returned with an error wrapping ErrNotPersisted.
func (s *Service) Undo(ctx context.Context, g *Game) (_ command.Command, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "undo", start, err) }()

	g.mu.Lock()
	defer g.mu.Unlock()
	cmd, err := g.log.Undo(g.grid)
	if err != nil {
		return nil, err
	}
	g.refreshState()
	s.logger.Debug("command undone",
		zap.String("game_id", g.id),
		zap.String("kind", cmd.Kind().Name()),
		zap.Int("commands", g.log.Len()))
	if err := s.autosaveLocked(ctx, g); err != nil {
		return cmd, err
	}
	return cmd, nil
}

// Save persists the game.
func (s *Service) Save(ctx context.Context, g *Game) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "save", start, err) }()
	return s.save(ctx, g)
}

func (s *Service) save(ctx context.Context, g *Game) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return s.saveLocked(ctx, g)
}

// autosaveLocked persists a change that has already been applied. Failures
// wrap ErrNotPersisted so callers can tell them from a rejected command.
func (s *Service) autosaveLocked(ctx context.Context, g *Game) error {
	if err := s.saveLocked(ctx, g); err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

func (s *Service) saveLocked(ctx context.Context, g *Game) error {
	saved := g.snapshot(s.now())
	if err := s.store.Save(ctx, saved); err != nil {
		s.logger.Error("save failed", zap.String("game_id", g.id), zap.Error(err))
		return fmt.Errorf("save game %s: %w", g.id, err)
	}
	return nil
}

// List returns saved games, most recently updated first.
func (s *Service) List(ctx context.Context) (_ []domain.SavedGame, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "list", start, err) }()
	games, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// Delete removes a saved game, reporting whether it existed.
func (s *Service) Delete(ctx context.Context, id string) (_ bool, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "delete", start, err) }()
	existed, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete game %s: %w", id, err)
	}
	s.logger.Info("game deleted", zap.String("game_id", id), zap.Bool("existed", existed))
	return existed, nil
}

// Export writes the saved game to the archive under saves/<id>.sav.
func (s *Service) Export(ctx context.Context, id string) (_ archive.Object, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "export", start, err) }()
	if s.archive == nil {
		return archive.Object{}, ErrNoArchive
	}
	saved, err := s.store.Get(ctx, id)
	if err != nil {
		return archive.Object{}, fmt.Errorf("export game %s: %w", id, err)
	}
	obj, err := archive.WriteSave(ctx, s.archive, saved)
	if err != nil {
		return archive.Object{}, fmt.Errorf("export game %s: %w", id, err)
	}
	s.logger.Info("game exported",
		zap.String("game_id", id),
		zap.String("key", obj.Key),
		zap.String("driver", string(s.archive.Driver())),
		zap.Int64("bytes", obj.Size))
	return obj, nil
}

// Import reads a save file from the archive, checks that it decodes and
// stores it under the id it carries. It returns ErrGameExists rather than
// overwrite a stored game.
func (s *Service) Import(ctx context.Context, key string) (_ *Game, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "import", start, err) }()
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	saved, err := archive.ReadSave(ctx, s.archive, key)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", key, err)
	}
	g, err := gameFromSaved(saved, s.now())
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", key, err)
	}
	switch _, err := s.store.Get(ctx, saved.ID); {
	case err == nil:
		return nil, fmt.Errorf("import %s: game %s: %w", key, saved.ID, ErrGameExists)
	case !errors.Is(err, domain.ErrGameNotFound):
		return nil, fmt.Errorf("import %s: %w", key, err)
	}
	saved.State = g.state
	saved.CommandCount = g.log.Len()
	if err := s.store.Save(ctx, saved); err != nil {
		return nil, fmt.Errorf("import %s: %w", key, err)
	}
	s.logger.Info("game imported", zap.String("game_id", g.id), zap.String("key", key), zap.Int("commands", g.log.Len()))
	return g, nil
}

// Archived lists the save files in the archive.
func (s *Service) Archived(ctx context.Context) (_ []archive.Object, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "archived", start, err) }()
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	return archive.ListSaves(ctx, s.archive)
}

// DownloadURL returns a time-limited URL for an archived key. Drivers without
// URL support return archive.ErrUnsupported.
func (s *Service) DownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if s.archive == nil {
		return "", ErrNoArchive
	}
	return s.archive.PresignURL(ctx, key, archive.URLOptions{Expiry: expiry})
}
