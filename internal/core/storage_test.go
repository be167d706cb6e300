package core

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"sudokucore/internal/config"
	"sudokucore/internal/infra/persistence/memory"
	"sudokucore/internal/infra/persistence/sqlite"
	"sudokucore/pkg/domain/command"
)

func TestOpenGameStoreMemory(t *testing.T) {
	store, err := OpenGameStore(context.Background(), config.Storage{Driver: "memory"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
}

func TestOpenGameStoreSQLiteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	store, err := OpenGameStore(context.Background(), config.Storage{SQLitePath: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s, ok := store.(*sqlite.Store)
	if !ok {
		t.Fatalf("expected sqlite store, got %T", store)
	}
	if s.Path() != path {
		t.Fatalf("unexpected path %s", s.Path())
	}
	closer, ok := store.(io.Closer)
	if !ok {
		t.Fatalf("sqlite store should be closable")
	}
	_ = closer.Close()
}

func TestOpenGameStoreUnknown(t *testing.T) {
	if _, err := OpenGameStore(context.Background(), config.Storage{Driver: "redis"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestServiceOnSQLiteSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := config.Storage{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "games.db")}
	store, err := OpenGameStore(ctx, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	svc := NewService(store)
	g, err := svc.NewGame(ctx, samplePuzzle)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if err := svc.Execute(ctx, g, command.NewClearAllNotes()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	_ = store.(io.Closer).Close()

	store, err = OpenGameStore(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = store.(io.Closer).Close() }()
	reopened, err := NewService(store).Open(ctx, g.ID())
	if err != nil {
		t.Fatalf("open game: %v", err)
	}
	if reopened.CommandCount() != 1 {
		t.Fatalf("history lost: %d", reopened.CommandCount())
	}
}
