package core

import (
	"context"
	"fmt"

	"sudokucore/internal/config"
	"sudokucore/internal/infra/persistence/memory"
	"sudokucore/internal/infra/persistence/postgres"
	"sudokucore/internal/infra/persistence/sqlite"
	"sudokucore/pkg/domain"
)

// StorageDriver identifies a saved-game backend.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenGameStore selects a backend from configuration. Defaults to sqlite.
// Stores backed by a database also implement io.Closer.
func OpenGameStore(ctx context.Context, cfg config.Storage) (domain.GameStore, error) {
	driver := StorageDriver(cfg.Driver)
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		store, err := sqlite.NewStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoragePostgres:
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
