package archive

import (
	"context"
	"fmt"

	"sudokucore/internal/config"
	"sudokucore/internal/infra/archive/fs"
	"sudokucore/internal/infra/archive/memory"
	"sudokucore/internal/infra/archive/s3"
)

// Open selects a Store implementation from configuration (SUDOKU_ARCHIVE_*).
func Open(ctx context.Context, cfg config.Archive) (Store, error) {
	driver := Driver(cfg.Driver)
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return NewFilesystem(cfg.FSRoot)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown archive driver %q", cfg.Driver)
	}
}

// NewFilesystem returns a filesystem store rooted at root.
func NewFilesystem(root string) (Store, error) {
	store, err := fs.New(root)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewMemory returns an in-memory store.
func NewMemory() Store { return memory.New() }

// S3Config re-exports the S3 driver configuration.
type S3Config = s3.Config

// NewS3 returns an S3-backed store.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	store, err := s3.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewMockS3ForTests returns an S3 store on a fake transport for cross-package
// tests.
func NewMockS3ForTests() Store { return s3.NewMock(0) }
