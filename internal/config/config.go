// Package config loads process configuration from SUDOKU_* environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Storage selects and configures the saved-game backend.
type Storage struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"sudoku.db"`
	PostgresDSN string `env:"POSTGRES_DSN"`
}

// S3 configures the S3 archive driver. AWS credentials come from the default
// chain (AWS_ACCESS_KEY_ID, profiles, instance roles).
type S3 struct {
	Bucket    string `env:"BUCKET"`
	Region    string `env:"REGION" envDefault:"us-east-1"`
	Endpoint  string `env:"ENDPOINT"`
	PathStyle bool   `env:"PATH_STYLE" envDefault:"false"`
}

// Archive selects and configures the save-file archive.
type Archive struct {
	Driver string `env:"DRIVER" envDefault:"fs"`
	FSRoot string `env:"FS_ROOT" envDefault:"archive"`
	S3     S3     `envPrefix:"S3_"`
}

// Log configures the zap logger.
type Log struct {
	Level string `env:"LEVEL" envDefault:"info"`
	JSON  bool   `env:"JSON" envDefault:"true"`
}

// Config is the full process configuration.
//
//	SUDOKU_STORAGE_DRIVER        memory|sqlite|postgres (default sqlite)
//	SUDOKU_STORAGE_SQLITE_PATH   sqlite file (default sudoku.db)
//	SUDOKU_STORAGE_POSTGRES_DSN  postgres DSN when driver=postgres
//	SUDOKU_ARCHIVE_DRIVER        fs|s3|memory (default fs)
//	SUDOKU_ARCHIVE_FS_ROOT       archive directory when driver=fs (default archive)
//	SUDOKU_ARCHIVE_S3_BUCKET     bucket when driver=s3 (required)
//	SUDOKU_ARCHIVE_S3_REGION     region (default us-east-1)
//	SUDOKU_ARCHIVE_S3_ENDPOINT   custom endpoint, e.g. MinIO
//	SUDOKU_ARCHIVE_S3_PATH_STYLE true for path-style addressing
//	SUDOKU_LOG_LEVEL             debug|info|warn|error (default info)
//	SUDOKU_LOG_JSON              JSON encoder when true (default true)
type Config struct {
	Storage Storage `envPrefix:"STORAGE_"`
	Archive Archive `envPrefix:"ARCHIVE_"`
	Log     Log     `envPrefix:"LOG_"`
}

// Prefix is prepended to every variable name.
const Prefix = "SUDOKU_"

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses the supplied variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
