package config

import (
	"context"
	"fmt"

	"task-app/internal/repository"
	"task-app/internal/repository/migrations"
	"task-app/internal/repository/postgres"
	"task-app/internal/repository/sqlite"
)

// MigratableRepository is a repository whose schema can be managed directly.
type MigratableRepository interface {
	repository.Repository
	Migrator() *migrations.Runner
}

// CreateRepository opens the configured store and applies pending migrations
func CreateRepository(ctx context.Context, config *Config) (repository.Repository, error) {
	switch config.Database.Driver {
	case DriverPostgres:
		repo, err := postgres.New(ctx, config.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo, nil
	case DriverSQLite:
		repo, err := sqlite.New(ctx, config.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo, nil
	default:
		return nil, &ConfigError{Field: "database.driver", Message: fmt.Sprintf("unsupported driver %q", config.Database.Driver)}
	}
}

// OpenRepository connects to the configured store without migrating it
func OpenRepository(config *Config) (MigratableRepository, error) {
	switch config.Database.Driver {
	case DriverPostgres:
		repo, err := postgres.Open(config.PostgresDSN())
		if err != nil {
			return nil, err
		}
		return repo, nil
	case DriverSQLite:
		repo, err := sqlite.Open(config.Database.Path)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, &ConfigError{Field: "database.driver", Message: fmt.Sprintf("unsupported driver %q", config.Database.Driver)}
	}
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository(ctx context.Context) (repository.Repository, error) {
	repo, err := sqlite.New(ctx, sqlite.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return repo, nil
}
