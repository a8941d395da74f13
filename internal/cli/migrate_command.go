package cli

import (
	"context"
	"fmt"

	"task-app/internal/config"
	"task-app/internal/errors"
)

// MigrateCommand manages the database schema
type MigrateCommand struct {
	app *App
}

// NewMigrateCommand creates a new migrate command handler
func NewMigrateCommand(app *App) *MigrateCommand {
	return &MigrateCommand{app: app}
}

// Execute runs "up" (the default), "down" or "version"
func (c *MigrateCommand) Execute(ctx context.Context, args []string) error {
	action := "up"
	if len(args) > 1 {
		return errors.NewInvalidInputError("command", "migrate", "usage: taskapp migrate [up|down|version]")
	}
	if len(args) == 1 {
		action = args[0]
	}

	repo, err := config.OpenRepository(c.app.config)
	if err != nil {
		return err
	}
	defer repo.Close()

	runner := repo.Migrator()

	switch action {
	case "up":
		applied, err := runner.Up(ctx)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		if len(applied) == 0 {
			c.app.printf("No pending migrations\n")
			return nil
		}
		c.app.printf("Applied migrations: %v\n", applied)
	case "down":
		reverted, err := runner.Down(ctx)
		if err != nil {
			return fmt.Errorf("failed to revert migration: %w", err)
		}
		if reverted == 0 {
			c.app.printf("No migrations to revert\n")
			return nil
		}
		c.app.printf("Reverted migration %d\n", reverted)
	case "version":
		version, err := runner.Version(ctx)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		c.app.printf("Schema version: %d\n", version)
	default:
		return errors.NewInvalidInputError("action", action, "must be one of up, down, version")
	}
	return nil
}
