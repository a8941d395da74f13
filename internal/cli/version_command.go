package cli

import (
	"context"
	"runtime"
)

// Version is stamped at build time with -ldflags "-X task-app/internal/cli.Version=...".
var Version = "dev"

// VersionCommand prints build information
type VersionCommand struct {
	app *App
}

// NewVersionCommand creates a new version command handler
func NewVersionCommand(app *App) *VersionCommand {
	return &VersionCommand{app: app}
}

// Execute runs the version command
func (c *VersionCommand) Execute(_ context.Context, _ []string) error {
	c.app.printf("taskapp %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}
