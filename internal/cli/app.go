package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"task-app/internal/ai"
	"task-app/internal/api"
	"task-app/internal/auth"
	"task-app/internal/config"
	"task-app/internal/repository"
	"task-app/internal/services"
)

// App represents the main CLI application
type App struct {
	config   *config.Config
	logger   zerolog.Logger
	out      io.Writer
	registry *CommandRegistry
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(cfg *config.Config, logger zerolog.Logger, out io.Writer) *App {
	app := &App{
		config: cfg,
		logger: logger,
		out:    out,
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// Execute runs a registered command by name
func (a *App) Execute(ctx context.Context, name string, args []string) error {
	return a.registry.Execute(ctx, name, args)
}

// printf writes command output
func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// newIssuer returns a token issuer, or nil when auth is disabled
func (a *App) newIssuer() (*auth.Issuer, error) {
	if !a.config.AuthEnabled() {
		return nil, nil
	}
	return auth.NewIssuer(a.config.Auth)
}

// buildHandler assembles services and the HTTP handler around repo
func (a *App) buildHandler(repo repository.Repository) (*api.API, error) {
	provider, err := ai.New(a.config.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI provider: %w", err)
	}
	a.logger.Info().Str("provider", provider.Name()).Msg("ai provider ready")

	issuer, err := a.newIssuer()
	if err != nil {
		return nil, err
	}

	container := services.NewServiceContainer(repo, provider, a.config)
	return api.New(container, api.Options{
		Logger:       a.logger,
		CORSOrigins:  a.config.Server.CORSOrigins,
		MaxBodyBytes: a.config.Server.MaxBodyBytes,
		Issuer:       issuer,
		Health:       repo,
	}), nil
}
