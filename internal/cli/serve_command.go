package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"

	"task-app/internal/config"
	"task-app/internal/errors"
)

// ServeCommand runs the HTTP server until its context is cancelled
type ServeCommand struct {
	app *App
	// OnListen, when set, is called with the bound address before serving.
	OnListen func(addr net.Addr)
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

// Execute opens the store, starts listening and shuts down gracefully
// once ctx is done.
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errors.NewInvalidInputError("command", "serve", "usage: taskapp serve")
	}

	cfg := c.app.config
	logger := c.app.logger

	repo, err := config.CreateRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close database")
		}
	}()

	handler, err := c.app.buildHandler(repo)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address(), err)
	}

	server := &http.Server{
		Handler:      handler.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if c.OnListen != nil {
		c.OnListen(listener.Addr())
	}
	logger.Info().
		Str("addr", listener.Addr().String()).
		Str("driver", cfg.Database.Driver).
		Msg("server listening")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Dur("timeout", cfg.Server.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-serveErr; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
