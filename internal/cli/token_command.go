package cli

import (
	"context"

	"task-app/internal/auth"
	"task-app/internal/errors"
)

// TokenCommand prints a signed bearer token for a subject
type TokenCommand struct {
	app *App
}

// NewTokenCommand creates a new token command handler
func NewTokenCommand(app *App) *TokenCommand {
	return &TokenCommand{app: app}
}

// Execute runs the token command
func (c *TokenCommand) Execute(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "token", "usage: taskapp token <subject>")
	}

	issuer, err := auth.NewIssuer(c.app.config.Auth)
	if err != nil {
		return errors.NewInvalidInputError("auth.jwt_secret", nil, "set TASKAPP_AUTH_JWT_SECRET to mint tokens")
	}

	token, err := issuer.GenerateToken(args[0])
	if err != nil {
		return err
	}
	c.app.printf("%s\n", token)
	return nil
}
