package cli

import (
	"fmt"

	"task-app/internal/errors"
	"task-app/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, eh.HandleSimple(err))
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}

	if validationErr, ok := validation.AsValidationError(err); ok && !errors.IsAppError(err) {
		return fmt.Errorf("%s", validationErr.GetUserFriendlyMessage())
	}

	if appErr, ok := errors.AsAppError(err); ok {
		switch appErr.Type {
		case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput, errors.ErrorTypeNotFound, errors.ErrorTypeUnauthorized:
			return fmt.Errorf("%s", appErr.Message)
		default:
			return fmt.Errorf("%s: %w", errors.GetUserMessage(err), err)
		}
	}

	// Fallback for unknown errors
	return err
}
