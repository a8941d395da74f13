package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"task-app/internal/errors"
	"task-app/internal/validation"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	StatusCode int                     `json:"statusCode"`
	Error      string                  `json:"error"`
	Message    string                  `json:"message"`
	Code       string                  `json:"code"`
	Details    []validation.FieldError `json:"details,omitempty"`
}

// ErrorHandler provides centralized error rendering for handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Build maps an error to its response body
func (eh *ErrorHandler) Build(err error) ErrorResponse {
	status := errors.HTTPStatus(err)
	resp := ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    errors.GetUserMessage(err),
		Code:       errors.GetErrorCode(err),
	}
	if ve, ok := validation.AsValidationError(err); ok {
		resp.Details = ve.Errors
	}
	return resp
}

// Respond writes err as JSON and logs system failures
func (eh *ErrorHandler) Respond(w http.ResponseWriter, r *http.Request, err error) {
	resp := eh.Build(err)
	if errors.ShouldLogError(err) {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("code", resp.Code).
			Int("status", resp.StatusCode).
			Msg("request failed")
	}
	writeJSON(w, resp.StatusCode, resp)
}
