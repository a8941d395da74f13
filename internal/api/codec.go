package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"task-app/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a single JSON object into dst. Unknown fields, trailing
// data and oversized bodies are rejected as invalid input.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return bodyError(err)
	}
	if err := dec.Decode(&struct{}{}); !stderrors.Is(err, io.EOF) {
		return errors.NewInvalidInputError("body", nil, "must contain a single JSON object")
	}
	return nil
}

func bodyError(err error) error {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		maxBytesErr *http.MaxBytesError
	)
	switch {
	case stderrors.Is(err, io.EOF):
		return errors.NewInvalidInputError("body", nil, "must not be empty")
	case stderrors.As(err, &maxBytesErr):
		return errors.NewInvalidInputError("body", nil, fmt.Sprintf("must not exceed %d bytes", maxBytesErr.Limit))
	case stderrors.As(err, &syntaxErr), stderrors.Is(err, io.ErrUnexpectedEOF):
		return errors.NewInvalidInputError("body", nil, "malformed JSON")
	case stderrors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return errors.NewInvalidInputError(field, nil, fmt.Sprintf("must be of type %s", typeErr.Type))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return errors.NewInvalidInputError(field, nil, "is not allowed")
	default:
		return errors.NewInvalidInputError("body", nil, err.Error())
	}
}
