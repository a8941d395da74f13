package auth

import (
	"context"
	"net/http"
	"strings"

	"task-app/internal/errors"
)

type ctxKey string

const subjectKey ctxKey = "subject"

// ErrorWriter renders an authentication failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware enforces bearer tokens on every path except the public ones.
// A nil issuer disables checking.
type Middleware struct {
	issuer  *Issuer
	public  map[string]bool
	onError ErrorWriter
}

// NewMiddleware returns a Middleware. publicPaths are matched exactly.
func NewMiddleware(issuer *Issuer, onError ErrorWriter, publicPaths ...string) Middleware {
	public := make(map[string]bool, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = true
	}
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, errors.GetUserMessage(err), http.StatusUnauthorized)
		}
	}
	return Middleware{issuer: issuer, public: public, onError: onError}
}

func (m Middleware) Wrap(next http.Handler) http.Handler {
	if m.issuer == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.public[r.URL.Path] || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			m.onError(w, r, errors.NewUnauthorizedError("missing bearer token"))
			return
		}

		subject, err := m.issuer.ParseToken(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
		if err != nil {
			m.onError(w, r, errors.NewUnauthorizedError("invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SubjectFromContext returns the authenticated subject, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}
