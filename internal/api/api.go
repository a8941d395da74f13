// Package api exposes the task and assistant services over HTTP/JSON.
package api

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"task-app/internal/auth"
	"task-app/internal/logging"
	"task-app/internal/services"
)

// Greeting is the body served at the root path.
const Greeting = "Hello World!"

// DefaultMaxBodyBytes caps request bodies when Options leaves it unset.
const DefaultMaxBodyBytes int64 = 1 << 20

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configure the HTTP surface.
type Options struct {
	Logger       zerolog.Logger
	CORSOrigins  []string
	MaxBodyBytes int64
	// Issuer enables bearer-token auth when non-nil.
	Issuer *auth.Issuer
	Health Pinger
}

// API serves the HTTP routes.
type API struct {
	tasks        services.TaskService
	ai           services.AIService
	health       Pinger
	errors       *ErrorHandler
	logger       zerolog.Logger
	corsOrigins  []string
	maxBodyBytes int64
	issuer       *auth.Issuer
}

// New creates a new API instance.
func New(container *services.ServiceContainer, opts Options) *API {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &API{
		tasks:        container.TaskService,
		ai:           container.AIService,
		health:       opts.Health,
		errors:       NewErrorHandler(),
		logger:       opts.Logger,
		corsOrigins:  opts.CORSOrigins,
		maxBodyBytes: opts.MaxBodyBytes,
		issuer:       opts.Issuer,
	}
}

func (a *API) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", a.handleRoot)
	mux.HandleFunc("GET /healthz", a.handleHealth)

	mux.HandleFunc("POST /tasks", a.handleCreateTask)
	mux.HandleFunc("GET /tasks", a.handleListTasks)
	mux.HandleFunc("GET /tasks/{id}", a.handleGetTask)
	mux.HandleFunc("PATCH /tasks/{id}", a.handleUpdateTask)
	mux.HandleFunc("DELETE /tasks/{id}", a.handleDeleteTask)

	mux.HandleFunc("GET /ai/summary", a.handleSummary)
	mux.HandleFunc("POST /ai/priorities", a.handlePriorities)
	mux.HandleFunc("POST /ai/autocomplete", a.handleAutocomplete)

	return mux
}

// Handler returns the routes wrapped in access logging, CORS, auth and
// the body size limit, outermost first.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.routes()
	h = a.limitBody(h)
	h = auth.NewMiddleware(a.issuer, a.errors.Respond, "/", "/healthz").Wrap(h)
	h = cors.New(cors.Options{
		AllowedOrigins: a.corsOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization", logging.RequestIDHeader},
		ExposedHeaders: []string{logging.RequestIDHeader},
	}).Handler(h)
	return logging.AccessLog(a.logger)(h)
}

func (a *API) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, a.maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(Greeting))
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.health != nil {
		if err := a.health.Ping(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
