package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/service"
)

// RouterOption configures NewRouter.
type RouterOption func(*routerConfig)

type routerConfig struct {
	logger         zerolog.Logger
	metrics        *Metrics
	adminToken     string
	staticDir      string
	allowedOrigins []string
}

// WithLogger sets the logger used for access logs and handler errors.
func WithLogger(logger zerolog.Logger) RouterOption {
	return func(c *routerConfig) { c.logger = logger }
}

// WithMetrics enables request metrics and mounts /metrics.
func WithMetrics(m *Metrics) RouterOption {
	return func(c *routerConfig) { c.metrics = m }
}

// WithAdminToken sets the shared secret checked by AdminGate.
func WithAdminToken(token string) RouterOption {
	return func(c *routerConfig) { c.adminToken = token }
}

// WithStaticDir serves dir under /static and redirects / to its index.html.
func WithStaticDir(dir string) RouterOption {
	return func(c *routerConfig) { c.staticDir = dir }
}

// WithCORS sets the allowed CORS origins.
func WithCORS(origins ...string) RouterOption {
	return func(c *routerConfig) { c.allowedOrigins = origins }
}

// NewRouter builds the chi router for the public and admin surfaces.
func NewRouter(svc *service.ActivityService, opts ...RouterOption) *chi.Mux {
	cfg := &routerConfig{
		logger:         zerolog.Nop(),
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	activities := NewActivityHandler(svc, cfg.metrics)
	admin := NewAdminHandler(svc, cfg.metrics)

	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(cfg.logger))
	r.Use(cfg.metrics.Middleware)
	r.Use(CORS(cfg.allowedOrigins))

	r.Get("/health", HealthCheck)
	if cfg.metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.metrics.Handler())
	}

	r.Route("/activities", func(r chi.Router) {
		r.Get("/", activities.ListActivities)
		r.Post("/{name}/signup", activities.Signup)
		r.Delete("/{name}/unregister", activities.Unregister)
	})

	r.Route("/admin/activities", func(r chi.Router) {
		r.Use(AdminGate(cfg.adminToken))
		r.Get("/", admin.ListActivities)
		r.Post("/", admin.CreateActivity)
		r.Get("/{name}", admin.GetActivity)
		r.Put("/{name}", admin.UpdateActivity)
		r.Delete("/{name}", admin.DeleteActivity)
		r.Get("/{name}/participants", admin.ListParticipants)
		r.Delete("/{name}/participants", admin.RemoveParticipant)
	})

	if cfg.staticDir != "" {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
		})
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.staticDir)))
		r.Handle("/static/*", fs)
	}

	return r
}
