package handler

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// AdminTokenHeader carries the shared admin secret.
const AdminTokenHeader = "X-Admin-Token"

// Logger returns the access-log middleware stack: it stores logger in the
// request context and emits one line per request once it completes.
func Logger(logger zerolog.Logger) func(http.Handler) http.Handler {
	withLogger := hlog.NewHandler(logger)
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		evt := hlog.FromRequest(r).Info()
		if status >= http.StatusInternalServerError {
			evt = hlog.FromRequest(r).Error()
		}
		evt.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("remote_addr", r.RemoteAddr).
			Msg("request")
	})
	return func(next http.Handler) http.Handler {
		return withLogger(access(next))
	}
}

// CORS returns a middleware allowing the given origins. "*" allows any.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAny := slices.Contains(allowedOrigins, "*")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAny || slices.Contains(allowedOrigins, origin)) {
				h := w.Header()
				if allowAny {
					h.Set("Access-Control-Allow-Origin", "*")
				} else {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", strings.Join([]string{"Content-Type", AdminTokenHeader}, ", "))
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminGate rejects requests whose X-Admin-Token header does not equal token.
//
// The comparison is a plain string equality, not constant-time. The token is
// a single shared secret for a toy admin surface and is not meant to resist
// timing attacks.
func AdminGate(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get(AdminTokenHeader); got == "" || got != token {
				hlog.FromRequest(r).Warn().
					Str("path", r.URL.Path).
					Bool("token_present", got != "").
					Msg("admin token rejected")
				writeError(w, http.StatusUnauthorized, detailInvalidToken)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
