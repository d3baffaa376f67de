// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/service"
)

// ActivityHandler holds the public activity and roster handlers.
type ActivityHandler struct {
	svc     *service.ActivityService
	metrics *Metrics
}

// NewActivityHandler constructs an ActivityHandler. metrics may be nil.
func NewActivityHandler(svc *service.ActivityService, metrics *Metrics) *ActivityHandler {
	return &ActivityHandler{svc: svc, metrics: metrics}
}

// ListActivities handles GET /activities
// Returns every activity keyed by name.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.svc.ListActivities(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

// Signup handles POST /activities/{name}/signup
// The email comes from the query string, or from a JSON body when the query
// does not carry one.
func (h *ActivityHandler) Signup(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)

	email := r.URL.Query().Get("email")
	if email == "" && r.Body != nil && r.ContentLength != 0 {
		var req model.SignupRequest
		if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		email = req.Email
	}

	email, err := h.svc.Signup(r.Context(), name, email)
	h.metrics.observe("signup", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	hlog.FromRequest(r).Debug().Str("activity", name).Str("email", email).Msg("signed up")
	writeMessage(w, http.StatusOK, fmt.Sprintf("Signed up %s for %s", email, name))
}

// Unregister handles DELETE /activities/{name}/unregister?email=
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)

	email, err := h.svc.Unregister(r.Context(), name, r.URL.Query().Get("email"))
	h.metrics.observe("unregister", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	hlog.FromRequest(r).Debug().Str("activity", name).Str("email", email).Msg("unregistered")
	writeMessage(w, http.StatusOK, fmt.Sprintf("Unregistered %s from %s", email, name))
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
