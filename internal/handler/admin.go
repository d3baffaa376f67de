package handler

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/service"
)

// AdminHandler holds the catalog management handlers. Every route it serves
// sits behind AdminGate.
type AdminHandler struct {
	svc     *service.ActivityService
	metrics *Metrics
}

// NewAdminHandler constructs an AdminHandler. metrics may be nil.
func NewAdminHandler(svc *service.ActivityService, metrics *Metrics) *AdminHandler {
	return &AdminHandler{svc: svc, metrics: metrics}
}

// ListActivities handles GET /admin/activities
func (h *AdminHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.svc.ListActivities(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

// GetActivity handles GET /admin/activities/{name}
func (h *AdminHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.svc.GetActivity(r.Context(), activityName(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

// CreateActivity handles POST /admin/activities
func (h *AdminHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req model.CreateActivityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	activity, err := h.svc.CreateActivity(r.Context(), req)
	h.metrics.observe("create", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Str("activity", activity.Name).Str("id", activity.ID).Msg("activity created")
	writeMessage(w, http.StatusCreated, fmt.Sprintf("Activity '%s' created", activity.Name))
}

// UpdateActivity handles PUT /admin/activities/{name}
// Only the fields present in the body are changed.
func (h *AdminHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)

	var req model.UpdateActivityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	_, err := h.svc.UpdateActivity(r.Context(), name, req)
	h.metrics.observe("update", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Str("activity", name).Msg("activity updated")
	writeMessage(w, http.StatusOK, fmt.Sprintf("Activity '%s' updated", name))
}

// DeleteActivity handles DELETE /admin/activities/{name}
func (h *AdminHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)

	err := h.svc.DeleteActivity(r.Context(), name)
	h.metrics.observe("delete", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Str("activity", name).Msg("activity deleted")
	writeMessage(w, http.StatusOK, fmt.Sprintf("Activity '%s' deleted", name))
}

// ListParticipants handles GET /admin/activities/{name}/participants
func (h *AdminHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	roster, err := h.svc.ListParticipants(r.Context(), activityName(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// RemoveParticipant handles DELETE /admin/activities/{name}/participants?email=
func (h *AdminHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)

	email, err := h.svc.RemoveParticipant(r.Context(), name, r.URL.Query().Get("email"))
	h.metrics.observe("remove_participant", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Str("activity", name).Str("email", email).Msg("participant removed")
	writeMessage(w, http.StatusOK, fmt.Sprintf("Removed %s from %s", email, name))
}
