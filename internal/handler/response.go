package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog/hlog"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/repository"
)

// Detail strings returned to clients.
const (
	detailNotFound          = "Activity not found"
	detailAlreadyExists     = "Activity already exists"
	detailAlreadyRegistered = "Student is already signed up"
	detailNotRegistered     = "Student is not signed up for this activity"
	detailFull              = "Activity is full"
	detailInvalidToken      = "Invalid admin token"
	detailValidation        = "Validation failed"
	detailInternal          = "Internal server error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.MessageResponse{Message: msg})
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Detail: detail})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs criterio.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		resp := model.ErrorResponse{Detail: detailValidation}
		for _, fe := range fieldErrs {
			resp.Errors = append(resp.Errors, model.FieldError{Field: fe.Field, Message: fe.Err.Error()})
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, detailNotFound)
	case errors.Is(err, repository.ErrAlreadyExists):
		writeError(w, http.StatusBadRequest, detailAlreadyExists)
	case errors.Is(err, repository.ErrAlreadyRegistered):
		writeError(w, http.StatusBadRequest, detailAlreadyRegistered)
	case errors.Is(err, repository.ErrNotRegistered):
		writeError(w, http.StatusBadRequest, detailNotRegistered)
	case errors.Is(err, repository.ErrCapacityExceeded):
		writeError(w, http.StatusConflict, detailFull)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, detailInternal)
	}
}

// activityName returns the decoded {name} path parameter. chi reads the raw
// path when the request carried escapes the default encoding would not
// produce (e.g. %2F), so those need unescaping here.
func activityName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
