// Package model defines the core domain types for the activities service.
package model

import orderedmap "github.com/wk8/go-ordered-map/v2"

// Activity represents one extracurricular offering and its roster.
//
// Name is the registry key and is immutable once created. The JSON form omits
// it because activities are served as a map keyed by name.
type Activity struct {
	ID              string   `json:"id"`
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// IsFull returns true when no spots remain.
func (a *Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// Clone returns a deep copy so callers never share the roster slice.
func (a *Activity) Clone() Activity {
	c := *a
	c.Participants = append(make([]string, 0, len(a.Participants)), a.Participants...)
	return c
}

// Catalog is a snapshot of activities keyed by name. Iteration and the JSON
// object it encodes to both follow creation order.
type Catalog = orderedmap.OrderedMap[string, Activity]

// CreateActivityRequest is the payload for creating a new activity.
type CreateActivityRequest struct {
	Name            string `json:"name" yaml:"name"`
	Description     string `json:"description" yaml:"description"`
	Schedule        string `json:"schedule" yaml:"schedule"`
	MaxParticipants int    `json:"max_participants" yaml:"max_participants"`
}

// UpdateActivityRequest is a partial update. Nil fields are left unchanged.
type UpdateActivityRequest struct {
	Description     *string `json:"description,omitempty"`
	Schedule        *string `json:"schedule,omitempty"`
	MaxParticipants *int    `json:"max_participants,omitempty"`
}

// SignupRequest is the optional JSON body for a signup.
type SignupRequest struct {
	Email string `json:"email"`
}

// MessageResponse is the success envelope returned by mutating endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Detail string       `json:"detail"`
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError describes a validation failure on a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SignupResult summarises the outcome of a single signup attempt.
// Used in the concurrent test harness.
type SignupResult struct {
	Email   string
	Success bool
	Error   error
}
