// Package service implements validation and orchestration between HTTP
// handlers and the activity registry.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/repository"
)

// MaxCapacity bounds max_participants on create and update.
const MaxCapacity = 100_000

// ActivityService orchestrates activity and roster operations.
type ActivityService struct {
	registry *repository.ActivityRegistry
}

// NewActivityService constructs an ActivityService around registry.
func NewActivityService(registry *repository.ActivityRegistry) *ActivityService {
	return &ActivityService{registry: registry}
}

// ListActivities returns a snapshot of every activity in creation order.
func (s *ActivityService) ListActivities(ctx context.Context) (*model.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.registry.List(), nil
}

// GetActivity returns a single activity.
func (s *ActivityService) GetActivity(ctx context.Context, name string) (*model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, err := s.registry.Get(name)
	if err != nil {
		return nil, passThrough("get activity", err)
	}
	return &a, nil
}

// Signup validates email and adds it to the roster of name.
func (s *ActivityService) Signup(ctx context.Context, name, email string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}
	if err := s.registry.Signup(name, email); err != nil {
		return "", passThrough("signup", err)
	}
	return email, nil
}

// Unregister removes email from the roster of name. An address that is not
// well formed cannot be on a roster, so it reports ErrNotRegistered rather
// than a validation error.
func (s *ActivityService) Unregister(ctx context.Context, name, email string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	email, err := requireEmail(email)
	if err != nil {
		return "", err
	}
	if err := s.registry.Unregister(name, email); err != nil {
		return "", passThrough("unregister", err)
	}
	return email, nil
}

// RemoveParticipant is the admin form of Unregister.
func (s *ActivityService) RemoveParticipant(ctx context.Context, name, email string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	email, err := requireEmail(email)
	if err != nil {
		return "", err
	}
	if err := s.registry.RemoveParticipant(name, email); err != nil {
		return "", passThrough("remove participant", err)
	}
	return email, nil
}

// ListParticipants returns the roster of name.
func (s *ActivityService) ListParticipants(ctx context.Context, name string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	roster, err := s.registry.Participants(name)
	if err != nil {
		return nil, passThrough("list participants", err)
	}
	return roster, nil
}

// CreateActivity validates the request and inserts a new activity.
func (s *ActivityService) CreateActivity(ctx context.Context, req model.CreateActivityRequest) (*model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)

	var errs criterio.FieldErrorsBuilder
	if req.Name == "" {
		errs = errs.Append("name", errors.New("is required"))
	}
	errs = validateCapacity(errs, req.MaxParticipants)
	if err := errs.ToError(); err != nil {
		return nil, err
	}

	a, err := s.registry.Create(req)
	if err != nil {
		return nil, passThrough("create activity", err)
	}
	return &a, nil
}

// UpdateActivity validates and applies a partial update to name.
func (s *ActivityService) UpdateActivity(ctx context.Context, name string, req model.UpdateActivityRequest) (*model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.MaxParticipants != nil {
		var errs criterio.FieldErrorsBuilder
		if err := validateCapacity(errs, *req.MaxParticipants).ToError(); err != nil {
			return nil, err
		}
	}

	a, err := s.registry.Update(name, req)
	if err != nil {
		return nil, passThrough("update activity", err)
	}
	return &a, nil
}

// DeleteActivity removes name and its roster.
func (s *ActivityService) DeleteActivity(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.registry.Delete(name); err != nil {
		return passThrough("delete activity", err)
	}
	return nil
}

func validateCapacity(errs criterio.FieldErrorsBuilder, n int) criterio.FieldErrorsBuilder {
	switch {
	case n <= 0:
		errs = errs.Append("max_participants", errors.New("must be a positive integer"))
	case n > MaxCapacity:
		errs = errs.Append("max_participants", fmt.Errorf("cannot exceed %d", MaxCapacity))
	}
	return errs
}

// passThrough surfaces registry sentinels unchanged so handlers can pick the
// HTTP status, and wraps anything else.
func passThrough(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrAlreadyExists),
		errors.Is(err, repository.ErrAlreadyRegistered),
		errors.Is(err, repository.ErrNotRegistered),
		errors.Is(err, repository.ErrCapacityExceeded):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requireEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", criterio.NewFieldErrors("email", errors.New("is required"))
	}
	return email, nil
}

// normalizeEmail trims email and checks that it is well formed. The seed
// loader applies the same check to initial rosters.
func normalizeEmail(email string) (string, error) {
	email, err := requireEmail(email)
	if err != nil {
		return "", err
	}
	if err := criterio.StrEmail(email); err != nil {
		return "", criterio.NewFieldErrors("email", err)
	}
	return email, nil
}
