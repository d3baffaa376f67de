// Package repository implements the in-memory activity registry.
// It is the only place where activity and roster invariants are enforced.
package repository

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
)

// ErrNotFound is returned when a requested activity does not exist.
var ErrNotFound = errors.New("activity not found")

// ErrAlreadyExists is returned when creating an activity whose name is taken.
var ErrAlreadyExists = errors.New("activity already exists")

// ErrAlreadyRegistered is returned when the same email signs up twice.
var ErrAlreadyRegistered = errors.New("student is already signed up")

// ErrNotRegistered is returned when removing an email that is not on the roster.
var ErrNotRegistered = errors.New("student is not signed up for this activity")

// ErrCapacityExceeded is returned when the roster is already at max_participants.
var ErrCapacityExceeded = errors.New("activity is full")

// ErrInvalidActivity is returned when an activity record fails the registry's
// own structural checks (empty name, non-positive capacity).
var ErrInvalidActivity = errors.New("invalid activity")

// entry is a registry slot. mu guards every field of activity.
type entry struct {
	mu       sync.RWMutex
	activity model.Activity
}

// Option configures an ActivityRegistry.
type Option func(*ActivityRegistry)

// WithCapacityEnforcement toggles the max_participants cap on Signup.
// Enforcement is on by default.
func WithCapacityEnforcement(enforce bool) Option {
	return func(r *ActivityRegistry) {
		r.enforceCapacity = enforce
	}
}

// ActivityRegistry is a process-wide store of activities keyed by name, kept
// in creation order.
//
// Locking has two levels. mu guards the key set: Create and Delete hold it
// exclusively, every other operation holds it shared. Each entry has its own
// lock that serialises roster and metadata changes on that activity, so
// signups on different activities never contend. Because Delete needs mu
// exclusively it waits for every in-flight per-activity operation, and no
// caller can observe a half-deleted activity.
type ActivityRegistry struct {
	mu              sync.RWMutex
	entries         *orderedmap.OrderedMap[string, *entry]
	enforceCapacity bool
}

// NewActivityRegistry constructs an empty ActivityRegistry.
func NewActivityRegistry(opts ...Option) *ActivityRegistry {
	r := &ActivityRegistry{
		entries:         orderedmap.New[string, *entry](),
		enforceCapacity: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EnforcesCapacity reports whether Signup rejects signups on a full activity.
func (r *ActivityRegistry) EnforcesCapacity() bool {
	return r.enforceCapacity
}

// lookup returns the entry for name. Callers must hold r.mu.
func (r *ActivityRegistry) lookup(name string) (*entry, error) {
	e, ok := r.entries.Get(name)
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// List returns a snapshot of every activity in creation order.
func (r *ActivityRegistry) List() *model.Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := orderedmap.New[string, model.Activity](r.entries.Len())
	for pair := r.entries.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.mu.RLock()
		out.Set(pair.Key, pair.Value.activity.Clone())
		pair.Value.mu.RUnlock()
	}
	return out
}

// Names returns activity names in creation order.
func (r *ActivityRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, r.entries.Len())
	for pair := r.entries.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Len returns the number of activities.
func (r *ActivityRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries.Len()
}

// ParticipantCount returns the total number of roster entries.
func (r *ActivityRegistry) ParticipantCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for pair := r.entries.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.mu.RLock()
		n += len(pair.Value.activity.Participants)
		pair.Value.mu.RUnlock()
	}
	return n
}

// Get returns a copy of a single activity or ErrNotFound.
func (r *ActivityRegistry) Get(name string) (model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, err := r.lookup(name)
	if err != nil {
		return model.Activity{}, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.activity.Clone(), nil
}

// Participants returns a copy of the roster of name.
func (r *ActivityRegistry) Participants(name string) ([]string, error) {
	a, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return a.Participants, nil
}

// Signup adds email to the roster of name.
//
// The per-activity lock plays the role of a row lock: the duplicate check,
// the capacity check and the append all happen while it is held, so two
// concurrent signups for the same email can never both succeed.
func (r *ActivityRegistry) Signup(name, email string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, err := r.lookup(name)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if slices.Contains(e.activity.Participants, email) {
		return ErrAlreadyRegistered
	}
	if r.enforceCapacity && e.activity.IsFull() {
		return ErrCapacityExceeded
	}
	e.activity.Participants = append(e.activity.Participants, email)
	return nil
}

// Unregister removes email from the roster of name.
func (r *ActivityRegistry) Unregister(name, email string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, err := r.lookup(name)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	i := slices.Index(e.activity.Participants, email)
	if i < 0 {
		return ErrNotRegistered
	}
	e.activity.Participants = slices.Delete(e.activity.Participants, i, i+1)
	return nil
}

// RemoveParticipant is the administrative form of Unregister.
func (r *ActivityRegistry) RemoveParticipant(name, email string) error {
	return r.Unregister(name, email)
}

// Create inserts a new activity with an empty roster.
func (r *ActivityRegistry) Create(req model.CreateActivityRequest) (model.Activity, error) {
	return r.insert(req, nil)
}

// Seed inserts an activity together with an initial roster. Duplicate emails
// in participants are dropped, keeping the first occurrence.
func (r *ActivityRegistry) Seed(req model.CreateActivityRequest, participants []string) (model.Activity, error) {
	return r.insert(req, participants)
}

func (r *ActivityRegistry) insert(req model.CreateActivityRequest, participants []string) (model.Activity, error) {
	if req.Name == "" || req.MaxParticipants <= 0 {
		return model.Activity{}, ErrInvalidActivity
	}

	roster := make([]string, 0, len(participants))
	for _, p := range participants {
		if !slices.Contains(roster, p) {
			roster = append(roster, p)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries.Get(req.Name); ok {
		return model.Activity{}, ErrAlreadyExists
	}

	e := &entry{activity: model.Activity{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Description:     req.Description,
		Schedule:        req.Schedule,
		MaxParticipants: req.MaxParticipants,
		Participants:    roster,
	}}
	r.entries.Set(req.Name, e)
	return e.activity.Clone(), nil
}

// Update applies a partial update to the metadata of name. The roster is
// never touched. Lowering capacity below the current roster size is allowed;
// nobody is evicted.
func (r *ActivityRegistry) Update(name string, req model.UpdateActivityRequest) (model.Activity, error) {
	if req.MaxParticipants != nil && *req.MaxParticipants <= 0 {
		return model.Activity{}, ErrInvalidActivity
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, err := r.lookup(name)
	if err != nil {
		return model.Activity{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if req.Description != nil {
		e.activity.Description = *req.Description
	}
	if req.Schedule != nil {
		e.activity.Schedule = *req.Schedule
	}
	if req.MaxParticipants != nil {
		e.activity.MaxParticipants = *req.MaxParticipants
	}
	return e.activity.Clone(), nil
}

// Delete removes name and its roster.
func (r *ActivityRegistry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries.Delete(name); !ok {
		return ErrNotFound
	}
	return nil
}
