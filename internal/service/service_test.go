package service

import (
	"context"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/repository"
)

func newTestService(t *testing.T) *ActivityService {
	t.Helper()
	reg := repository.NewActivityRegistry()
	_, err := reg.Seed(model.CreateActivityRequest{
		Name:            "Chess Club",
		Description:     "Learn strategies and compete in chess tournaments",
		Schedule:        "Fridays, 3:30 PM - 5:00 PM",
		MaxParticipants: 12,
	}, []string{"michael@mergington.edu", "daniel@mergington.edu"})
	require.NoError(t, err)
	return NewActivityService(reg)
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, field)
}

func TestSignup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	email, err := svc.Signup(ctx, "Chess Club", "  new@x.edu ")
	require.NoError(t, err)
	assert.Equal(t, "new@x.edu", email)

	_, err = svc.Signup(ctx, "Chess Club", "new@x.edu")
	assert.ErrorIs(t, err, repository.ErrAlreadyRegistered)

	_, err = svc.Signup(ctx, "Nope", "new@x.edu")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSignup_InvalidEmail(t *testing.T) {
	svc := newTestService(t)

	for _, email := range []string{"", "   ", "no-at-sign", "a@b", "@x.edu", "a@b@c.edu"} {
		t.Run(email, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), "Chess Club", email)
			requireFieldError(t, err, "email")
		})
	}

	roster, err := svc.ListParticipants(context.Background(), "Chess Club")
	require.NoError(t, err)
	assert.Len(t, roster, 2)
}

func TestSignup_CancelledContext(t *testing.T) {
	svc := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Signup(ctx, "Chess Club", "new@x.edu")
	assert.ErrorIs(t, err, context.Canceled)

	roster, err := svc.ListParticipants(context.Background(), "Chess Club")
	require.NoError(t, err)
	assert.Len(t, roster, 2)
}

func TestUnregisterAndRemoveParticipant(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Unregister(ctx, "Chess Club", "michael@mergington.edu")
	require.NoError(t, err)
	_, err = svc.Unregister(ctx, "Chess Club", "michael@mergington.edu")
	assert.ErrorIs(t, err, repository.ErrNotRegistered)

	_, err = svc.RemoveParticipant(ctx, "Chess Club", "daniel@mergington.edu")
	require.NoError(t, err)
	_, err = svc.RemoveParticipant(ctx, "Nope", "daniel@mergington.edu")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	roster, err := svc.ListParticipants(ctx, "Chess Club")
	require.NoError(t, err)
	assert.Empty(t, roster)
}

func TestUnregister_MalformedEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Unregister(ctx, "Chess Club", "student1")
	assert.ErrorIs(t, err, repository.ErrNotRegistered)
	_, err = svc.RemoveParticipant(ctx, "Chess Club", "student1")
	assert.ErrorIs(t, err, repository.ErrNotRegistered)
	_, err = svc.Unregister(ctx, "Nope", "student1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.Unregister(ctx, "Chess Club", "  ")
	requireFieldError(t, err, "email")

	email, err := svc.Unregister(ctx, "Chess Club", " michael@mergington.edu ")
	require.NoError(t, err)
	assert.Equal(t, "michael@mergington.edu", email)
}

func TestCreateActivity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateActivity(ctx, model.CreateActivityRequest{
		Name:            "  Robotics  ",
		Description:     "Build robots",
		Schedule:        "Mondays",
		MaxParticipants: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, "Robotics", a.Name)

	got, err := svc.GetActivity(ctx, "Robotics")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = svc.CreateActivity(ctx, model.CreateActivityRequest{Name: "Chess Club", MaxParticipants: 3})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func TestCreateActivity_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   model.CreateActivityRequest
		field string
	}{
		{"blank name", model.CreateActivityRequest{Name: "  ", MaxParticipants: 3}, "name"},
		{"zero capacity", model.CreateActivityRequest{Name: "A", MaxParticipants: 0}, "max_participants"},
		{"negative capacity", model.CreateActivityRequest{Name: "A", MaxParticipants: -1}, "max_participants"},
		{"huge capacity", model.CreateActivityRequest{Name: "A", MaxParticipants: MaxCapacity + 1}, "max_participants"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			_, err := svc.CreateActivity(context.Background(), tt.req)
			requireFieldError(t, err, tt.field)

			all, err := svc.ListActivities(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, all.Len())
		})
	}
}

func TestUpdateActivity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	schedule := "Saturdays"

	a, err := svc.UpdateActivity(ctx, "Chess Club", model.UpdateActivityRequest{Schedule: &schedule})
	require.NoError(t, err)
	assert.Equal(t, "Saturdays", a.Schedule)
	assert.Equal(t, 12, a.MaxParticipants)

	bad := 0
	_, err = svc.UpdateActivity(ctx, "Chess Club", model.UpdateActivityRequest{MaxParticipants: &bad})
	requireFieldError(t, err, "max_participants")

	_, err = svc.UpdateActivity(ctx, "Nope", model.UpdateActivityRequest{Schedule: &schedule})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteActivity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteActivity(ctx, "Chess Club"))
	assert.ErrorIs(t, svc.DeleteActivity(ctx, "Chess Club"), repository.ErrNotFound)

	_, err := svc.ListParticipants(ctx, "Chess Club")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestNormalizeEmail(t *testing.T) {
	email, err := normalizeEmail(" emma@mergington.edu ")
	require.NoError(t, err)
	assert.Equal(t, "emma@mergington.edu", email)

	_, err = normalizeEmail("emma")
	requireFieldError(t, err, "email")
	_, err = normalizeEmail("emma@localhost")
	requireFieldError(t, err, "email")
}
