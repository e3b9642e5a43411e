package users

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eion/userdir/internal/events"
)

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestService(pub events.Publisher) (*UserServiceImpl, *InMemoryStore) {
	store := NewSeededStore(testSeed)
	return NewUserService(store, pub, zap.NewNop()), store
}

func TestUserServiceCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("valid request", func(t *testing.T) {
		pub := &recordingPublisher{}
		svc, store := newTestService(pub)

		user, err := svc.CreateUser(ctx, &CreateUserRequest{Name: "A", Email: "a@x.com"})
		require.NoError(t, err)
		assert.Equal(t, &User{ID: 3, Name: "A", Email: "a@x.com"}, user)
		assert.Equal(t, 3, store.Count())

		require.Len(t, pub.events, 1)
		assert.Equal(t, events.TypeUserCreated, pub.events[0].Type)
		assert.Equal(t, events.UserPayload{ID: 3, Name: "A", Email: "a@x.com"}, pub.events[0].User)
	})

	cases := []struct {
		name  string
		req   *CreateUserRequest
		field string
	}{
		{"nil request", nil, "name"},
		{"missing name", &CreateUserRequest{Email: "a@x.com"}, "name"},
		{"missing email", &CreateUserRequest{Name: "A"}, "email"},
		{"both missing", &CreateUserRequest{}, "name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			svc, store := newTestService(pub)
			before := store.List(ctx)

			user, err := svc.CreateUser(ctx, tc.req)
			require.Error(t, err)
			assert.Nil(t, user)
			assert.True(t, IsValidationError(err))
			assert.False(t, IsNotFound(err))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)

			assert.Equal(t, before, store.List(ctx), "store must not change")
			assert.Empty(t, pub.events)
		})
	}
}

func TestUserServiceDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("present id", func(t *testing.T) {
		pub := &recordingPublisher{}
		svc, _ := newTestService(pub)

		require.NoError(t, svc.DeleteUser(ctx, 1))
		assert.Equal(t, []int{2}, ids(svc.ListUsers(ctx)))

		require.Len(t, pub.events, 1)
		assert.Equal(t, events.TypeUserDeleted, pub.events[0].Type)
		assert.Equal(t, "John Doe", pub.events[0].User.Name)
	})

	t.Run("absent id", func(t *testing.T) {
		pub := &recordingPublisher{}
		svc, _ := newTestService(pub)
		before := svc.ListUsers(ctx)

		err := svc.DeleteUser(ctx, 7)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.False(t, IsValidationError(err))

		var ue *UserError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, "7", ue.UserID)

		assert.Equal(t, before, svc.ListUsers(ctx))
		assert.Empty(t, pub.events)
	})

	t.Run("wrapped not found is still detected", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", NewUserNotFoundError("9"))
		assert.True(t, IsNotFound(err))
	})
}

func TestUserServicePublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(&recordingPublisher{err: errors.New("broker down")})

	user, err := svc.CreateUser(ctx, &CreateUserRequest{Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, 3, user.ID)

	require.NoError(t, svc.DeleteUser(ctx, 3))
	assert.Equal(t, 2, store.Count())
}

func TestUserServiceEndToEnd(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(NewSeededStore(testSeed), nil, nil)

	assert.Equal(t, []int{1, 2}, ids(svc.ListUsers(ctx)))

	user, err := svc.CreateUser(ctx, &CreateUserRequest{Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, 3, user.ID)

	require.NoError(t, svc.DeleteUser(ctx, 3))
	assert.True(t, IsNotFound(svc.DeleteUser(ctx, 3)))

	// id reuse after deleting the tail
	require.NoError(t, svc.DeleteUser(ctx, 2))
	user, err = svc.CreateUser(ctx, &CreateUserRequest{Name: "B", Email: "b@x.com"})
	require.NoError(t, err)
	assert.Equal(t, 2, user.ID)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t,
		"validation error for field 'name' (value: ): name is required",
		NewValidationError("name", "", "name is required").Error())
	assert.Equal(t,
		"user error [not_found] for user 5: user not found",
		NewUserNotFoundError("5").Error())

	cause := errors.New("boom")
	ue := &UserError{Type: UserErrorTypeNotFound, UserID: "5", Message: "user not found", Cause: cause}
	assert.ErrorIs(t, ue, cause)
	assert.Contains(t, ue.Error(), "caused by: boom")
}
