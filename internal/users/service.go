package users

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/eion/userdir/internal/events"
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	store     UserStore
	publisher events.Publisher
	logger    *zap.Logger
}

// NewUserService creates a new user service instance
func NewUserService(store UserStore, publisher events.Publisher, logger *zap.Logger) *UserServiceImpl {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserServiceImpl{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// ListUsers returns every user in creation order
func (s *UserServiceImpl) ListUsers(ctx context.Context) []User {
	return s.store.List(ctx)
}

// CreateUser validates the request and stores a new user
func (s *UserServiceImpl) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if req == nil || req.Name == "" {
		return nil, NewValidationError("name", "", "name is required")
	}
	if req.Email == "" {
		return nil, NewValidationError("email", "", "email is required")
	}

	user := s.store.Create(ctx, req.Name, req.Email)
	s.publish(ctx, events.TypeUserCreated, user)
	return &user, nil
}

// DeleteUser deletes a user by id
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id int) error {
	deleted, ok := s.store.DeleteByID(ctx, id)
	if !ok {
		return NewUserNotFoundError(strconv.Itoa(id))
	}

	s.publish(ctx, events.TypeUserDeleted, deleted)
	return nil
}

func (s *UserServiceImpl) publish(ctx context.Context, eventType string, user User) {
	ev := events.NewEvent(eventType, events.UserPayload{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Error("Failed to publish user event",
			zap.String("type", eventType),
			zap.Int("user_id", user.ID),
			zap.Error(err))
	}
}
