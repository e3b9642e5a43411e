package users

import (
	"context"
)

// UserStore defines the interface for user storage operations
type UserStore interface {
	List(ctx context.Context) []User
	Create(ctx context.Context, name, email string) User
	DeleteByID(ctx context.Context, id int) (User, bool)
}

// UserService defines the interface for user service operations
type UserService interface {
	ListUsers(ctx context.Context) []User
	CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, id int) error
}
