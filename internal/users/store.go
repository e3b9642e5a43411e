package users

import (
	"context"
	"sync"
)

// InMemoryStore implements UserStore with an ordered, process-local slice
type InMemoryStore struct {
	mu    sync.RWMutex
	users []User
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// NewSeededStore creates a store and appends each seed through Create, so seeds
// get ids 1..n.
func NewSeededStore(seed []CreateUserRequest) *InMemoryStore {
	s := NewInMemoryStore()
	for _, u := range seed {
		s.Create(context.Background(), u.Name, u.Email)
	}
	return s
}

// List returns all users in insertion order
func (s *InMemoryStore) List(ctx context.Context) []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

// Create appends a new user. The id is the id of the last user plus one, or 1
// when the store is empty. It is not max(id)+1: deleting the last user and then
// creating one can reuse an id that is still held further up the list.
func (s *InMemoryStore) Create(ctx context.Context, name, email string) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := 1
	if n := len(s.users); n > 0 {
		id = s.users[n-1].ID + 1
	}

	user := User{
		ID:    id,
		Name:  name,
		Email: email,
	}
	s.users = append(s.users, user)
	return user
}

// DeleteByID removes the first user with the given id and reports whether one
// was found. The remaining users keep their order.
func (s *InMemoryStore) DeleteByID(ctx context.Context, id int) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return u, true
		}
	}
	return User{}, false
}

// Count returns the number of users currently held
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
