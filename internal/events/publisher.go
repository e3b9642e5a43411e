package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrPublisherClosed is returned when publishing after Close
var ErrPublisherClosed = errors.New("publisher is closed")

// Event types
const (
	TypeUserCreated = "user.created"
	TypeUserDeleted = "user.deleted"
)

// UserPayload is the user snapshot carried by an event
type UserPayload struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Event is a single user lifecycle record
type Event struct {
	EventID    string      `json:"event_id"`
	Type       string      `json:"type"`
	User       UserPayload `json:"user"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// NewEvent stamps a new event with a fresh id and the current time
func NewEvent(eventType string, user UserPayload) Event {
	return Event{
		EventID:    uuid.New().String(),
		Type:       eventType,
		User:       user,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers user lifecycle events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }

func (NopPublisher) Close() error { return nil }
