package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the review service.
const (
	// TypeAttemptRecorded follows every committed review attempt.
	TypeAttemptRecorded = "attempt_recorded"

	// TypeWordMastered follows the first attempt that brings a word to the
	// final stage for a user. It is emitted at most once per user and word.
	TypeWordMastered = "word_mastered"
)

// Event is a notification that something happened in the review domain.
// Handlers learn about progress without the review service knowing them.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// AttemptRecordedPayload is the payload of TypeAttemptRecorded.
type AttemptRecordedPayload struct {
	AttemptID     uuid.UUID `json:"attempt_id"`
	UserID        uuid.UUID `json:"user_id"`
	WordID        uuid.UUID `json:"word_id"`
	Outcome       string    `json:"outcome"`
	PreviousCount int       `json:"previous_count"`
	NewCount      int       `json:"new_count"`
	NextReviewAt  time.Time `json:"next_review_at"`
}

// WordMasteredPayload is the payload of TypeWordMastered.
type WordMasteredPayload struct {
	UserID     uuid.UUID `json:"user_id"`
	WordID     uuid.UUID `json:"word_id"`
	MasteredAt time.Time `json:"mastered_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload, stamped
// with createdAt.
func NewEvent(eventType string, payload interface{}, createdAt time.Time) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: createdAt,
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
