package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingodeck/internal/domain"
)

// Event types
const (
	// TypeCardAnswered is emitted after a flashcard answer is recorded.
	TypeCardAnswered = "card.answered"
	// TypeQuizFinished is emitted when a quiz session finishes.
	TypeQuizFinished = "quiz.finished"
)

// Event is a domain occurrence published to registered handlers.
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

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// CardAnswered is the payload of TypeCardAnswered.
type CardAnswered struct {
	CardID  string           `json:"card_id"`
	Level   domain.Level     `json:"level"`
	Correct bool             `json:"correct"`
	Stats   domain.CardStats `json:"stats"`
	Source  string           `json:"source"`
}

// Answer sources
const (
	SourceFlashcard = "flashcard"
	SourceQuiz      = "quiz"
)

// QuizFinished is the payload of TypeQuizFinished.
type QuizFinished struct {
	Entry domain.QuizHistoryEntry `json:"entry"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows components to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
