package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tales-api/internal/domain"
)

// Event types emitted by the story service.
const (
	// StoryGenerated is emitted after a generated story has been saved.
	StoryGenerated = "story.generated"

	// StoryDeleted is emitted after a story has been removed from the store.
	StoryDeleted = "story.deleted"
)

// StoryEvent describes something that happened to a story. It carries a
// summary of the story rather than the story itself.
type StoryEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the event type constants
	Type string `json:"type"`

	StoryID     string `json:"storyId"`
	Title       string `json:"title,omitempty"`
	PageCount   int    `json:"pageCount"`
	Illustrated bool   `json:"illustrated"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"createdAt"`
}

// NewStoryEvent creates an event of the given type summarizing story.
func NewStoryEvent(eventType string, story *domain.Story) *StoryEvent {
	return &StoryEvent{
		ID:          uuid.New(),
		Type:        eventType,
		StoryID:     story.ID,
		Title:       story.Title,
		PageCount:   len(story.Pages),
		Illustrated: story.Illustrated(),
		CreatedAt:   time.Now().UTC(),
	}
}

// NewStoryDeletedEvent creates an event recording the deletion of storyID.
func NewStoryDeletedEvent(storyID string) *StoryEvent {
	return &StoryEvent{
		ID:        uuid.New(),
		Type:      StoryDeleted,
		StoryID:   storyID,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *StoryEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *StoryEvent) error
}

// EventHandlerFunc adapts an ordinary function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *StoryEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *StoryEvent) error {
	return f(ctx, event)
}
