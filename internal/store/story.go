package store

import (
	"context"

	"github.com/phrazzld/tales-api/internal/domain"
)

// StoryStore defines the interface for story persistence.
type StoryStore interface {
	// Save creates or replaces a story. A story with an empty ID is assigned a
	// new one, which is written back to story.ID.
	// Returns ErrInvalidEntity if the story fails domain validation.
	Save(ctx context.Context, story *domain.Story) error

	// GetByID retrieves a story by its ID.
	// Returns ErrStoryNotFound if the story does not exist.
	GetByID(ctx context.Context, id string) (*domain.Story, error)

	// List returns every story, newest first by CreatedAt.
	// Returns an empty slice when the store is empty.
	List(ctx context.Context) ([]*domain.Story, error)

	// Delete removes a story.
	// Returns ErrStoryNotFound if the story does not exist.
	Delete(ctx context.Context, id string) error
}
