// Package memory provides an in-process store.StoryStore for development
// and tests. Stories are lost when the process exits.
package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tales-api/internal/domain"
	"github.com/phrazzld/tales-api/internal/platform/logger"
	"github.com/phrazzld/tales-api/internal/store"
)

// StoryStore keeps stories in a map guarded by a RWMutex. Stories are
// copied on the way in and out so callers never share state with the store.
type StoryStore struct {
	mu      sync.RWMutex
	stories map[string]*domain.Story
	logger  *slog.Logger
}

// Ensure StoryStore implements store.StoryStore interface
var _ store.StoryStore = (*StoryStore)(nil)

// NewStoryStore creates an empty store. A nil logger falls back to slog.Default().
func NewStoryStore(logger *slog.Logger) *StoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoryStore{
		stories: make(map[string]*domain.Story),
		logger:  logger.With(slog.String("component", "memory_story_store")),
	}
}

// Save implements store.StoryStore.Save
func (s *StoryStore) Save(ctx context.Context, story *domain.Story) error {
	if err := store.ValidateStory(story); err != nil {
		return err
	}
	if story.ID == "" {
		story.ID = uuid.NewString()
	}

	s.mu.Lock()
	s.stories[story.ID] = story.Clone()
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Debug("story saved",
		slog.String("story_id", story.ID))
	return nil
}

// GetByID implements store.StoryStore.GetByID
func (s *StoryStore) GetByID(_ context.Context, id string) (*domain.Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	story, ok := s.stories[id]
	if !ok {
		return nil, store.ErrStoryNotFound
	}
	return story.Clone(), nil
}

// List implements store.StoryStore.List
func (s *StoryStore) List(_ context.Context) ([]*domain.Story, error) {
	s.mu.RLock()
	out := make([]*domain.Story, 0, len(s.stories))
	for _, story := range s.stories {
		out = append(out, story.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete implements store.StoryStore.Delete
func (s *StoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stories[id]; !ok {
		return store.ErrStoryNotFound
	}
	delete(s.stories, id)

	logger.FromContextOrDefault(ctx, s.logger).Debug("story deleted", slog.String("story_id", id))
	return nil
}
