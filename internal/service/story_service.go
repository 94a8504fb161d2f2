package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tales-api/internal/domain"
	"github.com/phrazzld/tales-api/internal/events"
	"github.com/phrazzld/tales-api/internal/generation"
	"github.com/phrazzld/tales-api/internal/platform/logger"
	"github.com/phrazzld/tales-api/internal/redact"
	"github.com/phrazzld/tales-api/internal/store"
)

// StoryService provides story-related operations
type StoryService interface {
	// CreateStory generates a story for req, saves it and announces it.
	CreateStory(ctx context.Context, req domain.StoryRequest) (*domain.Story, error)

	// GetStory retrieves a story by its ID
	GetStory(ctx context.Context, id string) (*domain.Story, error)

	// ListStories returns all stories, newest first
	ListStories(ctx context.Context) ([]*domain.Story, error)

	// DeleteStory removes a story
	DeleteStory(ctx context.Context, id string) error
}

// storyServiceImpl implements the StoryService interface
type storyServiceImpl struct {
	generator    generation.StoryGenerator
	storyStore   store.StoryStore
	eventEmitter events.EventEmitter
	logger       *slog.Logger
}

// NewStoryService creates a new StoryService
// It returns an error if any of the required dependencies are nil.
func NewStoryService(
	generator generation.StoryGenerator,
	storyStore store.StoryStore,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (StoryService, error) {
	if generator == nil {
		return nil, &StoryServiceError{Operation: "create_service", Message: "generator cannot be nil"}
	}
	if storyStore == nil {
		return nil, &StoryServiceError{Operation: "create_service", Message: "storyStore cannot be nil"}
	}
	if eventEmitter == nil {
		return nil, &StoryServiceError{Operation: "create_service", Message: "eventEmitter cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &storyServiceImpl{
		generator:    generator,
		storyStore:   storyStore,
		eventEmitter: eventEmitter,
		logger:       logger.With(slog.String("component", "story_service")),
	}, nil
}

// CreateStory implements StoryService.CreateStory
// Event emission failures are logged and do not fail the call; the story
// has already been saved by then.
func (s *storyServiceImpl) CreateStory(ctx context.Context, req domain.StoryRequest) (*domain.Story, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := req.Validate(); err != nil {
		log.Warn("invalid story request", slog.String("error", err.Error()))
		return nil, NewStoryServiceError("create_story", "invalid story request", err)
	}

	result := s.generator.GenerateStory(ctx, req)
	if !result.OK() {
		log.Error("story generation failed", slog.String("message", result.Message))
		return nil, &StoryServiceError{
			Operation: "create_story",
			Message:   result.Message,
			Err:       ErrGenerationFailed,
		}
	}

	story := result.Story
	if err := s.storyStore.Save(ctx, story); err != nil {
		log.Error("failed to save generated story",
			slog.String("error", redact.Error(err)),
			slog.String("title", story.Title))
		return nil, &StoryServiceError{
			Operation: "create_story",
			Message:   ErrSaveFailed.Error(),
			Err:       fmt.Errorf("%w: %w", ErrSaveFailed, err),
		}
	}

	log.Info("story created",
		slog.String("story_id", story.ID),
		slog.Int("page_count", len(story.Pages)),
		slog.Bool("illustrated", story.Illustrated()))

	if err := s.eventEmitter.EmitEvent(ctx, events.NewStoryEvent(events.StoryGenerated, story)); err != nil {
		log.Warn("failed to emit story generated event",
			slog.String("error", err.Error()),
			slog.String("story_id", story.ID))
	}

	return story, nil
}

// GetStory implements StoryService.GetStory
func (s *storyServiceImpl) GetStory(ctx context.Context, id string) (*domain.Story, error) {
	story, err := s.storyStore.GetByID(ctx, id)
	if err != nil {
		return nil, NewStoryServiceError("get_story", "failed to retrieve story", err)
	}
	return story, nil
}

// ListStories implements StoryService.ListStories
func (s *storyServiceImpl) ListStories(ctx context.Context) ([]*domain.Story, error) {
	stories, err := s.storyStore.List(ctx)
	if err != nil {
		return nil, NewStoryServiceError("list_stories", "failed to list stories", err)
	}
	return stories, nil
}

// DeleteStory implements StoryService.DeleteStory
func (s *storyServiceImpl) DeleteStory(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.storyStore.Delete(ctx, id); err != nil {
		return NewStoryServiceError("delete_story", "failed to delete story", err)
	}

	if err := s.eventEmitter.EmitEvent(ctx, events.NewStoryDeletedEvent(id)); err != nil {
		log.Warn("failed to emit story deleted event",
			slog.String("error", err.Error()),
			slog.String("story_id", id))
	}
	return nil
}
