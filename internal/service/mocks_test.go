package service

import (
	"context"

	"github.com/phrazzld/tales-api/internal/domain"
	"github.com/phrazzld/tales-api/internal/events"
	"github.com/phrazzld/tales-api/internal/generation"
	"github.com/stretchr/testify/mock"
)

// MockStoryGenerator mocks the generation.StoryGenerator interface
type MockStoryGenerator struct {
	mock.Mock
}

func (m *MockStoryGenerator) GenerateStory(ctx context.Context, req domain.StoryRequest) generation.Result {
	args := m.Called(ctx, req)
	return args.Get(0).(generation.Result)
}

// MockStoryStore mocks the store.StoryStore interface
type MockStoryStore struct {
	mock.Mock
}

func (m *MockStoryStore) Save(ctx context.Context, story *domain.Story) error {
	args := m.Called(ctx, story)
	return args.Error(0)
}

func (m *MockStoryStore) GetByID(ctx context.Context, id string) (*domain.Story, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Story), args.Error(1)
}

func (m *MockStoryStore) List(ctx context.Context) ([]*domain.Story, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Story), args.Error(1)
}

func (m *MockStoryStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventEmitter mocks the events.EventEmitter interface
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.StoryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
