// Package storetest holds the behavioral tests every store.StoryStore
// implementation must pass.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/phrazzld/tales-api/internal/domain"
	"github.com/phrazzld/tales-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewStory returns a valid story created at the given time.
func NewStory(title string, createdAt time.Time) *domain.Story {
	return &domain.Story{
		Title:         title,
		Description:   "A story about " + title,
		CoverImageURL: "https://img.example/cover.png",
		Pages: []domain.StoryPage{
			{PageNumber: 1, Text: "First page.", ImageDescription: "scene 1", ImageURL: "https://img.example/1.png"},
			{PageNumber: 2, Text: "Second page.", ImageDescription: "scene 2"},
		},
		CreatedAt: createdAt.UTC().Truncate(time.Millisecond),
	}
}

// RunStoryStoreTests exercises newStore against the StoryStore contract.
// newStore must return an empty store.
func RunStoryStoreTests(t *testing.T, newStore func(t *testing.T) store.StoryStore) {
	t.Helper()
	base := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)

	t.Run("save_assigns_id_and_round_trips", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		story := NewStory("Round Trip", base)

		require.NoError(t, s.Save(ctx, story))
		require.NotEmpty(t, story.ID)

		got, err := s.GetByID(ctx, story.ID)
		require.NoError(t, err)
		assert.Equal(t, story.ID, got.ID)
		assert.Equal(t, story.Title, got.Title)
		assert.Equal(t, story.Description, got.Description)
		assert.Equal(t, story.CoverImageURL, got.CoverImageURL)
		assert.Equal(t, story.Pages, got.Pages)
		assert.True(t, story.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("save_with_id_replaces", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		story := NewStory("Original", base)
		require.NoError(t, s.Save(ctx, story))
		id := story.ID

		story.Title = "Updated"
		story.Pages = story.Pages[:1]
		require.NoError(t, s.Save(ctx, story))
		assert.Equal(t, id, story.ID)

		got, err := s.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Updated", got.Title)
		assert.Len(t, got.Pages, 1)

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("save_rejects_invalid", func(t *testing.T) {
		s := newStore(t)
		story := NewStory("", base)

		err := s.Save(context.Background(), story)

		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.Empty(t, story.ID)
	})

	t.Run("get_missing", func(t *testing.T) {
		s := newStore(t)

		got, err := s.GetByID(context.Background(), "does-not-exist")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, store.ErrStoryNotFound)
	})

	t.Run("list_newest_first", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		empty, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, empty)

		for i, offset := range []int{2, 0, 3, 1} {
			story := NewStory(fmt.Sprintf("story-%d", i), base.Add(time.Duration(offset)*time.Hour))
			require.NoError(t, s.Save(ctx, story))
		}

		all, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		for i := 1; i < len(all); i++ {
			assert.True(t, all[i-1].CreatedAt.After(all[i].CreatedAt),
				"%s should be newer than %s", all[i-1].Title, all[i].Title)
		}
		assert.Equal(t, "story-2", all[0].Title)
		assert.Equal(t, "story-1", all[3].Title)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		story := NewStory("Doomed", base)
		require.NoError(t, s.Save(ctx, story))

		require.NoError(t, s.Delete(ctx, story.ID))

		_, err := s.GetByID(ctx, story.ID)
		assert.ErrorIs(t, err, store.ErrStoryNotFound)
		assert.ErrorIs(t, s.Delete(ctx, story.ID), store.ErrStoryNotFound)
	})

	t.Run("returned_stories_are_copies", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		story := NewStory("Isolated", base)
		require.NoError(t, s.Save(ctx, story))

		story.Pages[0].Text = "mutated after save"
		got, err := s.GetByID(ctx, story.ID)
		require.NoError(t, err)
		assert.Equal(t, "First page.", got.Pages[0].Text)

		got.Title = "mutated after get"
		again, err := s.GetByID(ctx, story.ID)
		require.NoError(t, err)
		assert.Equal(t, "Isolated", again.Title)
	})
}
