package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/tales-api/internal/domain"
	"github.com/phrazzld/tales-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, store.IsNotFoundError(store.ErrNotFound))
	assert.True(t, store.IsNotFoundError(store.ErrStoryNotFound))
	assert.True(t, store.IsNotFoundError(fmt.Errorf("get story abc: %w", store.ErrStoryNotFound)))
	assert.False(t, store.IsNotFoundError(store.ErrInvalidEntity))
	assert.False(t, store.IsNotFoundError(nil))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := store.NewStoreError("story", "save", "insert failed", cause)

	assert.Equal(t, "save operation on story failed: insert failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := store.NewStoreError("story", "list", "cursor closed", nil)
	assert.Equal(t, "list operation on story failed: cursor closed", bare.Error())
}

func TestValidateStory(t *testing.T) {
	t.Parallel()

	assert.NoError(t, store.ValidateStory(&domain.Story{Title: "T"}))

	err := store.ValidateStory(&domain.Story{})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.ErrorIs(t, err, domain.ErrEmptyStoryTitle)
}
