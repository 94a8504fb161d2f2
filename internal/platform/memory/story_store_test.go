package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/tales-api/internal/platform/memory"
	"github.com/phrazzld/tales-api/internal/store"
	"github.com/phrazzld/tales-api/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryStore(t *testing.T) {
	t.Parallel()

	storetest.RunStoryStoreTests(t, func(t *testing.T) store.StoryStore {
		return memory.NewStoryStore(nil)
	})
}

func TestStoryStore_ConcurrentSaves(t *testing.T) {
	t.Parallel()

	s := memory.NewStoryStore(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Save(ctx, storetest.NewStory("concurrent", time.Now())))
		}()
	}
	wg.Wait()

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}
