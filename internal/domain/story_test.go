package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStory() *Story {
	return &Story{
		Title:       "Mia and the Purple Fox",
		Description: "A painting adventure",
		Pages: []StoryPage{
			{PageNumber: 1, Text: "Mia woke up.", ImageDescription: "a girl waking up"},
			{PageNumber: 2, Text: "She met a fox.", ImageDescription: "a purple fox"},
		},
		CreatedAt: time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestStory_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Story)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(*Story) {},
		},
		{
			name:    "empty_title",
			mutate:  func(s *Story) { s.Title = "" },
			wantErr: ErrEmptyStoryTitle,
		},
		{
			name:    "empty_page_text",
			mutate:  func(s *Story) { s.Pages[1].Text = "" },
			wantErr: ErrEmptyPageText,
		},
		{
			name:   "no_pages",
			mutate: func(s *Story) { s.Pages = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := sampleStory()
			tt.mutate(s)

			err := s.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestStory_CloneIsDeep(t *testing.T) {
	t.Parallel()

	original := sampleStory()
	clone := original.Clone()

	clone.CoverImageURL = "https://img/cover.png"
	clone.Pages[0].ImageURL = "https://img/1.png"
	clone.Pages[0].Text = "changed"

	assert.Empty(t, original.CoverImageURL)
	assert.Empty(t, original.Pages[0].ImageURL)
	assert.Equal(t, "Mia woke up.", original.Pages[0].Text)
	assert.Nil(t, (*Story)(nil).Clone())
}

func TestStory_Illustrated(t *testing.T) {
	t.Parallel()

	s := sampleStory()
	assert.False(t, s.Illustrated())

	s.CoverImageURL = "https://img/cover.png"
	assert.False(t, s.Illustrated())

	s.Pages[0].ImageURL = "https://img/1.png"
	s.Pages[1].ImageURL = "https://img/2.png"
	assert.True(t, s.Illustrated())
}

func TestStoryRequest_Validate(t *testing.T) {
	t.Parallel()

	ok := StoryRequest{Personalization: Personalization{ChildName: "Mia", ChildAge: 6}}
	assert.NoError(t, ok.Validate())

	zero := StoryRequest{}
	assert.NoError(t, zero.Validate(), "empty fields are allowed")

	bad := StoryRequest{Personalization: Personalization{ChildAge: -1}}
	err := bad.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeAge)
	assert.ErrorIs(t, err, ErrValidation)
}
