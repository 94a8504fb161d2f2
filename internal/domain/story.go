package domain

import (
	"fmt"
	"time"
)

// StoryPage is one page of a story.
//
// ImageDescription is the illustration brief written by the text model and is
// kept for the lifetime of the story. ImageURL stays empty until the page has
// been illustrated.
type StoryPage struct {
	PageNumber       int    `json:"pageNumber"`
	Text             string `json:"text"`
	ImageDescription string `json:"imageDescription"`
	ImageURL         string `json:"imageUrl"`
}

// Story is a generated, optionally illustrated, children's story.
//
// ID is empty until the story is persisted. Pages keep the order in which the
// text model returned them.
type Story struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	CoverImageURL string      `json:"coverImageUrl"`
	Pages         []StoryPage `json:"pages"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// Validate checks that the story has the content required to be stored or shown.
func (s *Story) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyStoryTitle)
	}

	for i, page := range s.Pages {
		if page.Text == "" {
			return fmt.Errorf("%w: page %d (index %d): %w",
				ErrValidation, page.PageNumber, i, ErrEmptyPageText)
		}
	}

	return nil
}

// Clone returns a deep copy of the story.
func (s *Story) Clone() *Story {
	if s == nil {
		return nil
	}

	clone := *s
	if s.Pages != nil {
		clone.Pages = make([]StoryPage, len(s.Pages))
		copy(clone.Pages, s.Pages)
	}
	return &clone
}

// Illustrated reports whether the cover and every page carry an image URL.
func (s *Story) Illustrated() bool {
	if s.CoverImageURL == "" {
		return false
	}
	for _, page := range s.Pages {
		if page.ImageURL == "" {
			return false
		}
	}
	return true
}
