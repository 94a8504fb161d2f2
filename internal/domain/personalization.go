package domain

import "fmt"

// Personalization describes the child a story is written for.
// Empty strings are valid and are carried into the prompt as-is.
type Personalization struct {
	ChildName            string   `json:"childName"`
	ChildAge             int      `json:"childAge"`
	FavoriteAnimal       string   `json:"favoriteAnimal"`
	FavoriteColor        string   `json:"favoriteColor"`
	FavoriteActivity     string   `json:"favoriteActivity"`
	AdditionalCharacters []string `json:"additionalCharacters,omitempty"`
}

// Validate checks the personalization for values no prompt can use.
func (p Personalization) Validate() error {
	if p.ChildAge < 0 {
		return fmt.Errorf("%w: %w (got %d)", ErrValidation, ErrNegativeAge, p.ChildAge)
	}
	return nil
}

// StoryRequest is the complete input to story generation. Two equal requests
// always produce the same prompt.
type StoryRequest struct {
	Personalization Personalization `json:"personalization"`
	StoryType       string          `json:"storyType"`
}

// Validate checks the request before any upstream call is made.
func (r StoryRequest) Validate() error {
	return r.Personalization.Validate()
}
