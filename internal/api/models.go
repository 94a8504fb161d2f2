package api

import (
	"time"

	"github.com/phrazzld/tales-api/internal/domain"
)

// PersonalizationRequest carries the details of the child a story is for.
type PersonalizationRequest struct {
	ChildName            string   `json:"childName"            validate:"required,max=100"`
	ChildAge             int      `json:"childAge"             validate:"gte=0"`
	FavoriteAnimal       string   `json:"favoriteAnimal"       validate:"max=100"`
	FavoriteColor        string   `json:"favoriteColor"        validate:"max=100"`
	FavoriteActivity     string   `json:"favoriteActivity"     validate:"max=200"`
	AdditionalCharacters []string `json:"additionalCharacters" validate:"max=10,dive,max=100"`
}

// CreateStoryRequest defines the payload for POST /api/stories.
type CreateStoryRequest struct {
	Personalization PersonalizationRequest `json:"personalization"`
	StoryType       string                 `json:"storyType"       validate:"max=100"`
}

// toDomain converts the request into the generation input.
func (r CreateStoryRequest) toDomain() domain.StoryRequest {
	p := r.Personalization
	return domain.StoryRequest{
		Personalization: domain.Personalization{
			ChildName:            p.ChildName,
			ChildAge:             p.ChildAge,
			FavoriteAnimal:       p.FavoriteAnimal,
			FavoriteColor:        p.FavoriteColor,
			FavoriteActivity:     p.FavoriteActivity,
			AdditionalCharacters: p.AdditionalCharacters,
		},
		StoryType: r.StoryType,
	}
}

// StoryPageResponse is one page of a story response.
type StoryPageResponse struct {
	PageNumber       int    `json:"pageNumber"`
	Text             string `json:"text"`
	ImageDescription string `json:"imageDescription"`
	ImageURL         string `json:"imageUrl,omitempty"`
}

// StoryResponse represents the response data for a story
type StoryResponse struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	CoverImageURL string              `json:"coverImageUrl,omitempty"`
	Pages         []StoryPageResponse `json:"pages"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// StoryListResponse wraps a list of stories.
type StoryListResponse struct {
	Stories []StoryResponse `json:"stories"`
}

// storyToResponse converts a domain.Story to a StoryResponse
func storyToResponse(story *domain.Story) StoryResponse {
	pages := make([]StoryPageResponse, len(story.Pages))
	for i, p := range story.Pages {
		pages[i] = StoryPageResponse{
			PageNumber:       p.PageNumber,
			Text:             p.Text,
			ImageDescription: p.ImageDescription,
			ImageURL:         p.ImageURL,
		}
	}
	return StoryResponse{
		ID:            story.ID,
		Title:         story.Title,
		Description:   story.Description,
		CoverImageURL: story.CoverImageURL,
		Pages:         pages,
		CreatedAt:     story.CreatedAt,
	}
}
