package generation

import (
	"context"

	"github.com/phrazzld/tales-api/internal/domain"
)

// Page-count bounds requested from the text model.
const (
	MinPages = 5
	MaxPages = 8
)

// TextCompleter sends a system instruction and a user prompt to a chat model
// and returns the raw text of the first choice.
type TextCompleter interface {
	// CompleteText returns the model's reply.
	//
	// Errors wrap ErrTransport, ErrUpstreamStatus (as *StatusError) or
	// ErrMalformedResponse. An empty reply is never returned as success.
	CompleteText(ctx context.Context, systemInstruction, prompt string) (string, error)
}

// ImageCompleter turns an image description into a hosted image URL.
type ImageCompleter interface {
	// CompleteImage returns the URL of a single generated image.
	// Errors follow the same taxonomy as TextCompleter.
	CompleteImage(ctx context.Context, description string) (string, error)
}

// StoryGenerator is the end-to-end entry point: one request in, one Result out.
type StoryGenerator interface {
	GenerateStory(ctx context.Context, req domain.StoryRequest) Result
}

// Result is the outcome of a story generation. Exactly one of Story and
// Message is meaningful: Story when OK reports true, Message otherwise.
type Result struct {
	Story   *domain.Story
	Message string
}

// Succeeded wraps a generated story.
func Succeeded(story *domain.Story) Result {
	return Result{Story: story}
}

// Failed wraps a human-readable failure message.
func Failed(message string) Result {
	return Result{Message: message}
}

// OK reports whether the result carries a story.
func (r Result) OK() bool {
	return r.Story != nil
}
