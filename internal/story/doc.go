// Package story implements personalized story generation.
//
// BuildPrompt renders the request into an instruction for the text model,
// Parser recovers the story from the model's reply, Illustrator resolves the
// cover and page images, and Pipeline composes the three into a single
// GenerateStory call that returns a generation.Result.
package story
