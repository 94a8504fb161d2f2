// Package service contains the application use cases. StoryService turns a
// story request into a saved story by coordinating the generation pipeline,
// the story store and the event emitter.
//
// Service methods return sentinel errors (ErrGenerationFailed, ErrSaveFailed,
// ErrStoryNotFound) that the API layer maps to HTTP status codes.
package service
