// Package events lets the story service announce what happened to a story
// without knowing who listens.
//
// The primary components are:
// - StoryEvent: a summary of a story lifecycle change
// - EventHandler: interface for components that can handle events
// - EventEmitter: interface for components that can emit events
// - InMemoryEventEmitter: synchronous fan-out to registered handlers
package events
