package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrNegativeAge is returned when a personalization carries an age below zero.
	ErrNegativeAge = errors.New("child age cannot be negative")

	// ErrEmptyStoryTitle is returned when a story has no title.
	ErrEmptyStoryTitle = errors.New("story title cannot be empty")

	// ErrEmptyPageText is returned when a story page has no text.
	ErrEmptyPageText = errors.New("story page text cannot be empty")
)
