// Package domain contains the core entities of the story service: the
// personalization a story is written for, the request that drives generation,
// and the story itself with its pages.
package domain
