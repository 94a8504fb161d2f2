// Package store defines the persistence boundary for generated stories.
// StoryStore is implemented in memory (platform/memory), on PostgreSQL
// (platform/postgres) and on MongoDB (platform/mongo).
package store
