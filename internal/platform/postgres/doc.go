// Package postgres implements store.StoryStore on PostgreSQL.
//
// Stories live in the stories table and their pages in story_pages, keyed
// by the page's position in the story. The schema is managed with goose
// migrations embedded in the binary; call Migrate before using the store.
package postgres
