// Package mongodb implements store.StoryStore on MongoDB. Each story is a
// single document with its pages embedded in order.
package mongodb
