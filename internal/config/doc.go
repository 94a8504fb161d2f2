// Package config handles configuration loading, parsing, and validation
// from environment variables (prefixed with TALES_) and an optional
// config.yaml. It provides type-safe access to the settings needed by the
// completion clients, the illustrator, the story stores and the HTTP server.
package config
