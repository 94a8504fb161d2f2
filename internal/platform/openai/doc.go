// Package openai implements generation.TextCompleter and
// generation.ImageCompleter against an OpenAI-compatible HTTP API
// (POST /chat/completions and POST /images/generations) using bearer
// authentication.
package openai
