// Package gemini provides a generation.TextCompleter backed by Google's
// Gemini API through the google.golang.org/genai client.
//
// It is an alternative to the OpenAI chat endpoint for story text. Image
// generation still goes through the OpenAI-compatible client. Failures are
// translated into the generation error taxonomy so callers see the same
// transport, status and malformed-response distinctions for both backends.
package gemini
