// Package generation defines the boundary between the story pipeline and the
// external AI services it depends on. TextCompleter and ImageCompleter are
// implemented by the OpenAI-compatible client in platform/openai and, for
// text, by the Gemini client in platform/gemini.
//
// The package also owns the error taxonomy shared by those clients and the
// Result type returned by story generation.
package generation
