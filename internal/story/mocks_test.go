package story

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockTextCompleter is a function-backed generation.TextCompleter.
type MockTextCompleter struct {
	CompleteTextFn func(ctx context.Context, systemInstruction, prompt string) (string, error)
}

// CompleteText implements generation.TextCompleter
func (m *MockTextCompleter) CompleteText(ctx context.Context, systemInstruction, prompt string) (string, error) {
	if m.CompleteTextFn != nil {
		return m.CompleteTextFn(ctx, systemInstruction, prompt)
	}
	return "", nil
}

// MockImageCompleter is a function-backed generation.ImageCompleter that
// records every description it receives.
type MockImageCompleter struct {
	CompleteImageFn func(ctx context.Context, description string) (string, error)

	mu    sync.Mutex
	calls []string
}

// CompleteImage implements generation.ImageCompleter
func (m *MockImageCompleter) CompleteImage(ctx context.Context, description string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, description)
	m.mu.Unlock()

	if m.CompleteImageFn != nil {
		return m.CompleteImageFn(ctx, description)
	}
	return "", nil
}

// Calls returns the descriptions received so far, in call order.
func (m *MockImageCompleter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
