package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/tales-api/internal/generation"
	"github.com/phrazzld/tales-api/internal/platform/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *gemini.TextClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := gemini.NewTextClient(context.Background(), gemini.Config{
		APIKey:         "gemini-test-key",
		BaseURL:        server.URL,
		Temperature:    0.7,
		ConnectTimeout: time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   time.Second,
	}, testLogger())
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewTextClientValidation(t *testing.T) {
	t.Parallel()

	_, err := gemini.NewTextClient(context.Background(), gemini.Config{APIKey: "k"}, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = gemini.NewTextClient(context.Background(), gemini.Config{}, testLogger())
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestCompleteText(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		writeJSON(w, http.StatusOK, `{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "{\"title\": "}, {"text": "\"Moon\"}"}]},
				"finishReason": "STOP"
			}]
		}`)
	})

	text, err := client.CompleteText(context.Background(), "be kind", "write a story")

	require.NoError(t, err)
	assert.Equal(t, `{"title": "Moon"}`, text)
	assert.True(t, strings.HasSuffix(gotPath, "models/"+gemini.DefaultModel+":generateContent"), gotPath)
	assert.Contains(t, gotBody, "systemInstruction")
	assert.Contains(t, gotBody, "contents")
}

func TestCompleteTextFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "upstream error status",
			status:  http.StatusInternalServerError,
			body:    `{"error": {"code": 500, "message": "backend exploded", "status": "INTERNAL"}}`,
			wantErr: generation.ErrUpstreamStatus,
		},
		{
			name:    "no candidates",
			status:  http.StatusOK,
			body:    `{"candidates": []}`,
			wantErr: generation.ErrMalformedResponse,
		},
		{
			name:    "candidate without text",
			status:  http.StatusOK,
			body:    `{"candidates": [{"content": {"role": "model", "parts": []}}]}`,
			wantErr: generation.ErrMalformedResponse,
		},
		{
			name:    "blocked by safety filters",
			status:  http.StatusOK,
			body:    `{"candidates": [{"finishReason": "SAFETY"}]}`,
			wantErr: generation.ErrMalformedResponse,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			})

			text, err := client.CompleteText(context.Background(), "sys", "prompt")

			assert.Empty(t, text)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCompleteTextStatusCarriesCode(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"error": {"code": 403, "message": "permission denied", "status": "PERMISSION_DENIED"}}`)
	})

	_, err := client.CompleteText(context.Background(), "sys", "prompt")

	var statusErr *generation.StatusError
	require.True(t, errors.As(err, &statusErr), "expected StatusError, got %v", err)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestCompleteTextTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := gemini.NewTextClient(context.Background(), gemini.Config{
		APIKey:         "gemini-test-key",
		BaseURL:        url,
		ConnectTimeout: time.Second,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
	}, testLogger())
	require.NoError(t, err)

	_, err = client.CompleteText(context.Background(), "sys", "prompt")

	assert.ErrorIs(t, err, generation.ErrTransport)
}
