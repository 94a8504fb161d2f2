package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/tales-api/internal/config"
	"github.com/phrazzld/tales-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storyJSON = `{"title": "Leo's Rocket", "description": "Leo flies to the moon.", "pages": [
	{"pageNumber": 1, "text": "Leo built a rocket.", "imageDescription": "a boy with a cardboard rocket"}
]}`

func fakeUpstream(t *testing.T, chatStatus int, gotPrompt *string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/chat/completions":
			var req struct {
				Messages []struct {
					Content string `json:"content"`
				} `json:"messages"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			if gotPrompt != nil && len(req.Messages) == 2 {
				*gotPrompt = req.Messages[1].Content
			}
			if chatStatus != http.StatusOK {
				w.WriteHeader(chatStatus)
				_, _ = io.WriteString(w, `{"error":{"message":"rate limited"}}`)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{{"message": map[string]string{"content": storyJSON}}},
			})
		case "/v1/images/generations":
			_, _ = io.WriteString(w, `{"data":[{"url":"https://img.example/x.png"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func loaderFor(url string) configLoader {
	return func() (*config.Config, error) {
		return &config.Config{
			Server: config.ServerConfig{LogLevel: "error"},
			LLM: config.LLMConfig{
				Provider:       "openai",
				APIKey:         "sk-test-key-123456",
				BaseURL:        url + "/v1",
				TextModel:      "gpt-4",
				ImageModel:     "dall-e-3",
				ImageSize:      "1024x1024",
				ConnectTimeout: 5 * time.Second,
				ReadTimeout:    5 * time.Second,
				WriteTimeout:   5 * time.Second,
			},
			Illustration: config.IllustrationConfig{Concurrency: 1},
			Store:        config.StoreConfig{Driver: "memory"},
		}, nil
	}
}

func TestStorygenPrintsStory(t *testing.T) {
	t.Parallel()

	var prompt string
	server := fakeUpstream(t, http.StatusOK, &prompt)

	cmd := newRootCmd(loaderFor(server.URL))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{
		"--name", "Leo", "--age", "7", "--animal", "owl",
		"--character", "Grandpa", "--character", "Rex the dog",
		"--type", "space", "--save",
	})

	require.NoError(t, cmd.Execute())

	var story domain.Story
	require.NoError(t, json.Unmarshal(out.Bytes(), &story))
	assert.Equal(t, "Leo's Rocket", story.Title)
	assert.NotEmpty(t, story.ID, "--save assigns an id")
	assert.Equal(t, "https://img.example/x.png", story.CoverImageURL)

	assert.Contains(t, prompt, "7-year-old")
	assert.Contains(t, prompt, "Grandpa, Rex the dog")
	assert.Contains(t, prompt, "space")
}

func TestStorygenFailure(t *testing.T) {
	t.Parallel()

	server := fakeUpstream(t, http.StatusTooManyRequests, nil)

	cmd := newRootCmd(loaderFor(server.URL))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--name", "Leo"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Empty(t, out.String())
}

func TestStorygenRequiresName(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd(func() (*config.Config, error) {
		return nil, fmt.Errorf("config should not be loaded")
	})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--age", "4"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}
