package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tales-api/internal/generation"
	"github.com/phrazzld/tales-api/internal/metrics"
	"github.com/phrazzld/tales-api/internal/platform/logger"
	"github.com/phrazzld/tales-api/internal/redact"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// CompleteText implements generation.TextCompleter.
// It sends the system instruction followed by the prompt and returns the
// content of the first choice.
func (c *Client) CompleteText(ctx context.Context, systemInstruction, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	start := time.Now()

	req := chatRequest{
		Model: c.cfg.TextModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		Temperature: c.cfg.Temperature,
	}

	log.Debug("sending chat completion request",
		slog.String("model", req.Model),
		slog.Int("prompt_length", len(prompt)))

	var resp chatResponse
	if err := c.postJSON(ctx, "/chat/completions", req, &resp); err != nil {
		c.observe(metrics.KindText, err, start)
		log.Warn("chat completion failed",
			slog.String("error", redact.Error(err)),
			slog.String("kind", generation.FailureKind(err)))
		return "", fmt.Errorf("text completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("%w: no choices in response", generation.ErrMalformedResponse)
		c.observe(metrics.KindText, err, start)
		return "", fmt.Errorf("text completion: %w", err)
	}

	content := resp.Choices[0].Message.Content
	if content == nil || *content == "" {
		err := fmt.Errorf("%w: first choice has no content", generation.ErrMalformedResponse)
		c.observe(metrics.KindText, err, start)
		return "", fmt.Errorf("text completion: %w", err)
	}

	c.observe(metrics.KindText, nil, start)
	log.Debug("chat completion succeeded",
		slog.Int("content_length", len(*content)),
		slog.Duration("elapsed", time.Since(start)))

	return *content, nil
}

func (c *Client) observe(kind string, err error, start time.Time) {
	outcome := "success"
	if err != nil {
		outcome = generation.FailureKind(err)
	}
	metrics.ObserveCompletion(kind, outcome, time.Since(start))
}
