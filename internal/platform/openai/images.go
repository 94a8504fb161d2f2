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

// ImagePrompt wraps a scene description in the house illustration style.
func ImagePrompt(description string) string {
	return fmt.Sprintf(
		"Illustration for a children's story: %s. Colorful style, child-friendly, safe and educational.",
		description,
	)
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// CompleteImage implements generation.ImageCompleter.
// It requests a single image and returns its URL.
func (c *Client) CompleteImage(ctx context.Context, description string) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	start := time.Now()

	req := imageRequest{
		Model:  c.cfg.ImageModel,
		Prompt: ImagePrompt(description),
		N:      1,
		Size:   c.cfg.ImageSize,
	}

	var resp imageResponse
	if err := c.postJSON(ctx, "/images/generations", req, &resp); err != nil {
		c.observe(metrics.KindImage, err, start)
		log.Warn("image generation failed",
			slog.String("error", redact.Error(err)),
			slog.String("kind", generation.FailureKind(err)))
		return "", fmt.Errorf("image completion: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		err := fmt.Errorf("%w: no image URL in response", generation.ErrMalformedResponse)
		c.observe(metrics.KindImage, err, start)
		return "", fmt.Errorf("image completion: %w", err)
	}

	c.observe(metrics.KindImage, nil, start)
	log.Debug("image generated", slog.Duration("elapsed", time.Since(start)))

	return resp.Data[0].URL, nil
}
