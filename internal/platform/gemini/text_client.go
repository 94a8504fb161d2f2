package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/phrazzld/tales-api/internal/config"
	"github.com/phrazzld/tales-api/internal/generation"
	"github.com/phrazzld/tales-api/internal/metrics"
	"github.com/phrazzld/tales-api/internal/platform/logger"
	"github.com/phrazzld/tales-api/internal/redact"
	"google.golang.org/genai"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.0-flash"

// Config holds the settings for the Gemini text backend.
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	// BaseURL overrides the Gemini endpoint. Empty means the SDK default.
	BaseURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// ConfigFromLLM maps the application LLM settings onto a client Config.
func ConfigFromLLM(cfg config.LLMConfig) Config {
	return Config{
		APIKey:         cfg.GeminiAPIKey,
		Model:          cfg.GeminiModel,
		Temperature:    cfg.Temperature,
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
	}
}

// TextClient implements generation.TextCompleter with Gemini.
type TextClient struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

// Ensure TextClient implements generation.TextCompleter
var _ generation.TextCompleter = (*TextClient)(nil)

// NewTextClient validates cfg and creates the underlying genai client.
func NewTextClient(ctx context.Context, cfg Config, logger *slog.Logger) (*TextClient, error) {
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: newHTTPClient(cfg),
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(cfg.BaseURL, "/") + "/"}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	c := &TextClient{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		logger:      logger.With(slog.String("component", "gemini_client")),
	}

	c.logger.Info("gemini text client initialized",
		slog.String("model", cfg.Model),
		slog.String("api_key", redact.Key(cfg.APIKey)))

	return c, nil
}

func newHTTPClient(cfg Config) *http.Client {
	transport := cleanhttp.DefaultPooledTransport()
	if cfg.ConnectTimeout > 0 {
		transport.DialContext = (&net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext
		transport.TLSHandshakeTimeout = cfg.ConnectTimeout
	}
	if cfg.ReadTimeout > 0 {
		transport.ResponseHeaderTimeout = cfg.ReadTimeout
	}
	return &http.Client{
		Transport: transport,
		Timeout:   cfg.ConnectTimeout + cfg.WriteTimeout + cfg.ReadTimeout,
	}
}

// CompleteText implements generation.TextCompleter.
// The system instruction is sent as Gemini's system instruction and the
// text parts of the first candidate are concatenated.
func (c *TextClient) CompleteText(ctx context.Context, systemInstruction, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	start := time.Now()

	temperature := c.temperature
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature: &temperature,
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	log.Debug("sending gemini generate content request",
		slog.String("model", c.model),
		slog.Int("prompt_length", len(prompt)))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, genConfig)
	if err != nil {
		err = mapError(err)
		c.observe(err, start)
		log.Warn("gemini completion failed",
			slog.String("error", redact.Error(err)),
			slog.String("kind", generation.FailureKind(err)))
		return "", fmt.Errorf("text completion: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		c.observe(err, start)
		return "", fmt.Errorf("text completion: %w", err)
	}

	c.observe(nil, start)
	log.Debug("gemini completion succeeded",
		slog.Int("content_length", len(text)),
		slog.Duration("elapsed", time.Since(start)))

	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", generation.ErrMalformedResponse)
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrMalformedResponse)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: first candidate has no content", generation.ErrMalformedResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: first candidate has no text", generation.ErrMalformedResponse)
	}
	return sb.String(), nil
}

// mapError sorts SDK errors into the generation taxonomy. API errors carry
// the upstream status; everything else failed before a response arrived.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return generation.NewStatusError(apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return generation.NewStatusError(apiErrPtr.Code, apiErrPtr.Message)
	}
	return fmt.Errorf("%w: %w", generation.ErrTransport, err)
}

func (c *TextClient) observe(err error, start time.Time) {
	outcome := "success"
	if err != nil {
		outcome = generation.FailureKind(err)
	}
	metrics.ObserveCompletion(metrics.KindText, outcome, time.Since(start))
}
