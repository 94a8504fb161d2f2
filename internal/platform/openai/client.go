package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/phrazzld/tales-api/internal/config"
	"github.com/phrazzld/tales-api/internal/generation"
	"github.com/phrazzld/tales-api/internal/redact"
)

// maxResponseBytes caps how much of an upstream body is read into memory.
const maxResponseBytes = 4 << 20

// Config holds the settings for an OpenAI-compatible endpoint.
type Config struct {
	APIKey         string
	BaseURL        string
	TextModel      string
	ImageModel     string
	ImageSize      string
	Temperature    float64
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// ConfigFromLLM maps the application LLM settings onto a client Config.
func ConfigFromLLM(cfg config.LLMConfig) Config {
	return Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		TextModel:      cfg.TextModel,
		ImageModel:     cfg.ImageModel,
		ImageSize:      cfg.ImageSize,
		Temperature:    cfg.Temperature,
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
	}
}

// Client talks to the chat completion and image generation endpoints.
// It is safe for concurrent use; the underlying HTTP client and credential
// are shared by every request.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure Client implements both completion interfaces
var (
	_ generation.TextCompleter  = (*Client)(nil)
	_ generation.ImageCompleter = (*Client)(nil)
)

// NewClient validates cfg and builds a client with a pooled transport.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.TextModel == "" || cfg.ImageModel == "" {
		return nil, fmt.Errorf("%w: text and image models must be set", generation.ErrInvalidConfig)
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = "1024x1024"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg),
		logger:     logger.With(slog.String("component", "openai_client")),
	}

	c.logger.Info("completion client initialized",
		slog.String("base_url", cfg.BaseURL),
		slog.String("text_model", cfg.TextModel),
		slog.String("image_model", cfg.ImageModel),
		slog.String("api_key", redact.Key(cfg.APIKey)))

	return c, nil
}

// newHTTPClient applies the connect timeout to dialing, the read timeout to
// waiting for response headers, and bounds the whole exchange by their sum
// with the write timeout.
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

// postJSON sends body to path and decodes a 2xx response into out.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encode request: %w", generation.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", generation.ErrTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", generation.ErrTransport, err)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", generation.ErrTransport, err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return generation.NewStatusError(res.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %w", generation.ErrMalformedResponse, err)
	}

	return nil
}
