// Package gemini provides a client for the Gemini generative API with
// request rate limiting shared by all callers.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Config configures the Gemini client.
type Config struct {
	APIKey string
	Model  string
	// RequestsPerSecond caps the outbound request rate across all callers
	// sharing this client. Zero disables limiting.
	RequestsPerSecond float64
}

// Client wraps the genai SDK with a shared rate limiter. All generation
// in the application goes through a single Client so the provider quota
// is respected globally.
type Client struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
}

// New creates a Gemini client for the public Gemini API backend.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		client:  client,
		model:   cfg.Model,
		limiter: limiter,
	}, nil
}

// GenerateText runs a single-turn text prompt and returns the plain
// response text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, []*genai.Part{genai.NewPartFromText(prompt)}, nil)
}

// GenerateJSON runs a single-turn prompt with JSON output forced at the
// model level. Low temperature keeps the structured output deterministic.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	}
	return c.generate(ctx, []*genai.Part{genai.NewPartFromText(prompt)}, cfg)
}

// GenerateWithDocuments runs a prompt alongside inline PDF documents.
func (c *Client) GenerateWithDocuments(ctx context.Context, prompt string, documents [][]byte) (string, error) {
	parts := make([]*genai.Part, 0, len(documents)+1)
	for _, doc := range documents {
		parts = append(parts, genai.NewPartFromBytes(doc, "application/pdf"))
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	}
	return c.generate(ctx, parts, cfg)
}

func (c *Client) generate(ctx context.Context, parts []*genai.Part, cfg *genai.GenerateContentConfig) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}
