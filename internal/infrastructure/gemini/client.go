// Package gemini implements the generation port on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"localebatch/internal/domain"
	"localebatch/internal/domain/entities"
	"localebatch/internal/ports/output"
)

var _ output.Generator = (*Client)(nil)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Client calls models.generateContent once per request, without retries.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	logger  *zap.Logger

	genai *genai.Client
}

type Option func(*Client)

// WithBaseURL points the client at another endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithTimeout bounds every call. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient never fails: the underlying client is built on the first call so
// that a missing or empty API key surfaces as a per-language error.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{apiKey: apiKey, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) client(ctx context.Context) (*genai.Client, error) {
	if c.genai != nil {
		return c.genai, nil
	}
	// genai would fall back to GOOGLE_API_KEY; only the configured key counts.
	if c.apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	cfg := &genai.ClientConfig{
		APIKey:     c.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: c.timeout},
	}
	if c.baseURL != "" {
		cfg.HTTPOptions.BaseURL = c.baseURL
	}
	gc, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.genai = gc
	return gc, nil
}

func (c *Client) Generate(ctx context.Context, req entities.TranslationRequest) (string, error) {
	gc, err := c.client(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: create client: %w", domain.ErrTransport, err)
	}

	model := req.Model
	if model == "" {
		model = DefaultModel
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(req.Temperature),
		ResponseMIMEType:  req.ResponseMIMEType,
	}

	c.logger.Debug("generate content",
		zap.String("model", model),
		zap.String("language", req.Language.Code),
		zap.Int("content_bytes", len(req.Content)),
	)
	resp, err := gc.Models.GenerateContent(ctx, model, genai.Text(req.Content), cfg)
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %w", domain.ErrTransport, err)
	}
	return firstText(resp)
}

// firstText returns the text of the first part of the first candidate.
func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates%s", domain.ErrEmptyResponse, blockReason(resp))
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 || cand.Content.Parts[0] == nil {
		return "", fmt.Errorf("%w: candidate has no parts", domain.ErrEmptyResponse)
	}
	text := cand.Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("%w: first part has no text", domain.ErrEmptyResponse)
	}
	return text, nil
}

func blockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || resp.PromptFeedback == nil || resp.PromptFeedback.BlockReason == "" {
		return ""
	}
	return fmt.Sprintf(" (blocked: %s)", resp.PromptFeedback.BlockReason)
}
