package advisor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/tgienger/pomolist/internal/logging"
	"google.golang.org/genai"
)

// DefaultModel is used when the configuration does not name one
const DefaultModel = "gemini-2.5-flash"

// orderSchema constrains the reply to a JSON array of strings
var orderSchema = &genai.Schema{
	Type:  genai.TypeArray,
	Items: &genai.Schema{Type: genai.TypeString},
}

// Gemini ranks tasks with the Gemini generateContent API
type Gemini struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// GeminiOption configures the Gemini client
type GeminiOption func(*genai.ClientConfig)

// WithEndpoint points the client at a different API base URL
func WithEndpoint(url string) GeminiOption {
	return func(cc *genai.ClientConfig) { cc.HTTPOptions.BaseURL = url }
}

// WithHTTPClient sets the HTTP client used for API calls
func WithHTTPClient(c *http.Client) GeminiOption {
	return func(cc *genai.ClientConfig) { cc.HTTPClient = c }
}

// NewGemini creates a Gemini advisor using API key authentication
func NewGemini(ctx context.Context, apiKey, model string, opts ...GeminiOption) (*Gemini, error) {
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cc)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("unable to create Gemini client: %w", err)
	}

	return &Gemini{client: client, model: model, log: logging.Component("advisor")}, nil
}

// Sort asks the model for a ranking. Any failure is reported as ErrSortFailed.
func (g *Gemini) Sort(ctx context.Context, items []Item) ([]string, error) {
	if len(items) < 2 {
		return passthrough(items), nil
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(items)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   orderSchema,
	})
	if err != nil {
		g.log.Error().Err(err).Int("items", len(items)).Msg("generateContent failed")
		return nil, fmt.Errorf("%w: %w", ErrSortFailed, err)
	}

	order, err := DecodeOrder(resp.Text())
	if err != nil {
		g.log.Error().Err(err).Msg("unexpected model reply")
		return nil, fmt.Errorf("%w: %w", ErrSortFailed, err)
	}

	g.log.Debug().Int("items", len(items)).Int("ranked", len(order)).Msg("tasks ranked")
	return order, nil
}
