package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

const (
	// ClaudeModel is the default Claude model.
	ClaudeModel = "claude-sonnet-4-20250514"
	// ClaudeMaxTokens bounds a single reply; the enhancer returns a whole resume.
	ClaudeMaxTokens = 8192
	// ProviderAnthropic names the Claude provider in config and errors.
	ProviderAnthropic = "anthropic"
)

// ClaudeGenerator implements Generator on the Anthropic Messages API.
type ClaudeGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// ClaudeOption customizes a ClaudeGenerator.
type ClaudeOption func(*claudeSettings)

type claudeSettings struct {
	baseURL    string
	httpClient *http.Client
	maxTokens  int64
}

// WithClaudeBaseURL points the client at a different endpoint.
func WithClaudeBaseURL(url string) (opt ClaudeOption) {
	opt = func(s *claudeSettings) {
		s.baseURL = url
	}
	return opt
}

// WithClaudeHTTPClient replaces the HTTP client.
func WithClaudeHTTPClient(client *http.Client) (opt ClaudeOption) {
	opt = func(s *claudeSettings) {
		s.httpClient = client
	}
	return opt
}

// WithClaudeMaxTokens sets the reply token limit.
func WithClaudeMaxTokens(n int64) (opt ClaudeOption) {
	opt = func(s *claudeSettings) {
		s.maxTokens = n
	}
	return opt
}

// NewClaudeGenerator creates a Claude-backed generator.
func NewClaudeGenerator(apiKey, model string, opts ...ClaudeOption) (gen *ClaudeGenerator, err error) {
	if apiKey == "" {
		err = errors.New("anthropic API key is required")
		return gen, err
	}

	if model == "" {
		model = ClaudeModel
	}

	settings := claudeSettings{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		maxTokens:  ClaudeMaxTokens,
	}
	for _, opt := range opts {
		opt(&settings)
	}

	// Retries belong to the caller, not the port.
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(settings.httpClient),
		option.WithMaxRetries(0),
	}
	if settings.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(settings.baseURL))
	}

	gen = &ClaudeGenerator{
		client:    anthropic.NewClient(reqOpts...),
		model:     model,
		maxTokens: settings.maxTokens,
	}

	return gen, err
}

// Generate sends one system + user exchange to Claude.
func (c *ClaudeGenerator) Generate(ctx context.Context, req Request) (resp Response, err error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	var msg *anthropic.Message
	msg, err = c.client.Messages.New(ctx, params)
	if err != nil {
		genErr := &GenerationError{Provider: ProviderAnthropic, Err: err}
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			genErr.StatusCode = apiErr.StatusCode
		}
		err = genErr
		return resp, err
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	// An empty reply is a completed call; the caller's parser decides what it means.
	resp = Response{
		Text: text.String(),
		Usage: Usage{
			Calls:        1,
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}

	return resp, err
}
