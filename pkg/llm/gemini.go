package llm

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

const (
	// GeminiModel is the default Gemini model.
	GeminiModel = "gemini-2.0-flash"
	// ProviderGemini names the Gemini provider in config and errors.
	ProviderGemini = "gemini"
)

// GeminiGenerator implements Generator on the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (gen *GeminiGenerator, err error) {
	if apiKey == "" {
		err = errors.New("gemini API key is required")
		return gen, err
	}

	if model == "" {
		model = GeminiModel
	}

	var client *genai.Client
	client, err = genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		err = errors.Wrap(err, "failed to create Gemini client")
		return gen, err
	}

	gen = &GeminiGenerator{
		client: client,
		model:  model,
	}

	return gen, err
}

// Generate sends one system + user exchange to Gemini.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (resp Response, err error) {
	temperature := float32(req.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}

	var result *genai.GenerateContentResponse
	result, err = g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.User), cfg)
	if err != nil {
		genErr := &GenerationError{Provider: ProviderGemini, Err: err}
		var apiErr genai.APIError
		var apiErrPtr *genai.APIError
		switch {
		case errors.As(err, &apiErr):
			genErr.StatusCode = apiErr.Code
		case errors.As(err, &apiErrPtr):
			genErr.StatusCode = apiErrPtr.Code
		}
		err = genErr
		return resp, err
	}

	// Safety-blocked or candidate-less replies come back as empty text.
	resp = Response{Text: result.Text(), Usage: Usage{Calls: 1}}
	if result.UsageMetadata != nil {
		resp.Usage.InputTokens = int(result.UsageMetadata.PromptTokenCount)
		resp.Usage.OutputTokens = int(result.UsageMetadata.CandidatesTokenCount)
	}

	return resp, err
}
