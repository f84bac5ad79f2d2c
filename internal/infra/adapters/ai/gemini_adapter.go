package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"learnhub-checkout/internal/domain/ports/adapter"
)

var _ adapter.ContentGenerator = (*GeminiGenerator)(nil)

// GeminiGenerator produces outlines and lesson bodies through the official
// Gemini SDK.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, baseURL, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{client: c, model: model}, nil
}

func (g *GeminiGenerator) Provider() string { return "gemini" }

func (g *GeminiGenerator) GenerateJSON(ctx context.Context, system, prompt string, maxTokens int) (string, adapter.Usage, error) {
	return g.generate(ctx, system, prompt, maxTokens, "application/json")
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, system, prompt string, maxTokens int) (string, adapter.Usage, error) {
	return g.generate(ctx, system, prompt, maxTokens, "")
}

func (g *GeminiGenerator) generate(ctx context.Context, system, prompt string, maxTokens int, mimeType string) (string, adapter.Usage, error) {
	cfg := &genai.GenerateContentConfig{}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens)
	}
	if mimeType != "" {
		cfg.ResponseMIMEType = mimeType
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: prompt}},
	}}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", adapter.Usage{}, err
	}

	text := ""
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		text = resp.Candidates[0].Content.Parts[0].Text
	}
	if text == "" {
		return "", adapter.Usage{}, errors.New("gemini: empty candidate")
	}

	u := adapter.Usage{}
	if resp.UsageMetadata != nil {
		u.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		u.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		u.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return text, u, nil
}
