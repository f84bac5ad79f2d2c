package ai

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"learnhub-checkout/internal/domain/ports/adapter"
)

var _ adapter.ContentGenerator = (*OpenAIGenerator)(nil)

// OpenAIGenerator produces outlines and lesson bodies through the Chat
// Completions API.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (o *OpenAIGenerator) Provider() string { return "openai" }

func (o *OpenAIGenerator) GenerateJSON(ctx context.Context, system, prompt string, maxTokens int) (string, adapter.Usage, error) {
	return o.generate(ctx, system, prompt, maxTokens, true)
}

func (o *OpenAIGenerator) GenerateText(ctx context.Context, system, prompt string, maxTokens int) (string, adapter.Usage, error) {
	return o.generate(ctx, system, prompt, maxTokens, false)
}

func (o *OpenAIGenerator) generate(ctx context.Context, system, prompt string, maxTokens int, jsonMode bool) (string, adapter.Usage, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}
	if jsonMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", adapter.Usage{}, err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", adapter.Usage{}, errors.New("openai: no choice content")
	}
	usage := adapter.Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
	return resp.Choices[0].Message.Content, usage, nil
}
