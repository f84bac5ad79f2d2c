package adapter

import "context"

// Usage for a single generation call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ContentGenerator is the port for LLM-backed curriculum generation.
type ContentGenerator interface {
	Provider() string

	// GenerateJSON asks the model for a strict-JSON response to the prompt.
	GenerateJSON(ctx context.Context, system, prompt string, maxTokens int) (string, Usage, error)

	// GenerateText returns prose (lesson bodies).
	GenerateText(ctx context.Context, system, prompt string, maxTokens int) (string, Usage, error)
}
