package ai

import (
	"context"
	"time"

	"learnhub-checkout/internal/domain/ports/adapter"
)

var _ adapter.ContentGenerator = (*NoopGenerator)(nil)

// NoopGenerator is a canned-output generator for local/dev runs without an
// API key. It returns a one-module outline regardless of the prompt.
type NoopGenerator struct{}

func NewNoopGenerator() *NoopGenerator { return &NoopGenerator{} }

func (a *NoopGenerator) Provider() string { return "noop" }

func (a *NoopGenerator) GenerateJSON(ctx context.Context, system, prompt string, maxTokens int) (string, adapter.Usage, error) {
	if err := a.wait(ctx); err != nil {
		return "", adapter.Usage{}, err
	}
	const out = `{"modules":[{"title":"Getting Started","lessons":[{"title":"Introduction","summary":"A placeholder lesson."}]}]}`
	return out, adapter.Usage{TotalTokens: 32}, nil
}

func (a *NoopGenerator) GenerateText(ctx context.Context, system, prompt string, maxTokens int) (string, adapter.Usage, error) {
	if err := a.wait(ctx); err != nil {
		return "", adapter.Usage{}, err
	}
	return "This is placeholder lesson content.", adapter.Usage{TotalTokens: 8}, nil
}

func (a *NoopGenerator) wait(ctx context.Context) error {
	select {
	case <-time.After(100 * time.Millisecond):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
