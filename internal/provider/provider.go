// Package provider abstracts the external text-generation service.
// The orchestration core only depends on the CompletionProvider
// interface; the Anthropic adapter in this package is the default
// implementation.
package provider

import "context"

// CompletionProvider generates text for a prompt within a token budget.
// Implementations are opaque and non-deterministic; failures are
// surfaced as errors and are not distinguished from empty output by
// the orchestration core.
type CompletionProvider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// Func adapts a plain function to the CompletionProvider interface.
type Func func(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)

// Complete implements CompletionProvider.
func (f Func) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	return f(ctx, systemPrompt, userPrompt, maxTokens, temperature)
}
