// Package llm provides completion clients for the language-model providers
// the pipeline depends on, plus the JSON-extraction helpers used to decode
// their loosely-formatted responses.
package llm

import "context"

// CompletionClient is the narrow contract every generative provider
// satisfies: one system instruction, one user message, one text completion.
// Use this interface for dependency injection to enable mocking in tests.
type CompletionClient interface {
	// Complete generates a single chat completion.
	Complete(ctx context.Context, systemMessage, prompt string, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Ensure implementations satisfy CompletionClient at compile time.
var (
	_ CompletionClient = (*Client)(nil)
	_ CompletionClient = (*AnthropicClient)(nil)
	_ CompletionClient = (*MockCompletionClient)(nil)
)
