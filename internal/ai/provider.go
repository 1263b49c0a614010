// Package ai provides the pluggable generative/embedding capability used by
// the chat pipeline. One concrete provider is selected at startup from
// configuration; core services receive it as a constructor parameter.
package ai

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by every operation of a provider that has no
// usable configuration. Callers treat it as a degradation signal, never as a
// user-visible failure.
var ErrNotConfigured = errors.New("ai provider not configured")

// ModelInfo identifies the models a provider is set up to use, for the
// admin status endpoint.
type ModelInfo struct {
	Chat      string `json:"chat_model,omitempty"`
	Embedding string `json:"embedding_model,omitempty"`
}

// Provider is the minimal capability surface the pipeline needs: one
// embedding operation and one completion operation, plus introspection.
type Provider interface {
	// Name identifies the provider for logs and the admin status endpoint.
	Name() string

	// IsConfigured reports whether calls have a chance of succeeding.
	IsConfigured() bool

	// SupportsEmbeddings reports whether Embed is implemented at all.
	SupportsEmbeddings() bool

	// Embed returns a vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Complete issues one chat completion with a system prompt and a single
	// user turn, bounded output length, and the given sampling temperature.
	Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float64) (string, error)

	// Models reports the configured model identifiers.
	Models() ModelInfo
}
