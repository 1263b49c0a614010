package ai

import "context"

// Disabled is the provider used when no backend is configured. Every call
// fails with ErrNotConfigured, which the pipeline absorbs into its
// deterministic fallbacks.
type Disabled struct{}

var _ Provider = (*Disabled)(nil)

func NewDisabled() *Disabled { return &Disabled{} }

func (d *Disabled) Name() string             { return "disabled" }
func (d *Disabled) IsConfigured() bool       { return false }
func (d *Disabled) SupportsEmbeddings() bool { return false }
func (d *Disabled) Models() ModelInfo        { return ModelInfo{} }

func (d *Disabled) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, ErrNotConfigured
}

func (d *Disabled) Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float64) (string, error) {
	return "", ErrNotConfigured
}
