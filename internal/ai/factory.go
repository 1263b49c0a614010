package ai

import (
	"log"

	"portfolio-ai/internal/config"
)

// NewProvider selects the provider once at startup from explicit
// configuration. Selection never fails: anything unusable (unknown name,
// missing API key, empty selection) yields the disabled provider, which
// keeps the chat pipeline available on its fallback paths.
func NewProvider(cfg *config.Config) Provider {
	switch cfg.AIProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Println("⚠️  AI_PROVIDER=openai but OPENAI_API_KEY is empty, running without AI")
			return NewDisabled()
		}
		return NewOpenAI(OpenAIConfig{
			APIKey:         cfg.OpenAIAPIKey,
			ChatModel:      cfg.OpenAIChatModel,
			EmbeddingModel: cfg.OpenAIEmbeddingModel,
		})

	case "ollama":
		return NewOllama(OllamaConfig{
			BaseURL:        cfg.OllamaBaseURL,
			ChatModel:      cfg.OllamaChatModel,
			EmbeddingModel: cfg.OllamaEmbeddingModel,
		})

	case "":
		return NewDisabled()

	default:
		log.Printf("⚠️  Unknown AI_PROVIDER %q, running without AI", cfg.AIProvider)
		return NewDisabled()
	}
}
