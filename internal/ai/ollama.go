package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	ollamaBaseURL = "http://localhost:11434"
	ollamaTimeout = 120 * time.Second
)

// OllamaConfig holds connection details for a local Ollama instance.
type OllamaConfig struct {
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
}

// Ollama talks to a local Ollama server. No API key is involved; the
// provider counts as configured whenever a chat model is set.
type Ollama struct {
	baseURL        string
	chatModel      string
	embeddingModel string
	client         *http.Client
}

var _ Provider = (*Ollama)(nil)

func NewOllama(cfg OllamaConfig) *Ollama {
	if cfg.BaseURL == "" {
		cfg.BaseURL = ollamaBaseURL
	}
	return &Ollama{
		baseURL:        cfg.BaseURL,
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
		client:         &http.Client{Timeout: ollamaTimeout},
	}
}

func (c *Ollama) Name() string             { return "ollama" }
func (c *Ollama) IsConfigured() bool       { return c.chatModel != "" }
func (c *Ollama) SupportsEmbeddings() bool { return c.embeddingModel != "" }

func (c *Ollama) Models() ModelInfo {
	return ModelInfo{Chat: c.chatModel, Embedding: c.embeddingModel}
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []chatMessage   `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type ollamaChatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

func (c *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	if !c.SupportsEmbeddings() {
		return nil, ErrNotConfigured
	}

	req := ollamaEmbedRequest{
		Model:  c.embeddingModel,
		Prompt: text,
	}

	var resp ollamaEmbedResponse
	if err := c.post(ctx, "/api/embeddings", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return resp.Embedding, nil
}

func (c *Ollama) Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float64) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	req := ollamaChatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		Stream: false,
		Options: &ollamaOptions{
			NumPredict:  maxTokens,
			Temperature: temperature,
		},
	}

	var resp ollamaChatResponse
	if err := c.post(ctx, "/api/chat", req, &resp); err != nil {
		return "", err
	}
	if resp.Message.Content == "" {
		return "", fmt.Errorf("no completion returned")
	}
	return resp.Message.Content, nil
}

func (c *Ollama) post(ctx context.Context, path string, payload, out any) error {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
