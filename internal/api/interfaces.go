package api

import (
	"context"

	"portfolio-ai/internal/models"
	"portfolio-ai/internal/services"
)

// This package is the consumer of the service layer, so the interfaces it
// needs live here; the services package satisfies them without knowing.

// ChatService answers one portfolio question per call.
type ChatService interface {
	Chat(ctx context.Context, message string) models.ChatAnswer
}

// EmbeddingStore is the slice of the store the handlers need: trigger a
// rebuild after an upload and read cache diagnostics for the admin panel.
type EmbeddingStore interface {
	Rebuild(ctx context.Context) error
	Current() *services.Cache
}

// DocumentStore serves the raw portfolio and accepts replacements.
type DocumentStore interface {
	Raw() ([]byte, error)
	Replace(data []byte) error
}

// Analytics counts named click events.
type Analytics interface {
	RecordClick(target string) services.ClickEvent
	Snapshot() map[string]int64
}
