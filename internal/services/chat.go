package services

import (
	"context"

	"portfolio-ai/internal/middleware"
	"portfolio-ai/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

// ChatService composes retrieval and answering into the one operation the
// transport layer calls. Message validation happens at the HTTP/WebSocket
// boundary; by the time Chat runs, every internal failure has a fallback,
// so it always produces an answer.
type ChatService struct {
	retriever *Retriever
	responder *Responder
}

func NewChatService(retriever *Retriever, responder *Responder) *ChatService {
	return &ChatService{retriever: retriever, responder: responder}
}

// Chat answers one free-form question about the portfolio owner.
func (s *ChatService) Chat(ctx context.Context, message string) models.ChatAnswer {
	ctx, span := middleware.StartSpan(ctx, "ChatService.Chat",
		attribute.Int("message_length", len(message)),
	)
	defer span.End()

	matches, mode := s.retriever.Retrieve(ctx, message)
	response := s.responder.Answer(ctx, message, matches)

	middleware.AddSpanEvent(ctx, "chat_answered",
		attribute.String("mode", string(mode)),
		attribute.Int("sources", len(matches)),
	)

	return models.ChatAnswer{
		Response: response,
		Mode:     mode,
		Sources:  matches,
	}
}
