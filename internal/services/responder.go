package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"portfolio-ai/internal/ai"
	"portfolio-ai/internal/middleware"
	"portfolio-ai/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

// noInfoAnswer is returned when there is nothing retrievable at all.
const noInfoAnswer = "I don't have enough information to answer that yet. " +
	"Try asking about skills, projects, or experience."

// answerTemperature keeps generative answers moderately varied without
// drifting off the retrieved context.
const answerTemperature = 0.7

// fallbackTopic maps a family of query words to a chunk type and the
// template wrapped around a matching chunk's text. Order is priority order.
type fallbackTopic struct {
	keywords  []string
	chunkType models.ChunkType
	template  string
}

// fallbackTopics is scanned first-match-wins. The identity topic returns the
// profile chunk verbatim, so "who are you" answers with the profile itself.
var fallbackTopics = []fallbackTopic{
	{[]string{"project", "built", "build", "app", "portfolio"}, models.ChunkProject, "Here's information about a project: %s"},
	{[]string{"skill", "technolog", "stack", "language", "tool"}, models.ChunkSkill, "Here's what I can tell you about skills: %s"},
	{[]string{"experience", "work", "job", "career", "company"}, models.ChunkExperience, "Here's some relevant experience: %s"},
	{[]string{"who", "about", "name", "yourself"}, models.ChunkProfile, "%s"},
	{[]string{"certification", "certified", "credential", "badge"}, models.ChunkCertification, "Here's a credential from the portfolio: %s"},
	{[]string{"interest", "hobby", "hobbies", "fun"}, models.ChunkInterests, "Here are some interests: %s"},
}

// Responder turns a query and its retrieved chunks into a final answer
// string. Every failure path resolves to a string; it never reports an
// error to its caller.
type Responder struct {
	provider  ai.Provider
	maxTokens int
}

func NewResponder(provider ai.Provider, maxTokens int) *Responder {
	if maxTokens <= 0 {
		maxTokens = 500
	}
	return &Responder{provider: provider, maxTokens: maxTokens}
}

// Answer delegates to the generative provider when one is configured and
// falls back to a deterministic template on any failure, so the chat stays
// functional with zero external dependencies reachable.
func (r *Responder) Answer(ctx context.Context, query string, matches []models.RetrievalMatch) string {
	ctx, span := middleware.StartSpan(ctx, "Responder.Answer",
		attribute.Int("context_chunks", len(matches)),
		attribute.String("provider", r.provider.Name()),
	)
	defer span.End()

	if r.provider.IsConfigured() {
		answer, err := r.provider.Complete(ctx, r.systemPrompt(matches), query, r.maxTokens, answerTemperature)
		if err == nil {
			middleware.AddSpanEvent(ctx, "generative_answer",
				attribute.Int("answer_length", len(answer)))
			return answer
		}
		middleware.AddSpanError(ctx, err)
		log.Printf("⚠️  Completion via %s failed, using templated answer: %v", r.provider.Name(), err)
	}

	return templatedAnswer(query, matches)
}

// systemPrompt embeds the retrieved chunks as context under a fixed persona
// directive.
func (r *Responder) systemPrompt(matches []models.RetrievalMatch) string {
	var sb strings.Builder
	sb.WriteString("You are a friendly assistant on a personal portfolio website. ")
	sb.WriteString("Answer questions about the portfolio owner using only the context below. ")
	sb.WriteString("Keep answers short, factual, and in the third person. ")
	sb.WriteString("If the context does not contain the answer, say so.\n\nContext:\n")
	for i, m := range matches {
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, m.Text)
	}
	return sb.String()
}

// templatedAnswer is the deterministic tier: pick the first topic whose
// keywords appear in the query and which has a chunk of the matching type,
// else wrap the single highest-ranked chunk.
func templatedAnswer(query string, matches []models.RetrievalMatch) string {
	if len(matches) == 0 {
		return noInfoAnswer
	}

	q := strings.ToLower(query)
	for _, topic := range fallbackTopics {
		if !containsAny(q, topic.keywords) {
			continue
		}
		for _, m := range matches {
			if m.Type == topic.chunkType {
				return fmt.Sprintf(topic.template, m.Text)
			}
		}
	}

	return fmt.Sprintf("Based on the portfolio: %s", matches[0].Text)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
