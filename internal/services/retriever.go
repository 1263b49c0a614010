package services

import (
	"context"
	"sort"
	"strings"

	"portfolio-ai/internal/middleware"
	"portfolio-ai/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

// TopK is the maximum number of chunks a retrieval returns.
const TopK = 5

// topicKeywords boosts keyword scoring when a query token matches a topic
// word associated with a chunk's type. The lists are a manually maintained
// enumeration: a new chunk type needs its list added here to get boosted.
var topicKeywords = map[models.ChunkType][]string{
	models.ChunkProfile:       {"who", "about", "name", "profile", "contact", "email", "location", "summary"},
	models.ChunkSkill:         {"skill", "skills", "technology", "technologies", "stack", "language", "languages", "tool", "tools"},
	models.ChunkProject:       {"project", "projects", "built", "build", "app", "application", "pipeline", "portfolio", "demo"},
	models.ChunkExperience:    {"experience", "work", "worked", "job", "career", "company", "role", "achievement"},
	models.ChunkEducation:     {"education", "degree", "university", "college", "school", "studied"},
	models.ChunkCertification: {"certification", "certifications", "certified", "credential", "credentials", "badge"},
	models.ChunkInterests:     {"interest", "interests", "hobby", "hobbies", "enjoy", "fun"},
	models.ChunkSocial:        {"social", "github", "linkedin", "twitter", "link", "links", "follow"},
}

// Retriever ranks the cached chunks against a query. It never errors:
// retrieval degrades through three tiers (vector similarity, keyword
// heuristics, plain document order) and the mode tag reports which tier
// produced the result.
type Retriever struct {
	store *EmbeddingStore
}

func NewRetriever(store *EmbeddingStore) *Retriever {
	return &Retriever{store: store}
}

// Retrieve returns the top-K most relevant chunks for the query, highest
// relevance first, together with the retrieval mode used.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]models.RetrievalMatch, models.RetrievalMode) {
	ctx, span := middleware.StartSpan(ctx, "Retriever.Retrieve",
		attribute.String("query", query),
	)
	defer span.End()

	cache := r.store.Current()
	if len(cache.Records) == 0 {
		return nil, models.ModeOrder
	}

	if cache.Scored {
		if queryVec := r.store.EmbedQuery(ctx, query); queryVec != nil {
			matches := r.vectorSearch(cache, queryVec)
			span.SetAttributes(attribute.String("mode", string(models.ModeVector)))
			return matches, models.ModeVector
		}
		// Query embedding failed: keyword fallback for this call only,
		// the cache itself is untouched.
	}

	matches, mode := r.keywordSearch(cache, query)
	span.SetAttributes(attribute.String("mode", string(mode)))
	return matches, mode
}

func (r *Retriever) vectorSearch(cache *Cache, queryVec []float32) []models.RetrievalMatch {
	matches := make([]models.RetrievalMatch, 0, len(cache.Records))
	for _, rec := range cache.Records {
		matches = append(matches, models.RetrievalMatch{
			Text:  rec.Chunk.Text,
			Type:  rec.Chunk.Type,
			Score: CosineSimilarity(queryVec, rec.Embedding),
		})
	}
	// Stable sort keeps document order on ties, for determinism.
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return truncate(matches, TopK)
}

func (r *Retriever) keywordSearch(cache *Cache, query string) ([]models.RetrievalMatch, models.RetrievalMode) {
	tokens := tokenize(query)

	matches := make([]models.RetrievalMatch, 0, len(cache.Records))
	positive := 0
	for _, rec := range cache.Records {
		score := keywordScore(tokens, rec.Chunk)
		if score > 0 {
			positive++
		}
		matches = append(matches, models.RetrievalMatch{
			Text:  rec.Chunk.Text,
			Type:  rec.Chunk.Type,
			Score: float64(score),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	// With enough positive hits, return only those; otherwise hand back the
	// head of the full ordering so a cache is never retrieved as empty,
	// even for a query of nothing but stop-words.
	if positive >= TopK {
		return truncate(matches, TopK), models.ModeKeyword
	}
	mode := models.ModeKeyword
	if positive == 0 {
		mode = models.ModeOrder
	}
	return truncate(matches, TopK), mode
}

// keywordScore awards 1 point per query token appearing in the chunk text
// and 2 points per token matching the chunk type's topic list, where a
// match means either string contains the other.
func keywordScore(tokens []string, chunk models.Chunk) int {
	text := strings.ToLower(chunk.Text)
	topics := topicKeywords[chunk.Type]

	score := 0
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			score++
		}
		for _, kw := range topics {
			if strings.Contains(tok, kw) || strings.Contains(kw, tok) {
				score += 2
			}
		}
	}
	return score
}

// tokenize lower-cases the query, splits on non-alphanumeric runes, and
// drops tokens shorter than 3 characters.
func tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= 3 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func truncate(matches []models.RetrievalMatch, k int) []models.RetrievalMatch {
	if len(matches) > k {
		return matches[:k]
	}
	return matches
}
