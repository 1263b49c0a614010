package services

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"portfolio-ai/internal/ai"
	"portfolio-ai/internal/middleware"
	"portfolio-ai/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

// ErrNoChunks signals that a rebuild found nothing to index. The (empty)
// cache is still published; callers log this as a warning, not a failure.
var ErrNoChunks = errors.New("portfolio produced no chunks")

// Cache is one immutable generation of the retrieval state. Scored reports
// whether every record carries a vector; mixing scored and unscored records
// in one cache is never allowed, because ranking them together would
// silently bias results toward whichever chunks happened to embed.
type Cache struct {
	Records []models.EmbeddingRecord
	Scored  bool
	BuiltAt time.Time
}

// EmbeddingStore owns the process-wide retrieval cache. Rebuilds construct a
// complete new cache off to the side and publish it with a single atomic
// pointer swap, so concurrent readers see either the fully-old or the
// fully-new generation, never a mix.
type EmbeddingStore struct {
	provider ai.Provider
	source   PortfolioSource
	workers  int

	cache atomic.Pointer[Cache]
}

func NewEmbeddingStore(provider ai.Provider, source PortfolioSource, workers int) *EmbeddingStore {
	if workers <= 0 {
		workers = 5
	}
	s := &EmbeddingStore{
		provider: provider,
		source:   source,
		workers:  workers,
	}
	s.cache.Store(&Cache{BuiltAt: time.Now()})
	return s
}

// Current returns the live cache snapshot. Never nil.
func (s *EmbeddingStore) Current() *Cache {
	return s.cache.Load()
}

// Rebuild re-chunks the portfolio and attempts to embed every chunk. Vector
// population is all-or-nothing: if the provider is unconfigured, does not
// support embeddings, or any single call fails, every record in the new
// cache is published without a vector and retrieval runs in keyword mode.
// A cancelled rebuild publishes nothing and leaves the previous cache live.
func (s *EmbeddingStore) Rebuild(ctx context.Context) error {
	ctx, span := middleware.StartSpan(ctx, "EmbeddingStore.Rebuild")
	defer span.End()

	doc, err := s.source.Load()
	if err != nil {
		// Unreadable document degrades to an empty chunk set.
		log.Printf("⚠️  Could not load portfolio: %v", err)
		doc = nil
	}

	chunks := ChunkPortfolio(doc)
	span.SetAttributes(attribute.Int("chunks", len(chunks)))

	if len(chunks) == 0 {
		s.cache.Store(&Cache{BuiltAt: time.Now()})
		return ErrNoChunks
	}

	records := make([]models.EmbeddingRecord, len(chunks))
	for i, ch := range chunks {
		records[i] = models.EmbeddingRecord{Chunk: ch}
	}

	scored := false
	if s.provider.IsConfigured() && s.provider.SupportsEmbeddings() {
		vectors, err := s.embedAll(ctx, chunks)
		switch {
		case err == nil:
			for i := range records {
				records[i].Embedding = vectors[i]
			}
			scored = true
		case ctx.Err() != nil:
			// Cancellation discards partial work; the old cache stays.
			middleware.AddSpanError(ctx, ctx.Err())
			return ctx.Err()
		default:
			middleware.AddSpanError(ctx, err)
			log.Printf("⚠️  Embedding generation failed, cache degraded to keyword mode: %v", err)
		}
	} else {
		log.Printf("ℹ️  Provider %q has no embedding support, cache built in keyword mode", s.provider.Name())
	}

	s.cache.Store(&Cache{
		Records: records,
		Scored:  scored,
		BuiltAt: time.Now(),
	})

	middleware.AddSpanEvent(ctx, "cache_published",
		attribute.Int("records", len(records)),
		attribute.Bool("scored", scored),
	)
	log.Printf("✓ Embedding cache rebuilt: %d chunks, scored=%v", len(records), scored)
	return nil
}

// embedAll fetches a vector for every chunk, at most s.workers calls in
// flight at once. The first error aborts the whole batch.
func (s *EmbeddingStore) embedAll(ctx context.Context, chunks []models.Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	errs := make(chan error, len(chunks))
	sem := make(chan struct{}, s.workers)

	var wg sync.WaitGroup
	for i := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			vec, err := s.provider.Embed(ctx, chunks[idx].Text)
			if err != nil {
				errs <- err
				return
			}
			vectors[idx] = vec
		}(i)
	}
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return nil, err
	}
	return vectors, nil
}

// EmbedQuery obtains a vector for a live query. A nil return (never an
// error) means vector retrieval is unavailable for this call.
func (s *EmbeddingStore) EmbedQuery(ctx context.Context, text string) []float32 {
	if !s.provider.IsConfigured() || !s.provider.SupportsEmbeddings() {
		return nil
	}
	vec, err := s.provider.Embed(ctx, text)
	if err != nil {
		log.Printf("⚠️  Query embedding failed, falling back to keyword retrieval: %v", err)
		return nil
	}
	return vec
}

// CosineSimilarity is defined as exactly 0 (not an error) when either vector
// is absent, the lengths differ, or either norm is zero. Keeping the scoring
// function total keeps retrieval free of error states.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
