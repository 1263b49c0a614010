package services

import (
	"context"
	"errors"
	"testing"

	"portfolio-ai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keywordStore(t *testing.T, doc *models.Portfolio) *EmbeddingStore {
	t.Helper()
	store := NewEmbeddingStore(&fakeProvider{}, &fakeSource{doc: doc}, 2)
	err := store.Rebuild(context.Background())
	if !errors.Is(err, ErrNoChunks) {
		require.NoError(t, err)
	}
	return store
}

func TestRetrieveEmptyCache(t *testing.T) {
	r := NewRetriever(keywordStore(t, &models.Portfolio{}))

	matches, mode := r.Retrieve(context.Background(), "anything at all")
	assert.Empty(t, matches)
	assert.Equal(t, models.ModeOrder, mode)
}

func TestRetrieveLengthInvariant(t *testing.T) {
	t.Run("small cache returns cache size", func(t *testing.T) {
		r := NewRetriever(keywordStore(t, &models.Portfolio{
			Profile:  models.Profile{Name: "Jane", Title: "Engineer"},
			Projects: []models.Project{{Title: "One"}, {Title: "Two"}},
		}))
		matches, _ := r.Retrieve(context.Background(), "projects")
		assert.Len(t, matches, 3)
	})

	t.Run("large cache caps at five", func(t *testing.T) {
		r := NewRetriever(keywordStore(t, samplePortfolio()))
		matches, _ := r.Retrieve(context.Background(), "everything you have")
		assert.Len(t, matches, TopK)
	})
}

func TestRetrieveKeywordProjectBoost(t *testing.T) {
	r := NewRetriever(keywordStore(t, &models.Portfolio{
		Profile:  models.Profile{Name: "Jane"},
		Projects: []models.Project{{Title: "Foo", Description: "A data pipeline"}},
	}))

	matches, mode := r.Retrieve(context.Background(), "tell me about your projects")
	require.NotEmpty(t, matches)
	assert.Equal(t, models.ModeKeyword, mode)
	assert.Equal(t, models.ChunkProject, matches[0].Type)
	assert.Greater(t, matches[0].Score, 0.0)
}

func TestRetrieveNeverEmptyForNonEmptyCache(t *testing.T) {
	r := NewRetriever(keywordStore(t, samplePortfolio()))

	// Nothing but stop-words and short tokens: every keyword score is zero,
	// yet retrieval still returns the head of the cache in document order.
	matches, mode := r.Retrieve(context.Background(), "an of to it")
	require.Len(t, matches, TopK)
	assert.Equal(t, models.ModeOrder, mode)

	cache := keywordStore(t, samplePortfolio()).Current()
	for i, m := range matches {
		assert.Equal(t, cache.Records[i].Chunk.Text, m.Text, "order fallback must preserve document order")
		assert.Zero(t, m.Score)
	}
}

func TestRetrieveVectorMode(t *testing.T) {
	queryVec := []float32{1, 0}
	provider := &fakeProvider{
		configured: true,
		embeddings: true,
		embedFn: func(_ context.Context, text string) ([]float32, error) {
			switch {
			case text == "find the pipeline":
				return queryVec, nil
			case text == "Project: Foo. A data pipeline.":
				return []float32{0.9, 0.1}, nil
			default:
				return []float32{0, 1}, nil
			}
		},
	}
	store := NewEmbeddingStore(provider, &fakeSource{doc: &models.Portfolio{
		Profile:  models.Profile{Name: "Jane", Title: "Engineer"},
		Projects: []models.Project{{Title: "Foo", Description: "A data pipeline"}},
	}}, 2)
	require.NoError(t, store.Rebuild(context.Background()))
	require.True(t, store.Current().Scored)

	matches, mode := NewRetriever(store).Retrieve(context.Background(), "find the pipeline")
	require.NotEmpty(t, matches)
	assert.Equal(t, models.ModeVector, mode)
	assert.Equal(t, models.ChunkProject, matches[0].Type)
	assert.InDelta(t, 0.993, matches[0].Score, 0.01)
	// Scores are descending.
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
}

func TestRetrieveQueryEmbedFailureFallsBackPerCall(t *testing.T) {
	failQueries := false
	provider := &fakeProvider{
		configured: true,
		embeddings: true,
		embedFn: func(_ context.Context, text string) ([]float32, error) {
			if failQueries {
				return nil, errors.New("provider down")
			}
			return []float32{1, 0}, nil
		},
	}
	store := NewEmbeddingStore(provider, &fakeSource{doc: samplePortfolio()}, 2)
	require.NoError(t, store.Rebuild(context.Background()))
	require.True(t, store.Current().Scored)

	failQueries = true
	matches, mode := NewRetriever(store).Retrieve(context.Background(), "tell me about projects")

	assert.NotEmpty(t, matches)
	assert.Equal(t, models.ModeKeyword, mode)
	// The cache itself stays scored; only this call degraded.
	assert.True(t, store.Current().Scored)
}

func TestRetrieveTieBreakIsStable(t *testing.T) {
	r := NewRetriever(keywordStore(t, &models.Portfolio{
		Profile: models.Profile{Name: "Jane"},
		Projects: []models.Project{
			{Title: "Alpha", Description: "same words here"},
			{Title: "Beta", Description: "same words here"},
		},
	}))

	matches, _ := r.Retrieve(context.Background(), "same words")
	require.GreaterOrEqual(t, len(matches), 2)

	var projects []models.RetrievalMatch
	for _, m := range matches {
		if m.Type == models.ChunkProject {
			projects = append(projects, m)
		}
	}
	require.Len(t, projects, 2)
	assert.Equal(t, projects[0].Score, projects[1].Score)
	assert.Contains(t, projects[0].Text, "Alpha")
	assert.Contains(t, projects[1].Text, "Beta")
}
