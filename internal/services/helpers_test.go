package services

import (
	"context"
	"sync"

	"portfolio-ai/internal/ai"
	"portfolio-ai/internal/models"
)

// fakeProvider implements ai.Provider with programmable behavior.
type fakeProvider struct {
	mu         sync.Mutex
	configured bool
	embeddings bool
	embedFn    func(ctx context.Context, text string) ([]float32, error)
	completeFn func(system, user string) (string, error)
	embedCalls int
}

var _ ai.Provider = (*fakeProvider)(nil)

func (f *fakeProvider) Name() string             { return "fake" }
func (f *fakeProvider) IsConfigured() bool       { return f.configured }
func (f *fakeProvider) SupportsEmbeddings() bool { return f.embeddings }

func (f *fakeProvider) Models() ai.ModelInfo {
	return ai.ModelInfo{Chat: "fake-chat", Embedding: "fake-embed"}
}

func (f *fakeProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.embedCalls++
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.embedFn != nil {
		return f.embedFn(ctx, text)
	}
	// Deterministic default: a unit-ish vector derived from the text.
	vec := []float32{float32(len(text)), 1, 0}
	return vec, nil
}

func (f *fakeProvider) Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	if f.completeFn != nil {
		return f.completeFn(system, user)
	}
	return "generated answer", nil
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.embedCalls
}

// fakeSource implements PortfolioSource over a swappable in-memory document.
type fakeSource struct {
	mu  sync.Mutex
	doc *models.Portfolio
	err error
}

func (s *fakeSource) Load() (*models.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.doc, nil
}

func (s *fakeSource) set(doc *models.Portfolio) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
}

func samplePortfolio() *models.Portfolio {
	return &models.Portfolio{
		Profile: models.Profile{
			Name:     "Jane Doe",
			Title:    "Platform Engineer",
			Location: "Berlin",
			Email:    "jane@example.com",
			Summary:  "Builds resilient infrastructure.",
		},
		Skills: []models.SkillCategory{
			{Category: "Languages", Items: []string{"Go", "Rust"}},
			{Category: "Cloud", Items: []string{"AWS", "GCP"}},
		},
		Projects: []models.Project{
			{Title: "Foo", Description: "A data pipeline", Tech: []string{"Go", "Kafka"}},
			{Title: "Bar", Description: "A CLI tool"},
		},
		Experience: []models.Experience{
			{Role: "Engineer", Company: "Acme", Period: "2020 - 2023",
				Highlights: []string{"Shipped the billing system", "Halved deploy times"}},
			{Role: "Junior Engineer", Company: "Initech",
				Description: "Maintained internal tooling"},
		},
		Education: []models.Education{
			{Degree: "BSc Computer Science", Institution: "TU Berlin", Year: "2017"},
		},
		Certifications: []models.Certification{
			{Name: "CKA", Issuer: "CNCF", Year: "2022"},
		},
		Interests: []string{"climbing", "chess"},
		Socials: []models.Social{
			{Platform: "GitHub", URL: "https://github.com/janedoe"},
		},
	}
}
