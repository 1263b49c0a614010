package models

// ChunkType labels the portfolio section a chunk came from. It is an open
// enumeration: new section types can be introduced without breaking retrieval,
// they simply start with no topic-keyword boost.
type ChunkType string

const (
	ChunkProfile       ChunkType = "profile"
	ChunkSkill         ChunkType = "skill"
	ChunkProject       ChunkType = "project"
	ChunkExperience    ChunkType = "experience"
	ChunkEducation     ChunkType = "education"
	ChunkCertification ChunkType = "certification"
	ChunkInterests     ChunkType = "interests"
	ChunkSocial        ChunkType = "social"
)

// Chunk is the atomic retrieval unit: one self-contained sentence or short
// paragraph summarizing one record (or one logical group of records) of the
// portfolio. Chunks are created fresh on every chunking run and never mutated.
type Chunk struct {
	ID   string    `json:"id"`
	Type ChunkType `json:"type"`
	Text string    `json:"text"`
}

// EmbeddingRecord pairs a chunk with its optional vector. A nil Embedding
// means vector retrieval is unavailable; the policy is all-or-nothing per
// cache, so either every record in a cache has a vector or none does.
type EmbeddingRecord struct {
	Chunk     Chunk     `json:"chunk"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// RetrievalMode tags which tier of the degradation chain produced a result.
type RetrievalMode string

const (
	// ModeVector: cosine similarity against chunk embeddings.
	ModeVector RetrievalMode = "vector"
	// ModeKeyword: token/topic heuristic scoring.
	ModeKeyword RetrievalMode = "keyword"
	// ModeOrder: nothing scored above zero, top-K by document order.
	ModeOrder RetrievalMode = "order"
)

// RetrievalMatch is one entry of a retrieval result, highest relevance first.
// Score is a cosine similarity in [-1, 1] in vector mode or a non-negative
// integer-valued heuristic score in keyword mode; the two scales are only
// ever compared within a single retrieval call.
type RetrievalMatch struct {
	Text  string    `json:"text"`
	Type  ChunkType `json:"type"`
	Score float64   `json:"score"`
}

// ChatAnswer is what the chat pipeline hands back to the transport layer.
type ChatAnswer struct {
	Response string           `json:"response"`
	Mode     RetrievalMode    `json:"mode"`
	Sources  []RetrievalMatch `json:"sources,omitempty"`
}
