// Package ai holds the provider capabilities behind the retrieval-augmented
// Q&A flow. Each capability is an interface so the backing provider can be
// swapped without touching the orchestration in the service layer.
package ai

import "context"

// Metadata is the denormalized payload stored next to each vector for
// retrieval display.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SearchResult is one retrieved passage with its similarity score.
type SearchResult struct {
	ID       string
	Metadata Metadata
	Score    float64
}

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VectorStore persists vectors keyed by id and supports nearest-neighbor
// search. Delete is idempotent.
type VectorStore interface {
	Upsert(ctx context.Context, id string, vector []float64, meta Metadata) error
	Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error)
	Delete(ctx context.Context, id string) error
}

// Generator produces a natural-language answer from retrieved context.
type Generator interface {
	Generate(ctx context.Context, contextText, question string) (string, error)
}
