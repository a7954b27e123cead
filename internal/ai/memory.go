package ai

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process VectorStore using brute-force cosine
// similarity. It backs development setups without a Qdrant instance and
// the test suite.
type MemoryStore struct {
	mu      sync.RWMutex
	vectors map[string][]float64
	metas   map[string]Metadata
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vectors: make(map[string][]float64),
		metas:   make(map[string]Metadata),
	}
}

func (s *MemoryStore) Upsert(ctx context.Context, id string, vector []float64, meta Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors[id] = vector
	s.metas[id] = meta
	return nil
}

func (s *MemoryStore) Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]SearchResult, 0, len(s.vectors))
	for id, v := range s.vectors {
		results = append(results, SearchResult{
			ID:       id,
			Metadata: s.metas[id],
			Score:    cosine(v, vector),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vectors, id)
	delete(s.metas, id)
	return nil
}

// Len reports the number of stored vectors.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
