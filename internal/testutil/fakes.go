package testutil

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"strings"
	"sync"
)

// WordHashEmbedder is a deterministic local embedder: each token is
// hashed into one of 64 buckets and counted. Texts that share words get
// similar vectors, which is all retrieval tests need.
type WordHashEmbedder struct{}

func (WordHashEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, 64)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,!?\"'()")
		if tok == "" {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%64]++
	}
	return vec, nil
}

// EchoGenerator returns a canned answer embedding the context and
// question, so tests can assert on what reached the generator.
type EchoGenerator struct{}

func (EchoGenerator) Generate(_ context.Context, contextText, question string) (string, error) {
	return fmt.Sprintf("context=[%s] question=[%s]", contextText, question), nil
}

// MemoryMedia stores uploads in memory and serves fake URLs.
type MemoryMedia struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func NewMemoryMedia() *MemoryMedia {
	return &MemoryMedia{objects: make(map[string][]byte)}
}

// FailUploads makes every subsequent upload return an error.
func (m *MemoryMedia) FailUploads(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func (m *MemoryMedia) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return "", fmt.Errorf("upload of %s refused", key)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[key] = data
	return "https://media.test/" + key, nil
}

// Len reports the number of stored objects.
func (m *MemoryMedia) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
