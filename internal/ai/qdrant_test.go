package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// qdrantFake records requests and serves canned responses.
type qdrantFake struct {
	mu       sync.Mutex
	requests []string
	search   any
}

func (f *qdrantFake) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.mu.Unlock()

		if r.URL.Path == "/collections/blogs/points/search" {
			_ = json.NewEncoder(w).Encode(map[string]any{"result": f.search})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"result": true, "status": "ok"})
	})
}

func (f *qdrantFake) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func newQdrantFor(srv *httptest.Server) *QdrantStore {
	return NewQdrantStore(QdrantConfig{URL: srv.URL, APIKey: "qd-key", Collection: "blogs"})
}

func TestQdrantStore_Upsert_CreatesCollectionOnce(t *testing.T) {
	fake := &qdrantFake{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	store := newQdrantFor(srv)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "id-1", []float64{1, 2, 3}, Metadata{Title: "t"}))
	require.NoError(t, store.Upsert(ctx, "id-2", []float64{4, 5, 6}, Metadata{Title: "u"}))

	assert.Equal(t, []string{
		"PUT /collections/blogs",
		"PUT /collections/blogs/points",
		"PUT /collections/blogs/points",
	}, fake.seen())
}

func TestQdrantStore_Search(t *testing.T) {
	fake := &qdrantFake{
		search: []map[string]any{
			{
				"id":    "abc",
				"score": 0.9,
				"payload": map[string]any{
					"title":       "Bread",
					"description": "All about bread.",
				},
			},
			{"id": 7, "score": 0.4, "payload": map[string]any{}},
		},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	results, err := newQdrantFor(srv).Search(context.Background(), []float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "abc", results[0].ID)
	assert.Equal(t, "Bread", results[0].Metadata.Title)
	assert.Equal(t, "All about bread.", results[0].Metadata.Description)
	assert.InDelta(t, 0.9, results[0].Score, 1e-9)

	// Numeric point ids come back as strings.
	assert.Equal(t, "7", results[1].ID)
}

func TestQdrantStore_Delete(t *testing.T) {
	fake := &qdrantFake{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	require.NoError(t, newQdrantFor(srv).Delete(context.Background(), "gone"))
	assert.Equal(t, []string{"POST /collections/blogs/points/delete"}, fake.seen())
}

func TestQdrantStore_Delete_MissingCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	// Nothing was ever upserted, so the collection does not exist. The
	// point is absent either way and deleting it must succeed.
	assert.NoError(t, newQdrantFor(srv).Delete(context.Background(), "never-indexed"))
}

func TestQdrantStore_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newQdrantFor(srv).Upsert(context.Background(), "id", []float64{1}, Metadata{})
	assert.Error(t, err)
}
