package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SearchOrdersBySimilarity(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "aligned", []float64{1, 0}, Metadata{Title: "aligned"}))
	require.NoError(t, store.Upsert(ctx, "diagonal", []float64{1, 1}, Metadata{Title: "diagonal"}))
	require.NoError(t, store.Upsert(ctx, "orthogonal", []float64{0, 1}, Metadata{Title: "orthogonal"}))

	results, err := store.Search(ctx, []float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "aligned", results[0].ID)
	assert.Equal(t, "diagonal", results[1].ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestMemoryStore_UpsertReplaces(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "a", []float64{1, 0}, Metadata{Title: "old"}))
	require.NoError(t, store.Upsert(ctx, "a", []float64{0, 1}, Metadata{Title: "new"}))
	assert.Equal(t, 1, store.Len())

	results, err := store.Search(ctx, []float64{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].Metadata.Title)
}

func TestMemoryStore_DeleteIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "a", []float64{1}, Metadata{}))
	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"))
	assert.Zero(t, store.Len())
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1, cosine([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0, cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Zero(t, cosine([]float64{0, 0}, []float64{1, 1}))
}
