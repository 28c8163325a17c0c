package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

func TestIndex_UpsertAndSearch(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []driven.VectorEntry{
		{ChunkID: "doc-1:0000", DocumentID: "doc-1", Position: 0, Embedding: []float32{1, 0}},
		{ChunkID: "doc-2:0000", DocumentID: "doc-2", Position: 0, Embedding: []float32{0, 1}},
	}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-1:0000", hits[0].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}

func TestIndex_UpsertReplaces(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	entry := driven.VectorEntry{ChunkID: "doc-1:0000", DocumentID: "doc-1", Embedding: []float32{1, 0}}
	require.NoError(t, idx.Upsert(ctx, []driven.VectorEntry{entry}))
	entry.Embedding = []float32{0, 1}
	require.NoError(t, idx.Upsert(ctx, []driven.VectorEntry{entry}))

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIndex_TieBreakIsDeterministic(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []driven.VectorEntry{
		{ChunkID: "doc-b:0000", DocumentID: "doc-b", Position: 0, Embedding: []float32{1, 0}},
		{ChunkID: "doc-a:0000", DocumentID: "doc-a", Position: 0, Embedding: []float32{1, 0}},
	}))

	for range 5 {
		hits, err := idx.Search(ctx, []float32{1, 0}, 2)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, "doc-a:0000", hits[0].ChunkID)
		assert.Equal(t, "doc-b:0000", hits[1].ChunkID)
	}
}

func TestIndex_DeleteDocument(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []driven.VectorEntry{
		{ChunkID: "doc-1:0000", DocumentID: "doc-1", Embedding: []float32{1, 0}},
		{ChunkID: "doc-1:0001", DocumentID: "doc-1", Position: 1, Embedding: []float32{0, 1}},
		{ChunkID: "doc-2:0000", DocumentID: "doc-2", Embedding: []float32{1, 1}},
	}))

	require.NoError(t, idx.DeleteDocument(ctx, "doc-1"))

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIndex_DimensionMismatch(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []driven.VectorEntry{
		{ChunkID: "doc-1:0000", DocumentID: "doc-1", Embedding: []float32{1, 0, 0}},
	}))

	_, err := idx.Search(ctx, []float32{1, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrIndexConsistency)
}

func TestIndex_EmptyEmbeddingRejected(t *testing.T) {
	idx := NewIndex()

	err := idx.Upsert(context.Background(), []driven.VectorEntry{
		{ChunkID: "doc-1:0000", DocumentID: "doc-1"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
