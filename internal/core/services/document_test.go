package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storagememory "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/storage/memory"
	vectormemory "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

func newDocumentFixture() (*DocumentService, *storagememory.DocumentStore, *vectormemory.Index) {
	docStore := storagememory.NewDocumentStore()
	index := vectormemory.NewIndex()
	return NewDocumentService(docStore, index), docStore, index
}

func TestDocumentService_ListAndGet(t *testing.T) {
	service, docStore, _ := newDocumentFixture()
	ctx := context.Background()

	require.NoError(t, docStore.SaveDocument(ctx, &domain.Document{ID: "doc-1", Name: "a.txt"}))

	docs, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	doc, err := service.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", doc.Name)

	_, err = service.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = service.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentService_DeleteAllPurgesIndex(t *testing.T) {
	service, docStore, index := newDocumentFixture()
	ctx := context.Background()

	require.NoError(t, docStore.SaveDocument(ctx, &domain.Document{ID: "doc-1"}))
	require.NoError(t, docStore.SaveDocument(ctx, &domain.Document{ID: "doc-2"}))
	require.NoError(t, index.Upsert(ctx, []driven.VectorEntry{
		{ChunkID: "doc-1:0000", DocumentID: "doc-1", Embedding: []float32{1, 0}},
		{ChunkID: "doc-2:0000", DocumentID: "doc-2", Embedding: []float32{0, 1}},
	}))

	deleted, err := service.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Len(t, deleted, 2)

	docs, err := service.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDocumentService_DeleteAllEmptyStore(t *testing.T) {
	service, _, _ := newDocumentFixture()

	deleted, err := service.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, deleted)
}
