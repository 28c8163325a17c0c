package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "askdocs-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// createTestDocument saves a document to satisfy foreign key constraints.
func createTestDocument(t *testing.T, store *Store, docID string) {
	t.Helper()
	ctx := context.Background()
	doc := &domain.Document{
		ID:       docID,
		Name:     "Test Document " + docID,
		MIMEType: "text/plain",
		BlobRef:  "blob-" + docID,
		Status:   domain.DocumentStatusPending,
	}
	require.NoError(t, store.DocumentStore().SaveDocument(ctx, doc))
}

// ==================== Store Creation Tests ====================

func TestNewStore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NotEmpty(t, store.Path())
	assert.FileExists(t, store.Path())
}

func TestMigrationsAreIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "askdocs-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

// ==================== Document Store Tests ====================

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	uploaded := time.Now().UTC().Truncate(time.Second)
	doc := &domain.Document{
		ID:         "doc-1",
		Name:       "manual.pdf",
		MIMEType:   "application/pdf",
		BlobRef:    "ab12cd",
		Status:     domain.DocumentStatusPending,
		UploadedAt: uploaded,
	}
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "manual.pdf", got.Name)
	assert.Equal(t, "application/pdf", got.MIMEType)
	assert.Equal(t, domain.DocumentStatusPending, got.Status)
	assert.True(t, got.UploadedAt.Equal(uploaded))
}

func TestDocumentStore_GetNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.DocumentStore().GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SetStatus(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	createTestDocument(t, store, "doc-1")

	require.NoError(t, docs.SetStatus(ctx, "doc-1", domain.DocumentStatusFailed, "extraction failed"))

	got, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusFailed, got.Status)
	assert.Equal(t, "extraction failed", got.FailureReason)

	// Moving out of failed clears the reason.
	require.NoError(t, docs.SetStatus(ctx, "doc-1", domain.DocumentStatusIndexed, "stale"))

	got, err = docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusIndexed, got.Status)
	assert.Empty(t, got.FailureReason)
}

func TestDocumentStore_SetStatusNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.DocumentStore().SetStatus(context.Background(), "missing", domain.DocumentStatusIndexed, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListNewestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"doc-a", "doc-b", "doc-c"} {
		require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
			ID:         id,
			Name:       id + ".txt",
			MIMEType:   "text/plain",
			BlobRef:    "blob-" + id,
			Status:     domain.DocumentStatusIndexed,
			UploadedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	listed, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "doc-c", listed[0].ID)
	assert.Equal(t, "doc-a", listed[2].ID)
}

func TestDocumentStore_SaveChunksAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	createTestDocument(t, store, "doc-1")

	chunks := []domain.Chunk{
		{ID: domain.ChunkID("doc-1", 0), DocumentID: "doc-1", Position: 0, Content: "first", Length: 5},
		{ID: domain.ChunkID("doc-1", 1), DocumentID: "doc-1", Position: 1, Content: "second", Length: 6},
	}
	require.NoError(t, docs.SaveChunks(ctx, chunks))

	got, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Content)
	assert.Equal(t, "second", got[1].Content)

	chunk, err := docs.GetChunk(ctx, domain.ChunkID("doc-1", 1))
	require.NoError(t, err)
	assert.Equal(t, "second", chunk.Content)
	assert.Equal(t, 1, chunk.Position)
}

func TestDocumentStore_SaveChunksIsIdempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	createTestDocument(t, store, "doc-1")

	chunks := []domain.Chunk{
		{ID: domain.ChunkID("doc-1", 0), DocumentID: "doc-1", Position: 0, Content: "v1", Length: 2},
	}
	require.NoError(t, docs.SaveChunks(ctx, chunks))

	chunks[0].Content = "v2"
	require.NoError(t, docs.SaveChunks(ctx, chunks))

	got, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v2", got[0].Content)
}

func TestDocumentStore_DeleteAllDocuments(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	createTestDocument(t, store, "doc-1")
	createTestDocument(t, store, "doc-2")
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: domain.ChunkID("doc-1", 0), DocumentID: "doc-1", Position: 0, Content: "x", Length: 1},
	}))

	deleted, err := docs.DeleteAllDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, deleted, 2)

	listed, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	// Cascade removed the chunks too.
	_, err = docs.GetChunk(ctx, domain.ChunkID("doc-1", 0))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== Interaction Store Tests ====================

func TestInteractionStore_RecordAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	interactions := store.InteractionStore()

	interaction := &domain.Interaction{
		ID:              "int-1",
		Question:        "What code covers CPAP?",
		Answer:          "E0601 covers CPAP devices.",
		UsedDocumentIDs: []string{"doc-2", "doc-1"},
		LatencyMS:       420,
	}
	require.NoError(t, interactions.Record(ctx, interaction))

	got, err := interactions.Get(ctx, "int-1")
	require.NoError(t, err)
	assert.Equal(t, "What code covers CPAP?", got.Question)
	assert.Equal(t, []string{"doc-2", "doc-1"}, got.UsedDocumentIDs)
	assert.Equal(t, domain.FeedbackNone, got.Feedback)
	assert.False(t, got.Failed)
	assert.Equal(t, int64(420), got.LatencyMS)
}

func TestInteractionStore_RecordFailed(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	interactions := store.InteractionStore()

	require.NoError(t, interactions.Record(ctx, &domain.Interaction{
		ID:            "int-1",
		Question:      "anything",
		Failed:        true,
		FailureReason: "generation service unavailable",
	}))

	got, err := interactions.Get(ctx, "int-1")
	require.NoError(t, err)
	assert.True(t, got.Failed)
	assert.Equal(t, "generation service unavailable", got.FailureReason)
	assert.Empty(t, got.Answer)
	assert.Empty(t, got.UsedDocumentIDs)
}

func TestInteractionStore_SetFeedback(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	interactions := store.InteractionStore()

	require.NoError(t, interactions.Record(ctx, &domain.Interaction{
		ID:       "int-1",
		Question: "q",
		Answer:   "a",
	}))

	require.NoError(t, interactions.SetFeedback(ctx, "int-1", true))
	got, err := interactions.Get(ctx, "int-1")
	require.NoError(t, err)
	assert.Equal(t, domain.FeedbackPositive, got.Feedback)

	// Overwrites in place, no duplicate ledger rows.
	require.NoError(t, interactions.SetFeedback(ctx, "int-1", false))
	got, err = interactions.Get(ctx, "int-1")
	require.NoError(t, err)
	assert.Equal(t, domain.FeedbackNegative, got.Feedback)

	all, err := interactions.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestInteractionStore_SetFeedbackNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.InteractionStore().SetFeedback(context.Background(), "missing", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInteractionStore_ListOrdering(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	interactions := store.InteractionStore()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"int-a", "int-b", "int-c"} {
		require.NoError(t, interactions.Record(ctx, &domain.Interaction{
			ID:        id,
			Question:  "q-" + id,
			Answer:    "a",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	oldest, err := interactions.List(ctx)
	require.NoError(t, err)
	require.Len(t, oldest, 3)
	assert.Equal(t, "int-a", oldest[0].ID)

	recent, err := interactions.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "int-c", recent[0].ID)
	assert.Equal(t, "int-b", recent[1].ID)
}

func TestInteractionStore_ListByConversation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	interactions := store.InteractionStore()

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, interactions.Record(ctx, &domain.Interaction{
		ID: "int-1", ConversationID: "conv-1", Question: "first", Answer: "a", CreatedAt: base,
	}))
	require.NoError(t, interactions.Record(ctx, &domain.Interaction{
		ID: "int-2", Question: "one-off", Answer: "a", CreatedAt: base.Add(time.Second),
	}))
	require.NoError(t, interactions.Record(ctx, &domain.Interaction{
		ID: "int-3", ConversationID: "conv-1", Question: "second", Answer: "a", CreatedAt: base.Add(2 * time.Second),
	}))

	got, err := interactions.ListByConversation(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "int-1", got[0].ID)
	assert.Equal(t, "int-3", got[1].ID)
}

// ==================== Conversation Store Tests ====================

func TestConversationStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	convs := store.ConversationStore()

	conv := &domain.Conversation{ID: "conv-1", Title: "CPAP coverage"}
	require.NoError(t, convs.Save(ctx, conv))

	got, err := convs.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "CPAP coverage", got.Title)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestConversationStore_GetNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.ConversationStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConversationStore_UpdatePreservesCreatedAt(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	convs := store.ConversationStore()

	conv := &domain.Conversation{ID: "conv-1", Title: "first title"}
	require.NoError(t, convs.Save(ctx, conv))
	created := conv.CreatedAt

	conv.Title = "renamed"
	require.NoError(t, convs.Save(ctx, conv))

	got, err := convs.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.True(t, got.CreatedAt.Equal(created))
}
