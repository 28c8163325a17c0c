package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/askdocs-cli/internal/chunker"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// maxConcurrentIngests bounds parallel document processing in a batch.
// Embedding calls dominate ingestion time, so a small degree of
// parallelism is enough to keep the provider busy.
const maxConcurrentIngests = 4

// IngestionService runs the upload pipeline: store blob, extract text,
// chunk, embed, index.
type IngestionService struct {
	docStore         driven.DocumentStore
	blobStore        driven.BlobStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	extractors       driven.ExtractorRegistry
	chunker          *chunker.Chunker
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	docStore driven.DocumentStore,
	blobStore driven.BlobStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	extractors driven.ExtractorRegistry,
	chunk *chunker.Chunker,
) *IngestionService {
	if chunk == nil {
		chunk = chunker.New()
	}
	return &IngestionService{
		docStore:         docStore,
		blobStore:        blobStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		extractors:       extractors,
		chunker:          chunk,
	}
}

// Ingest processes a single upload through the full pipeline.
// The document record survives failure with status failed so the user
// can see what went wrong; the error is returned as well.
func (s *IngestionService) Ingest(ctx context.Context, upload driving.Upload) (*domain.Document, error) {
	logger.Section("Ingest " + upload.Name)
	defer logger.Timing("ingest "+upload.Name, time.Now())

	if len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: empty upload %q", domain.ErrInvalidInput, upload.Name)
	}

	// Reject unsupported formats before anything is persisted.
	extractor, err := s.extractors.ForMIMEType(upload.MIMEType)
	if err != nil {
		return nil, err
	}

	blobRef, err := s.blobStore.Store(ctx, upload.Data)
	if err != nil {
		return nil, fmt.Errorf("storing blob: %w", err)
	}

	doc := &domain.Document{
		ID:         uuid.NewString(),
		Name:       upload.Name,
		MIMEType:   upload.MIMEType,
		BlobRef:    blobRef,
		Status:     domain.DocumentStatusPending,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	logger.Debug("Document %s registered as pending", doc.ID)

	if err := s.index(ctx, doc, extractor, upload.Data); err != nil {
		doc.Status = domain.DocumentStatusFailed
		doc.FailureReason = err.Error()
		if statusErr := s.docStore.SetStatus(ctx, doc.ID, domain.DocumentStatusFailed, err.Error()); statusErr != nil {
			logger.Warn("Failed to mark document %s as failed: %v", doc.ID, statusErr)
		}
		return doc, err
	}

	doc.Status = domain.DocumentStatusIndexed
	if err := s.docStore.SetStatus(ctx, doc.ID, domain.DocumentStatusIndexed, ""); err != nil {
		return doc, fmt.Errorf("marking document indexed: %w", err)
	}
	logger.Info("Document %s indexed", doc.ID)
	return doc, nil
}

// index runs extraction, chunking, embedding and vector upsert for a
// registered document.
func (s *IngestionService) index(ctx context.Context, doc *domain.Document, extractor driven.Extractor, data []byte) error {
	text, err := extractor.Extract(ctx, data)
	if err != nil {
		return fmt.Errorf("extracting %q: %w", doc.Name, err)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: no text extracted from %q", domain.ErrExtraction, doc.Name)
	}

	chunks := s.chunker.Split(doc.ID, text)
	logger.Debug("Split %q into %d chunks", doc.Name, len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embedStart := time.Now()
	embeddings, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %q: %w", doc.Name, err)
	}
	logger.Timing("embed "+doc.Name, embedStart)

	if len(embeddings) != len(chunks) {
		return fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbeddingService, len(embeddings), len(chunks))
	}

	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return fmt.Errorf("saving chunks: %w", err)
	}

	entries := make([]driven.VectorEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = driven.VectorEntry{
			ChunkID:    chunk.ID,
			DocumentID: chunk.DocumentID,
			Position:   chunk.Position,
			Embedding:  embeddings[i],
		}
	}
	if err := s.vectorIndex.Upsert(ctx, entries); err != nil {
		return fmt.Errorf("indexing vectors: %w", err)
	}

	return nil
}

// IngestBatch processes uploads independently. One failed document never
// aborts the rest of the batch.
func (s *IngestionService) IngestBatch(ctx context.Context, uploads []driving.Upload) (*driving.BatchResult, error) {
	logger.Section("Batch Ingest")
	logger.Info("Processing %d uploads", len(uploads))

	type outcome struct {
		doc     *domain.Document
		failure *driving.UploadFailure
	}
	outcomes := make([]outcome, len(uploads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentIngests)

	for i, upload := range uploads {
		g.Go(func() error {
			doc, err := s.Ingest(gctx, upload)
			if err != nil {
				// Per-document isolation: record and move on. Only a
				// cancelled context stops the batch.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				outcomes[i] = outcome{failure: &driving.UploadFailure{
					Name:   upload.Name,
					Reason: err.Error(),
				}}
				return nil
			}
			outcomes[i] = outcome{doc: doc}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &driving.BatchResult{}
	for _, o := range outcomes {
		switch {
		case o.doc != nil:
			result.Ingested = append(result.Ingested, *o.doc)
		case o.failure != nil:
			result.Failed = append(result.Failed, *o.failure)
		}
	}

	logger.Info("Batch complete: %d ingested, %d failed",
		len(result.Ingested), len(result.Failed))
	return result, nil
}
