package cli

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

// setupTestServices installs fake services and returns a cleanup that
// restores the originals.
func setupTestServices() func() {
	oldIngestion := ingestionService
	oldAnswer := answerService
	oldAnalytics := analyticsService
	oldDocuments := documentService

	ingestionService = &mockIngestionService{}
	answerService = &mockAnswerService{}
	analyticsService = &mockAnalyticsService{}
	documentService = &mockDocumentService{}

	return func() {
		ingestionService = oldIngestion
		answerService = oldAnswer
		analyticsService = oldAnalytics
		documentService = oldDocuments
	}
}

var testUploadedAt = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type mockIngestionService struct {
	uploads []driving.Upload
	err     error
}

func (m *mockIngestionService) Ingest(_ context.Context, upload driving.Upload) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.uploads = append(m.uploads, upload)
	return &domain.Document{ID: "doc-1", Name: upload.Name, Status: domain.DocumentStatusIndexed}, nil
}

func (m *mockIngestionService) IngestBatch(_ context.Context, uploads []driving.Upload) (*driving.BatchResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.uploads = append(m.uploads, uploads...)
	result := &driving.BatchResult{}
	for i, upload := range uploads {
		result.Ingested = append(result.Ingested, domain.Document{
			ID:     "doc-" + string(rune('1'+i)),
			Name:   upload.Name,
			Status: domain.DocumentStatusIndexed,
		})
	}
	return result, nil
}

type mockAnswerService struct {
	feedbackID       string
	feedbackPositive bool
	conversations    []domain.Conversation
	err              error
}

func (m *mockAnswerService) Answer(_ context.Context, question, conversationID string) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Answer{
		Text:           "The deductible is $500 per year.",
		CitedDocuments: []domain.CitedDocument{{ID: "doc-1", Name: "policy.pdf"}},
		InteractionID:  "interaction-1",
		ConversationID: conversationID,
		LatencyMS:      42,
		Grounded:       true,
	}, nil
}

func (m *mockAnswerService) Feedback(_ context.Context, interactionID string, isPositive bool) error {
	if m.err != nil {
		return m.err
	}
	m.feedbackID = interactionID
	m.feedbackPositive = isPositive
	return nil
}

func (m *mockAnswerService) Conversations(_ context.Context) ([]domain.Conversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conversations, nil
}

type mockAnalyticsService struct {
	err error
}

func (m *mockAnalyticsService) Snapshot(_ context.Context) (*domain.AnalyticsReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.AnalyticsReport{
		MostQueriedDocuments: []domain.DocumentUsage{
			{DocumentID: "doc-1", Name: "policy.pdf", Count: 3},
		},
		MostAskedQuestions: []domain.QuestionCount{
			{Question: "What is the deductible?", Count: 2},
		},
		AverageResponseTimeMS: 120,
		TotalInteractions:     5,
		FailedInteractions:    1,
		Feedback:              domain.FeedbackStats{Total: 2, Positive: 1, Negative: 1, PositivePercentage: 50},
		UnusedDocuments: []domain.Document{
			{ID: "doc-9", Name: "archive.pdf", Status: domain.DocumentStatusIndexed},
		},
	}, nil
}

func (m *mockAnalyticsService) DocumentReport(_ context.Context, documentID string) (*domain.DocumentReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if documentID != "doc-1" {
		return nil, domain.ErrNotFound
	}
	return &domain.DocumentReport{
		DocumentID:            "doc-1",
		Name:                  "policy.pdf",
		UploadedAt:            testUploadedAt,
		TotalUses:             3,
		AverageResponseTimeMS: 110,
		RecentQuestions: []domain.QuestionTiming{
			{Question: "What is the deductible?", CreatedAt: testUploadedAt, LatencyMS: 100},
		},
	}, nil
}

func (m *mockAnalyticsService) RecentInteractions(_ context.Context, limit int) ([]domain.Interaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	interactions := []domain.Interaction{
		{ID: "interaction-1", Question: "What is the deductible?", CreatedAt: testUploadedAt},
		{ID: "interaction-2", Question: "Is a humidifier covered?", Failed: true, CreatedAt: testUploadedAt},
	}
	if limit > 0 && limit < len(interactions) {
		interactions = interactions[:limit]
	}
	return interactions, nil
}

type mockDocumentService struct {
	docs    []domain.Document
	deleted bool
	err     error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, doc := range m.docs {
		if doc.ID == id {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) DeleteAll(_ context.Context) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.deleted = true
	deleted := m.docs
	m.docs = nil
	return deleted, nil
}

var errMockFailure = errors.New("mock failure")
