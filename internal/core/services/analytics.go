package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// Ensure AnalyticsService implements the interface.
var _ driving.AnalyticsService = (*AnalyticsService)(nil)

const (
	// topListLimit caps ranked analytics lists.
	topListLimit = 20

	// answerPreviewLength caps answer text in analytics summaries.
	answerPreviewLength = 200

	// weeklyWindow is the trailing window for weekly document counts.
	weeklyWindow = 7 * 24 * time.Hour
)

// AnalyticsService computes read-side statistics over the interaction
// ledger and the document set. All aggregation happens in memory; the
// ledger of a personal document collection stays small enough that
// pushing it into SQL would buy nothing.
type AnalyticsService struct {
	docStore         driven.DocumentStore
	interactionStore driven.InteractionStore
	now              func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(
	docStore driven.DocumentStore,
	interactionStore driven.InteractionStore,
) *AnalyticsService {
	return &AnalyticsService{
		docStore:         docStore,
		interactionStore: interactionStore,
		now:              time.Now,
	}
}

// Snapshot computes the aggregate analytics report.
func (s *AnalyticsService) Snapshot(ctx context.Context) (*domain.AnalyticsReport, error) {
	logger.Section("Analytics Snapshot")

	interactions, err := s.interactionStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing interactions: %w", err)
	}

	documents, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	logger.Debug("Aggregating %d interactions over %d documents",
		len(interactions), len(documents))

	names := make(map[string]string, len(documents))
	for _, doc := range documents {
		names[doc.ID] = doc.Name
	}

	report := &domain.AnalyticsReport{
		TotalInteractions: len(interactions),
	}

	weekStart := s.now().Add(-weeklyWindow)
	allCounts := make(map[string]int)
	weekCounts := make(map[string]int)
	questionCounts := make(map[string]int)
	usedDocs := make(map[string]bool)

	var latencySum int64
	var succeeded int

	for _, interaction := range interactions {
		if interaction.Failed {
			report.FailedInteractions++
		} else {
			succeeded++
			latencySum += interaction.LatencyMS
		}

		questionCounts[interaction.Question]++

		for _, docID := range interaction.UsedDocumentIDs {
			allCounts[docID]++
			usedDocs[docID] = true
			if interaction.CreatedAt.After(weekStart) {
				weekCounts[docID]++
			}
		}

		switch interaction.Feedback {
		case domain.FeedbackPositive:
			report.Feedback.Total++
			report.Feedback.Positive++
		case domain.FeedbackNegative:
			report.Feedback.Total++
			report.Feedback.Negative++
			report.QuestionsWithNegativeFeedback = append(
				report.QuestionsWithNegativeFeedback, summarise(interaction))
		case domain.FeedbackNone:
		}

		if !interaction.Failed && len(interaction.UsedDocumentIDs) == 0 {
			report.QuestionsWithoutDocuments = append(
				report.QuestionsWithoutDocuments, summarise(interaction))
		}
	}

	// Failed pipelines never produced an answer, so their latency would
	// only distort the mean.
	if succeeded > 0 {
		report.AverageResponseTimeMS = float64(latencySum) / float64(succeeded)
	}

	if report.Feedback.Total > 0 {
		report.Feedback.PositivePercentage =
			float64(report.Feedback.Positive) / float64(report.Feedback.Total) * 100
	}

	report.MostQueriedDocuments = rankDocuments(allCounts, names)
	report.WeeklyDocumentCounts = rankDocuments(weekCounts, names)
	report.MostAskedQuestions = rankQuestions(questionCounts)

	for _, doc := range documents {
		if doc.Status == domain.DocumentStatusIndexed && !usedDocs[doc.ID] {
			report.UnusedDocuments = append(report.UnusedDocuments, doc)
		}
	}

	report.QuestionsWithoutDocuments = capSummaries(report.QuestionsWithoutDocuments)
	report.QuestionsWithNegativeFeedback = capSummaries(report.QuestionsWithNegativeFeedback)

	return report, nil
}

// DocumentReport computes per-document usage analytics.
func (s *AnalyticsService) DocumentReport(ctx context.Context, documentID string) (*domain.DocumentReport, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	interactions, err := s.interactionStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing interactions: %w", err)
	}

	report := &domain.DocumentReport{
		DocumentID: doc.ID,
		Name:       doc.Name,
		UploadedAt: doc.UploadedAt,
	}

	var latencySum int64
	for _, interaction := range interactions {
		for _, usedID := range interaction.UsedDocumentIDs {
			if usedID != documentID {
				continue
			}
			report.TotalUses++
			latencySum += interaction.LatencyMS
			report.RecentQuestions = append(report.RecentQuestions, domain.QuestionTiming{
				Question:  interaction.Question,
				CreatedAt: interaction.CreatedAt,
				LatencyMS: interaction.LatencyMS,
			})
			break
		}
	}

	if report.TotalUses > 0 {
		report.AverageResponseTimeMS = float64(latencySum) / float64(report.TotalUses)
	}

	// Newest first for display.
	sort.Slice(report.RecentQuestions, func(i, j int) bool {
		return report.RecentQuestions[i].CreatedAt.After(report.RecentQuestions[j].CreatedAt)
	})
	if len(report.RecentQuestions) > topListLimit {
		report.RecentQuestions = report.RecentQuestions[:topListLimit]
	}

	return report, nil
}

// RecentInteractions returns the most recent interactions, newest first.
func (s *AnalyticsService) RecentInteractions(ctx context.Context, limit int) ([]domain.Interaction, error) {
	if limit <= 0 {
		limit = topListLimit
	}
	return s.interactionStore.ListRecent(ctx, limit)
}

// rankDocuments turns usage counts into a ranked list: count descending,
// document ID as the deterministic tie-break.
func rankDocuments(counts map[string]int, names map[string]string) []domain.DocumentUsage {
	result := make([]domain.DocumentUsage, 0, len(counts))
	for docID, count := range counts {
		result = append(result, domain.DocumentUsage{
			DocumentID: docID,
			Name:       names[docID],
			Count:      count,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].DocumentID < result[j].DocumentID
	})
	if len(result) > topListLimit {
		result = result[:topListLimit]
	}
	return result
}

// rankQuestions turns question counts into a ranked list: count
// descending, question text as the deterministic tie-break.
func rankQuestions(counts map[string]int) []domain.QuestionCount {
	result := make([]domain.QuestionCount, 0, len(counts))
	for question, count := range counts {
		result = append(result, domain.QuestionCount{Question: question, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Question < result[j].Question
	})
	if len(result) > topListLimit {
		result = result[:topListLimit]
	}
	return result
}

// summarise trims an interaction for analytics listings.
func summarise(interaction domain.Interaction) domain.InteractionSummary {
	return domain.InteractionSummary{
		ID:        interaction.ID,
		Question:  interaction.Question,
		Answer:    truncate(interaction.Answer, answerPreviewLength),
		CreatedAt: interaction.CreatedAt,
	}
}

// capSummaries orders summaries newest first, ID as the deterministic
// tie-break, and limits them to the display cap. Ordering before capping
// keeps the most recent gaps visible once the list overflows.
func capSummaries(summaries []domain.InteractionSummary) []domain.InteractionSummary {
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
		}
		return summaries[i].ID < summaries[j].ID
	})
	if len(summaries) > topListLimit {
		return summaries[:topListLimit]
	}
	return summaries
}
