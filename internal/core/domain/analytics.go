package domain

import "time"

// DocumentUsage counts how often a document appeared in interaction
// grounding sets.
type DocumentUsage struct {
	// DocumentID is the document identifier.
	DocumentID string

	// Name is the document display name.
	Name string

	// Count is the number of interactions that used the document.
	Count int
}

// QuestionCount groups interactions by exact question text.
type QuestionCount struct {
	// Question is the exact question text.
	Question string

	// Count is how many times it was asked.
	Count int
}

// FeedbackStats summarises user feedback across the ledger.
// PositivePercentage is computed over feedback-bearing interactions,
// not over all interactions.
type FeedbackStats struct {
	// Total is the number of interactions with any feedback.
	Total int

	// Positive is the number of positive ratings.
	Positive int

	// Negative is the number of negative ratings.
	Negative int

	// PositivePercentage is Positive/Total*100, 0 when Total is 0.
	PositivePercentage float64
}

// InteractionSummary is a trimmed interaction for analytics listings.
type InteractionSummary struct {
	// ID is the interaction identifier.
	ID string

	// Question is the question text.
	Question string

	// Answer is the answer text, truncated for display.
	Answer string

	// CreatedAt is when the interaction was logged.
	CreatedAt time.Time
}

// AnalyticsReport is the aggregate snapshot over the interaction ledger
// and the document set.
type AnalyticsReport struct {
	// MostQueriedDocuments counts interactions per used document,
	// descending, ties by document ID.
	MostQueriedDocuments []DocumentUsage

	// MostAskedQuestions groups by exact question text, descending.
	MostAskedQuestions []QuestionCount

	// WeeklyDocumentCounts is MostQueriedDocuments restricted to a
	// trailing seven-day window.
	WeeklyDocumentCounts []DocumentUsage

	// AverageResponseTimeMS is the mean latency over successful
	// interactions. Failed interactions are excluded.
	AverageResponseTimeMS float64

	// TotalInteractions counts every logged interaction, failed included.
	TotalInteractions int

	// FailedInteractions counts interactions whose pipeline did not complete.
	FailedInteractions int

	// Feedback summarises user ratings.
	Feedback FeedbackStats

	// UnusedDocuments lists indexed documents never cited by any interaction.
	UnusedDocuments []Document

	// QuestionsWithoutDocuments lists interactions with an empty used-set.
	QuestionsWithoutDocuments []InteractionSummary

	// QuestionsWithNegativeFeedback lists interactions rated negative.
	// Independent of QuestionsWithoutDocuments; the two are never merged.
	QuestionsWithNegativeFeedback []InteractionSummary
}

// QuestionTiming is one question asked against a document, with timing.
type QuestionTiming struct {
	// Question is the question text.
	Question string

	// CreatedAt is when it was asked.
	CreatedAt time.Time

	// LatencyMS is the answer latency in milliseconds.
	LatencyMS int64
}

// DocumentReport is the per-document analytics view.
type DocumentReport struct {
	// DocumentID is the document identifier.
	DocumentID string

	// Name is the document display name.
	Name string

	// UploadedAt is when the document was uploaded.
	UploadedAt time.Time

	// TotalUses counts interactions that used the document.
	TotalUses int

	// RecentQuestions lists questions that used the document, newest first.
	RecentQuestions []QuestionTiming

	// AverageResponseTimeMS is the mean latency of those interactions.
	AverageResponseTimeMS float64
}
