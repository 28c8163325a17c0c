package domain

import "time"

// Feedback is the ternary user rating on an interaction.
type Feedback int

// Feedback values.
const (
	// FeedbackNone means the user has not rated the interaction.
	FeedbackNone Feedback = iota

	// FeedbackPositive means the user rated the answer helpful.
	FeedbackPositive

	// FeedbackNegative means the user rated the answer unhelpful.
	FeedbackNegative
)

// String returns a human-readable feedback label.
func (f Feedback) String() string {
	switch f {
	case FeedbackPositive:
		return "positive"
	case FeedbackNegative:
		return "negative"
	default:
		return "none"
	}
}

// Interaction is one logged question/answer exchange.
// Interactions are append-only; Feedback is the only mutable field.
type Interaction struct {
	// ID is the unique identifier for the interaction.
	ID string

	// ConversationID links to a conversation thread. Empty for one-off questions.
	ConversationID string

	// Question is the user's question text.
	Question string

	// Answer is the generated answer text. Empty when Failed is true.
	Answer string

	// Failed marks interactions where the answer pipeline did not complete.
	Failed bool

	// FailureReason records why the pipeline failed. Empty on success.
	FailureReason string

	// UsedDocumentIDs is the ordered set of documents cited as grounding.
	// Empty when the answer was ungrounded.
	UsedDocumentIDs []string

	// Feedback is the optional user rating.
	Feedback Feedback

	// LatencyMS is the wall-clock answer latency in milliseconds.
	LatencyMS int64

	// CreatedAt is when the interaction was logged.
	CreatedAt time.Time
}

// Conversation is a thread of interactions. It is bookkeeping around the
// ledger, not part of the retrieval core.
type Conversation struct {
	// ID is the unique identifier for the conversation.
	ID string

	// Title is a short human-readable label, usually the first question.
	Title string

	// CreatedAt is when the conversation was started.
	CreatedAt time.Time

	// UpdatedAt is when the conversation last received an interaction.
	UpdatedAt time.Time
}
