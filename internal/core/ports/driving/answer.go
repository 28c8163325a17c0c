package driving

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// AnswerService answers natural-language questions from indexed documents
// and records every exchange in the interaction ledger.
type AnswerService interface {
	// Answer runs the retrieval-augmented pipeline for one question.
	// conversationID is optional; when set, prior turns of the
	// conversation are supplied to the generation capability.
	//
	// The interaction is recorded durably before Answer returns. On
	// pipeline failure the interaction is recorded as failed and the
	// returned error wraps domain.ErrAnswerGeneration.
	Answer(ctx context.Context, question, conversationID string) (*domain.Answer, error)

	// Feedback records a user rating on an interaction.
	// Returns domain.ErrNotFound if the interaction does not exist.
	Feedback(ctx context.Context, interactionID string, isPositive bool) error

	// Conversations returns all conversation threads, most recently
	// updated first.
	Conversations(ctx context.Context) ([]domain.Conversation, error)
}
