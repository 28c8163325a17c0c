package driven

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// InteractionStore is the durable, append-mostly interaction ledger.
//
// Record must be durable before the answer engine reports success to its
// caller (write-then-acknowledge). Feedback is the only mutable field;
// SetFeedback overwrites it in place and never creates a second row.
type InteractionStore interface {
	// Record appends an interaction to the ledger.
	Record(ctx context.Context, interaction *domain.Interaction) error

	// SetFeedback overwrites the feedback field of an interaction.
	// Returns domain.ErrNotFound if the interaction does not exist.
	SetFeedback(ctx context.Context, interactionID string, isPositive bool) error

	// Get retrieves an interaction by ID.
	Get(ctx context.Context, id string) (*domain.Interaction, error)

	// List returns every logged interaction, oldest first.
	List(ctx context.Context) ([]domain.Interaction, error)

	// ListRecent returns the most recent interactions, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.Interaction, error)

	// ListByConversation returns a conversation's interactions, oldest first.
	ListByConversation(ctx context.Context, conversationID string) ([]domain.Interaction, error)
}

// ConversationStore persists conversation threads.
type ConversationStore interface {
	// Save stores or updates a conversation.
	Save(ctx context.Context, conversation *domain.Conversation) error

	// Get retrieves a conversation by ID.
	Get(ctx context.Context, id string) (*domain.Conversation, error)

	// List returns all conversations, most recently updated first.
	List(ctx context.Context) ([]domain.Conversation, error)
}
