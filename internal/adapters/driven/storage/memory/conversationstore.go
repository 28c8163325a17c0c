package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore is an in-memory implementation of driven.ConversationStore.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]domain.Conversation
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]domain.Conversation),
	}
}

// Save stores or updates a conversation.
func (s *ConversationStore) Save(_ context.Context, conversation *domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = now
	}
	conversation.UpdatedAt = now
	s.conversations[conversation.ID] = *conversation
	return nil
}

// Get retrieves a conversation by ID.
func (s *ConversationStore) Get(_ context.Context, id string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conversation, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &conversation, nil
}

// List returns all conversations, most recently updated first.
func (s *ConversationStore) List(_ context.Context) ([]domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Conversation, 0, len(s.conversations))
	for _, conversation := range s.conversations {
		result = append(result, conversation)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
