package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure InteractionStore implements the interface.
var _ driven.InteractionStore = (*InteractionStore)(nil)

// InteractionStore is an in-memory implementation of driven.InteractionStore.
type InteractionStore struct {
	mu           sync.RWMutex
	interactions map[string]domain.Interaction
}

// NewInteractionStore creates a new in-memory interaction store.
func NewInteractionStore() *InteractionStore {
	return &InteractionStore{
		interactions: make(map[string]domain.Interaction),
	}
}

// Record appends an interaction to the ledger.
func (s *InteractionStore) Record(_ context.Context, interaction *domain.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now().UTC()
	}
	s.interactions[interaction.ID] = cloneInteraction(*interaction)
	return nil
}

// SetFeedback overwrites the feedback field of an interaction.
func (s *InteractionStore) SetFeedback(_ context.Context, interactionID string, isPositive bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	interaction, ok := s.interactions[interactionID]
	if !ok {
		return domain.ErrNotFound
	}
	if isPositive {
		interaction.Feedback = domain.FeedbackPositive
	} else {
		interaction.Feedback = domain.FeedbackNegative
	}
	s.interactions[interactionID] = interaction
	return nil
}

// Get retrieves an interaction by ID.
func (s *InteractionStore) Get(_ context.Context, id string) (*domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	interaction, ok := s.interactions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	interaction = cloneInteraction(interaction)
	return &interaction, nil
}

// List returns every logged interaction, oldest first.
func (s *InteractionStore) List(_ context.Context) ([]domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Interaction, 0, len(s.interactions))
	for _, interaction := range s.interactions {
		result = append(result, cloneInteraction(interaction))
	}
	sortOldestFirst(result)
	return result, nil
}

// ListRecent returns the most recent interactions, newest first.
func (s *InteractionStore) ListRecent(ctx context.Context, limit int) ([]domain.Interaction, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	// Reverse to newest first.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ListByConversation returns a conversation's interactions, oldest first.
func (s *InteractionStore) ListByConversation(_ context.Context, conversationID string) ([]domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Interaction
	for _, interaction := range s.interactions {
		if interaction.ConversationID == conversationID {
			result = append(result, cloneInteraction(interaction))
		}
	}
	sortOldestFirst(result)
	return result, nil
}

// cloneInteraction deep-copies the used-document slice so stored
// entries never alias caller memory.
func cloneInteraction(interaction domain.Interaction) domain.Interaction {
	if len(interaction.UsedDocumentIDs) > 0 {
		interaction.UsedDocumentIDs = append([]string(nil), interaction.UsedDocumentIDs...)
	}
	return interaction
}

// sortOldestFirst orders interactions by creation time, ID as tie-break.
func sortOldestFirst(interactions []domain.Interaction) {
	sort.Slice(interactions, func(i, j int) bool {
		if !interactions[i].CreatedAt.Equal(interactions[j].CreatedAt) {
			return interactions[i].CreatedAt.Before(interactions[j].CreatedAt)
		}
		return interactions[i].ID < interactions[j].ID
	})
}
