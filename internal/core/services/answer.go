package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// systemPrompt instructs the model to answer from the supplied sources
// and to report which it used. Keeping the response machine-parseable is
// what makes citation tracking work; parseAnswer tolerates models that
// ignore the format anyway.
const systemPrompt = `You are a helpful assistant that answers questions using the provided document excerpts.

Answer the question using only the information in the sources below. If the sources do not contain the answer, say so plainly.

Respond with a JSON object of this exact shape:
{"answer": "your answer text", "sources": ["document name", ...]}

The "sources" array must list only the document names you actually used. Use an empty array if none were useful.`

// ungroundedPrompt is used when no retrieved chunk survived the
// similarity threshold. The model is told there is no document context
// so it does not invent citations.
const ungroundedPrompt = `You are a helpful assistant. No relevant documents were found for this question, so answer from general knowledge and make clear that the answer is not based on the user's documents.

Respond with a JSON object of this exact shape:
{"answer": "your answer text", "sources": []}`

// maxConversationTurns caps how much history is replayed to the model.
const maxConversationTurns = 10

// AnswerService runs the retrieval-augmented answer pipeline and records
// every exchange in the interaction ledger.
type AnswerService struct {
	docStore          driven.DocumentStore
	vectorIndex       driven.VectorIndex
	embeddingService  driven.EmbeddingService
	generationService driven.GenerationService
	interactionStore  driven.InteractionStore
	conversationStore driven.ConversationStore
	settings          domain.AnswerSettings
	now               func() time.Time
}

// NewAnswerService creates a new answer service.
func NewAnswerService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	generationService driven.GenerationService,
	interactionStore driven.InteractionStore,
	conversationStore driven.ConversationStore,
	settings domain.AnswerSettings,
) *AnswerService {
	return &AnswerService{
		docStore:          docStore,
		vectorIndex:       vectorIndex,
		embeddingService:  embeddingService,
		generationService: generationService,
		interactionStore:  interactionStore,
		conversationStore: conversationStore,
		settings:          settings.WithDefaults(),
		now:               time.Now,
	}
}

// Answer runs the full pipeline for one question. The interaction is
// recorded durably before the answer is returned; on failure a failed
// interaction is recorded and the error wraps domain.ErrAnswerGeneration.
func (s *AnswerService) Answer(ctx context.Context, question, conversationID string) (*domain.Answer, error) {
	logger.Section("Answer Pipeline")
	start := s.now()

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	answer, pipelineErr := s.run(ctx, question, conversationID)
	latency := s.now().Sub(start).Milliseconds()

	interaction := &domain.Interaction{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Question:       question,
		LatencyMS:      latency,
		CreatedAt:      s.now().UTC(),
	}

	if pipelineErr != nil {
		interaction.Failed = true
		interaction.FailureReason = pipelineErr.Error()
	} else {
		interaction.Answer = answer.Text
		for _, cited := range answer.CitedDocuments {
			interaction.UsedDocumentIDs = append(interaction.UsedDocumentIDs, cited.ID)
		}
	}

	// The ledger write is part of answering: an answer the user saw but
	// the ledger missed would corrupt every downstream analytic.
	if err := s.interactionStore.Record(ctx, interaction); err != nil {
		return nil, fmt.Errorf("recording interaction: %w", err)
	}

	if pipelineErr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAnswerGeneration, pipelineErr)
	}

	if conversationID != "" {
		s.touchConversation(ctx, conversationID, question)
	}

	answer.InteractionID = interaction.ID
	answer.ConversationID = conversationID
	answer.LatencyMS = latency
	logger.Info("Answered in %dms, %d citations", latency, len(answer.CitedDocuments))
	return answer, nil
}

// run executes retrieve, prompt, generate and parse. It returns the raw
// answer without ledger bookkeeping.
func (s *AnswerService) run(ctx context.Context, question, conversationID string) (*domain.Answer, error) {
	embedStart := s.now()
	queryVector, err := s.embeddingService.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}
	logger.Timing("embed question", embedStart)

	retrieved, err := s.retrieve(ctx, queryVector)
	if err != nil {
		return nil, err
	}
	logger.Debug("Retrieved %d chunks above threshold %.2f", len(retrieved), s.settings.MinSimilarity)

	prompt := s.buildPrompt(question, retrieved)

	generateStart := s.now()
	raw, err := s.generate(ctx, prompt, conversationID, len(retrieved) > 0)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}
	logger.Timing("generate answer", generateStart)

	answer := s.parseAnswer(raw, retrieved)
	answer.Grounded = len(retrieved) > 0
	return answer, nil
}

// retrieve searches the vector index and hydrates surviving hits with
// chunk content and document names. Chunks of non-indexed documents are
// skipped: a document mid-reingestion must not leak stale text.
func (s *AnswerService) retrieve(ctx context.Context, queryVector []float32) ([]domain.RetrievedChunk, error) {
	hits, err := s.vectorIndex.Search(ctx, queryVector, s.settings.TopK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	docNames := make(map[string]string)
	var retrieved []domain.RetrievedChunk
	for _, hit := range hits {
		if hit.Similarity < s.settings.MinSimilarity {
			continue
		}

		name, ok := docNames[hit.DocumentID]
		if !ok {
			doc, err := s.docStore.GetDocument(ctx, hit.DocumentID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					logger.Warn("Index references missing document %s", hit.DocumentID)
					continue
				}
				return nil, fmt.Errorf("resolving document %s: %w", hit.DocumentID, err)
			}
			if doc.Status != domain.DocumentStatusIndexed {
				logger.Debug("Skipping chunk of %s document %s", doc.Status, doc.ID)
				docNames[hit.DocumentID] = ""
				continue
			}
			name = doc.Name
			docNames[hit.DocumentID] = name
		}
		if name == "" {
			continue
		}

		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Index references missing chunk %s", hit.ChunkID)
				continue
			}
			return nil, fmt.Errorf("resolving chunk %s: %w", hit.ChunkID, err)
		}

		retrieved = append(retrieved, domain.RetrievedChunk{
			Chunk:        *chunk,
			DocumentName: name,
			Similarity:   hit.Similarity,
		})
	}

	return retrieved, nil
}

// buildPrompt assembles the user prompt from the question and the
// retrieved source excerpts.
func (s *AnswerService) buildPrompt(question string, retrieved []domain.RetrievedChunk) string {
	var b strings.Builder

	if len(retrieved) > 0 {
		b.WriteString("Sources:\n\n")
		for _, rc := range retrieved {
			fmt.Fprintf(&b, "Source: %s\n%s\n\n", rc.DocumentName, rc.Chunk.Content)
		}
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}

// generate calls the generation capability, replaying conversation
// history when a conversation is active.
func (s *AnswerService) generate(ctx context.Context, prompt, conversationID string, grounded bool) (string, error) {
	system := systemPrompt
	if !grounded {
		system = ungroundedPrompt
	}

	messages := []driven.ChatMessage{{Role: "system", Content: system}}

	if conversationID != "" {
		history, err := s.interactionStore.ListByConversation(ctx, conversationID)
		if err != nil {
			return "", fmt.Errorf("loading conversation history: %w", err)
		}
		// Failed turns carry no answer; drop them before windowing so
		// the replay always holds the last N completed exchanges.
		turns := make([]domain.Interaction, 0, len(history))
		for _, turn := range history {
			if !turn.Failed {
				turns = append(turns, turn)
			}
		}
		if len(turns) > maxConversationTurns {
			turns = turns[len(turns)-maxConversationTurns:]
		}
		for _, turn := range turns {
			messages = append(messages,
				driven.ChatMessage{Role: "user", Content: turn.Question},
				driven.ChatMessage{Role: "assistant", Content: turn.Answer},
			)
		}
		logger.Debug("Replaying %d conversation turns", (len(messages)-1)/2)
	}

	messages = append(messages, driven.ChatMessage{Role: "user", Content: prompt})
	return s.generationService.Chat(ctx, messages, driven.ChatOptions{})
}

// generatedAnswer is the JSON shape the model is asked to produce.
type generatedAnswer struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// parseAnswer decodes the model response defensively. A malformed
// response degrades to the raw text with no citations rather than an
// error: a readable answer beats a lost one. Cited names are validated
// against the documents actually supplied as context; the model cannot
// introduce citations from outside the grounding set.
func (s *AnswerService) parseAnswer(raw string, retrieved []domain.RetrievedChunk) *domain.Answer {
	var parsed generatedAnswer
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil || parsed.Answer == "" {
		logger.Warn("Model response was not valid JSON, using raw text")
		return &domain.Answer{Text: strings.TrimSpace(raw)}
	}

	// Map supplied document names to IDs, preserving retrieval order.
	type docRef struct {
		id   string
		name string
	}
	var supplied []docRef
	seen := make(map[string]bool)
	for _, rc := range retrieved {
		if !seen[rc.Chunk.DocumentID] {
			seen[rc.Chunk.DocumentID] = true
			supplied = append(supplied, docRef{id: rc.Chunk.DocumentID, name: rc.DocumentName})
		}
	}

	claimed := make(map[string]bool, len(parsed.Sources))
	for _, name := range parsed.Sources {
		claimed[strings.ToLower(strings.TrimSpace(name))] = true
	}

	answer := &domain.Answer{Text: strings.TrimSpace(parsed.Answer)}
	for _, ref := range supplied {
		if claimed[strings.ToLower(ref.name)] {
			answer.CitedDocuments = append(answer.CitedDocuments, domain.CitedDocument{
				ID:   ref.id,
				Name: ref.name,
			})
		}
	}

	if len(answer.CitedDocuments) < len(parsed.Sources) {
		logger.Debug("Model cited %d sources, %d matched supplied documents",
			len(parsed.Sources), len(answer.CitedDocuments))
	}
	return answer
}

// extractJSON pulls the first JSON object out of a response that may be
// wrapped in prose or a markdown fence.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return raw
	}
	return raw[start : end+1]
}

// touchConversation creates or refreshes the conversation record. Purely
// bookkeeping; failure never fails the answer.
func (s *AnswerService) touchConversation(ctx context.Context, conversationID, question string) {
	conv, err := s.conversationStore.Get(ctx, conversationID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Loading conversation %s: %v", conversationID, err)
			return
		}
		conv = &domain.Conversation{
			ID:    conversationID,
			Title: truncate(question, 80),
		}
	}
	if err := s.conversationStore.Save(ctx, conv); err != nil {
		logger.Warn("Saving conversation %s: %v", conversationID, err)
	}
}

// Feedback records a user rating on an interaction.
func (s *AnswerService) Feedback(ctx context.Context, interactionID string, isPositive bool) error {
	if interactionID == "" {
		return fmt.Errorf("%w: empty interaction ID", domain.ErrInvalidInput)
	}
	return s.interactionStore.SetFeedback(ctx, interactionID, isPositive)
}

// Conversations returns all conversation threads, most recently
// updated first.
func (s *AnswerService) Conversations(ctx context.Context) ([]domain.Conversation, error) {
	return s.conversationStore.List(ctx)
}

// truncate shortens a string to max runes, appending an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
