package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.askdocs/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".askdocs", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// InteractionStore returns an InteractionStore interface backed by this store.
func (s *Store) InteractionStore() driven.InteractionStore {
	return &interactionStore{store: s}
}

// ConversationStore returns a ConversationStore interface backed by this store.
func (s *Store) ConversationStore() driven.ConversationStore {
	return &conversationStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, name, mime_type, blob_ref, status, failure_reason, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			mime_type = excluded.mime_type,
			blob_ref = excluded.blob_ref,
			status = excluded.status,
			failure_reason = excluded.failure_reason
	`, doc.ID, doc.Name, doc.MIMEType, doc.BlobRef,
		string(doc.Status), doc.FailureReason, doc.UploadedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// SetStatus updates a document's ingestion status.
func (s *documentStore) SetStatus(ctx context.Context, id string, status domain.DocumentStatus, reason string) error {
	if status != domain.DocumentStatusFailed {
		reason = ""
	}

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE documents SET status = ?, failure_reason = ? WHERE id = ?
	`, string(status), reason, id)
	if err != nil {
		return fmt.Errorf("updating document status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, mime_type, blob_ref, status, failure_reason, uploaded_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row)
}

// ListDocuments returns all documents, newest upload first.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, mime_type, blob_ref, status, failure_reason, uploaded_at
		FROM documents
		ORDER BY uploaded_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// DeleteAllDocuments removes every document and its chunks.
func (s *documentStore) DeleteAllDocuments(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Chunks go via ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return nil, fmt.Errorf("deleting documents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return docs, nil
}

// SaveChunks stores chunks for a document.
func (s *documentStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, position, content, length)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			position = excluded.position,
			content = excluded.content,
			length = excluded.length
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID,
			chunk.Position, chunk.Content, chunk.Length); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *documentStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, position, content, length
		FROM chunks WHERE id = ?
	`, id)

	var chunk domain.Chunk
	if err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Position,
		&chunk.Content, &chunk.Length); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	return &chunk, nil
}

// GetChunks retrieves all chunks for a document, ordered by position.
func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, position, content, length
		FROM chunks WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Position,
			&chunk.Content, &chunk.Length); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// ==================== Interaction Store ====================

// interactionStore implements driven.InteractionStore.
type interactionStore struct {
	store *Store
}

var _ driven.InteractionStore = (*interactionStore)(nil)

// Record appends an interaction to the ledger. The interaction row and
// its cited-document rows commit in one transaction.
func (s *interactionStore) Record(ctx context.Context, interaction *domain.Interaction) error {
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now().UTC()
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO interactions
			(id, conversation_id, question, answer, failed, failure_reason, feedback, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, interaction.ID, nullString(interaction.ConversationID),
		interaction.Question, interaction.Answer,
		boolToInt(interaction.Failed), interaction.FailureReason,
		int(interaction.Feedback), interaction.LatencyMS, interaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving interaction: %w", err)
	}

	for i, docID := range interaction.UsedDocumentIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO interaction_documents (interaction_id, document_id, usage_order)
			VALUES (?, ?, ?)
		`, interaction.ID, docID, i); err != nil {
			return fmt.Errorf("saving interaction document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SetFeedback overwrites the feedback field of an interaction.
func (s *interactionStore) SetFeedback(ctx context.Context, interactionID string, isPositive bool) error {
	feedback := domain.FeedbackNegative
	if isPositive {
		feedback = domain.FeedbackPositive
	}

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE interactions SET feedback = ? WHERE id = ?
	`, int(feedback), interactionID)
	if err != nil {
		return fmt.Errorf("updating feedback: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Get retrieves an interaction by ID.
func (s *interactionStore) Get(ctx context.Context, id string) (*domain.Interaction, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, question, answer, failed, failure_reason, feedback, latency_ms, created_at
		FROM interactions WHERE id = ?
	`, id)

	interaction, err := scanInteraction(row)
	if err != nil {
		return nil, err
	}

	if err := s.loadUsedDocuments(ctx, interaction); err != nil {
		return nil, err
	}
	return interaction, nil
}

// List returns every logged interaction, oldest first.
func (s *interactionStore) List(ctx context.Context) ([]domain.Interaction, error) {
	return s.list(ctx, `
		SELECT id, conversation_id, question, answer, failed, failure_reason, feedback, latency_ms, created_at
		FROM interactions
		ORDER BY created_at, id
	`)
}

// ListRecent returns the most recent interactions, newest first.
func (s *interactionStore) ListRecent(ctx context.Context, limit int) ([]domain.Interaction, error) {
	return s.list(ctx, `
		SELECT id, conversation_id, question, answer, failed, failure_reason, feedback, latency_ms, created_at
		FROM interactions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
}

// ListByConversation returns a conversation's interactions, oldest first.
func (s *interactionStore) ListByConversation(ctx context.Context, conversationID string) ([]domain.Interaction, error) {
	return s.list(ctx, `
		SELECT id, conversation_id, question, answer, failed, failure_reason, feedback, latency_ms, created_at
		FROM interactions
		WHERE conversation_id = ?
		ORDER BY created_at, id
	`, conversationID)
}

// list runs an interaction query and hydrates cited documents.
func (s *interactionStore) list(ctx context.Context, query string, args ...any) ([]domain.Interaction, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer rows.Close()

	var interactions []domain.Interaction //nolint:prealloc // size unknown from query
	for rows.Next() {
		interaction, err := scanInteractionRows(rows)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, *interaction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interactions: %w", err)
	}

	for i := range interactions {
		if err := s.loadUsedDocuments(ctx, &interactions[i]); err != nil {
			return nil, err
		}
	}

	return interactions, nil
}

// loadUsedDocuments populates UsedDocumentIDs in citation order.
func (s *interactionStore) loadUsedDocuments(ctx context.Context, interaction *domain.Interaction) error {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT document_id FROM interaction_documents
		WHERE interaction_id = ?
		ORDER BY usage_order
	`, interaction.ID)
	if err != nil {
		return fmt.Errorf("querying interaction documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var docID string
		if err := rows.Scan(&docID); err != nil {
			return fmt.Errorf("scanning interaction document: %w", err)
		}
		interaction.UsedDocumentIDs = append(interaction.UsedDocumentIDs, docID)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating interaction documents: %w", err)
	}
	return nil
}

// ==================== Conversation Store ====================

// conversationStore implements driven.ConversationStore.
type conversationStore struct {
	store *Store
}

var _ driven.ConversationStore = (*conversationStore)(nil)

// Save stores or updates a conversation.
func (s *conversationStore) Save(ctx context.Context, conversation *domain.Conversation) error {
	now := time.Now().UTC()
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = now
	}
	conversation.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO conversations (id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			updated_at = excluded.updated_at
	`, conversation.ID, conversation.Title,
		conversation.CreatedAt, conversation.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}
	return nil
}

// Get retrieves a conversation by ID.
func (s *conversationStore) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, created_at, updated_at
		FROM conversations WHERE id = ?
	`, id)

	var conv domain.Conversation
	if err := row.Scan(&conv.ID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning conversation: %w", err)
	}

	return &conv, nil
}

// List returns all conversations, most recently updated first.
func (s *conversationStore) List(ctx context.Context) ([]domain.Conversation, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, created_at, updated_at
		FROM conversations
		ORDER BY updated_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	var convs []domain.Conversation //nolint:prealloc // size unknown from query
	for rows.Next() {
		var conv domain.Conversation
		if err := rows.Scan(&conv.ID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		convs = append(convs, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}

	return convs, nil
}

// ==================== Helper Functions ====================

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var status string

	if err := row.Scan(&doc.ID, &doc.Name, &doc.MIMEType, &doc.BlobRef,
		&status, &doc.FailureReason, &doc.UploadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}

// scanDocumentRows scans a document from *sql.Rows.
func scanDocumentRows(rows *sql.Rows) (*domain.Document, error) {
	var doc domain.Document
	var status string

	if err := rows.Scan(&doc.ID, &doc.Name, &doc.MIMEType, &doc.BlobRef,
		&status, &doc.FailureReason, &doc.UploadedAt); err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}

// scanInteraction scans a single interaction row.
func scanInteraction(row *sql.Row) (*domain.Interaction, error) {
	var interaction domain.Interaction
	var conversationID sql.NullString
	var failed int
	var feedback int

	if err := row.Scan(&interaction.ID, &conversationID, &interaction.Question,
		&interaction.Answer, &failed, &interaction.FailureReason,
		&feedback, &interaction.LatencyMS, &interaction.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning interaction: %w", err)
	}

	if conversationID.Valid {
		interaction.ConversationID = conversationID.String
	}
	interaction.Failed = failed != 0
	interaction.Feedback = domain.Feedback(feedback)
	return &interaction, nil
}

// scanInteractionRows scans an interaction from *sql.Rows.
func scanInteractionRows(rows *sql.Rows) (*domain.Interaction, error) {
	var interaction domain.Interaction
	var conversationID sql.NullString
	var failed int
	var feedback int

	if err := rows.Scan(&interaction.ID, &conversationID, &interaction.Question,
		&interaction.Answer, &failed, &interaction.FailureReason,
		&feedback, &interaction.LatencyMS, &interaction.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning interaction: %w", err)
	}

	if conversationID.Valid {
		interaction.ConversationID = conversationID.String
	}
	interaction.Failed = failed != 0
	interaction.Feedback = domain.Feedback(feedback)
	return &interaction, nil
}

// nullString converts an empty string to a NULL value.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to a SQLite integer.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
