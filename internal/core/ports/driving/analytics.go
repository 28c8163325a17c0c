package driving

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// AnalyticsService computes read-side statistics over the interaction
// ledger and the document set.
type AnalyticsService interface {
	// Snapshot computes the aggregate analytics report.
	Snapshot(ctx context.Context) (*domain.AnalyticsReport, error)

	// DocumentReport computes per-document usage analytics.
	// Returns domain.ErrNotFound if the document does not exist.
	DocumentReport(ctx context.Context, documentID string) (*domain.DocumentReport, error)

	// RecentInteractions returns the most recent interactions, newest first.
	RecentInteractions(ctx context.Context, limit int) ([]domain.Interaction, error)
}
