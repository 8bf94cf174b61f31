// Package store persists the interaction log: one row per processed query.
// The orchestrator core never reads this log back; it exists for the history
// endpoint and offline inspection.
package store

import (
	"context"

	"github.com/aitutor/orchestrator/pkg/models"
)

// Store is the interaction-log interface. Handler code depends on this so
// tests can swap in a fake.
type Store interface {
	// SaveInteraction appends one processed query to the log.
	SaveInteraction(ctx context.Context, in *models.Interaction) error

	// ListRecent returns the newest interactions, most recent first.
	ListRecent(ctx context.Context, limit int) ([]models.Interaction, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close releases the underlying connection pool.
	Close() error
}
