package ports

import (
	"context"

	"github.com/aretw0/waymark/pkg/domain"
)

// SnapshotStore defines the interface for persisting tenant snapshots.
// The engine never reads from it; hosts and transport adapters do.
type SnapshotStore interface {
	// Save persists the snapshot for a given tenant ID.
	Save(ctx context.Context, tenantID string, snapshot domain.Snapshot) error

	// Load retrieves the snapshot for a given tenant ID.
	// Returns domain.ErrSnapshotNotFound if the tenant has none.
	Load(ctx context.Context, tenantID string) (domain.Snapshot, error)

	// Delete removes the snapshot for a given tenant ID.
	Delete(ctx context.Context, tenantID string) error

	// List returns the tenant IDs with a stored snapshot.
	List(ctx context.Context) ([]string, error)
}
