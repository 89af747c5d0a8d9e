package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waymark/pkg/domain"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	tenantID := "contract-test-tenant-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := domain.Snapshot{
			HasFullName:   true,
			HasPhone:      true,
			CustomerCount: 3,
			QuoteCount:    1,
			BankLinked:    true,
		}

		err := store.Save(ctx, tenantID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, tenantID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap, loaded)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, tenantID, domain.Snapshot{JobCount: 1}))
		require.NoError(t, store.Save(ctx, tenantID, domain.Snapshot{JobCount: 7}))

		loaded, err := store.Load(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, 7, loaded.JobCount)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+tenantID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, tenantID, domain.Snapshot{HasPhone: true})
		require.NoError(t, err)

		err = store.Delete(ctx, tenantID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, tenantID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")

		assert.NoError(t, store.Delete(ctx, tenantID), "Delete of a missing tenant is a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := tenantID + "-1"
		id2 := tenantID + "-2"
		_ = store.Save(ctx, id1, domain.Snapshot{})
		_ = store.Save(ctx, id2, domain.Snapshot{})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		tenants, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, tenants, id1)
		assert.Contains(t, tenants, id2)
	})

	t.Run("Tenant Names Shadowing Internal Keys", func(t *testing.T) {
		names := []string{"index", "data", "lock", "data:index"}
		require.NoError(t, store.Save(ctx, tenantID, domain.Snapshot{JobCount: 1}))
		defer func() { _ = store.Delete(ctx, tenantID) }()

		for _, name := range names {
			if err := store.Save(ctx, name, domain.Snapshot{QuoteCount: 2}); err != nil {
				// Stores may reject ids outside their charset, but must stay consistent.
				t.Logf("store rejected tenant %q: %v", name, err)
				continue
			}
			defer func(name string) { _ = store.Delete(ctx, name) }(name)

			loaded, err := store.Load(ctx, name)
			require.NoError(t, err)
			assert.Equal(t, 2, loaded.QuoteCount)
		}

		tenants, err := store.List(ctx)
		require.NoError(t, err, "List must keep working after saving tenants named like internal keys")
		assert.Contains(t, tenants, tenantID)

		loaded, err := store.Load(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.JobCount)
	})
}
