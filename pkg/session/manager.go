package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/waymark/internal/logging"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

var _ ports.SnapshotStore = (*Manager)(nil)

// Manager orchestrates tenant snapshot access.
// Locks are reference counted and dropped once no caller holds them.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager wraps store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller locks entry.mu and calls release after unlocking it.
func (m *Manager) acquire(tenantID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[tenantID]
	if !exists {
		entry = &lockEntry{}
		m.locks[tenantID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(tenantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[tenantID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, tenantID)
	}
}

// activeLocks reports how many tenants currently have a lock entry.
func (m *Manager) activeLocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// Load retrieves a tenant snapshot.
func (m *Manager) Load(ctx context.Context, tenantID string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := m.WithLock(ctx, tenantID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, tenantID)
		return err
	})
	return snap, err
}

// Save persists a tenant snapshot.
func (m *Manager) Save(ctx context.Context, tenantID string, snapshot domain.Snapshot) error {
	return m.WithLock(ctx, tenantID, func(ctx context.Context) error {
		return m.store.Save(ctx, tenantID, snapshot)
	})
}

// Swap stores snapshot and returns the one it replaced, or nil when the
// tenant had none. The read and the write happen under the same lock.
func (m *Manager) Swap(ctx context.Context, tenantID string, snapshot domain.Snapshot) (*domain.Snapshot, error) {
	var previous *domain.Snapshot
	err := m.SwapFunc(ctx, tenantID, snapshot, func(_ context.Context, prev *domain.Snapshot) {
		previous = prev
	})
	return previous, err
}

// SwapFunc stores snapshot and then calls fn with the replaced snapshot
// (nil when the tenant had none) while still holding the tenant lock.
// fn runs only after a successful write, in write order per tenant.
func (m *Manager) SwapFunc(ctx context.Context, tenantID string, snapshot domain.Snapshot, fn func(ctx context.Context, previous *domain.Snapshot)) error {
	return m.WithLock(ctx, tenantID, func(ctx context.Context) error {
		var previous *domain.Snapshot
		old, err := m.store.Load(ctx, tenantID)
		switch {
		case err == nil:
			previous = &old
		case !errors.Is(err, domain.ErrSnapshotNotFound):
			return fmt.Errorf("failed to read previous snapshot: %w", err)
		}
		if err := m.store.Save(ctx, tenantID, snapshot); err != nil {
			return err
		}
		if fn != nil {
			fn(ctx, previous)
		}
		return nil
	})
}

// Delete removes a tenant snapshot.
func (m *Manager) Delete(ctx context.Context, tenantID string) error {
	return m.WithLock(ctx, tenantID, func(ctx context.Context) error {
		return m.store.Delete(ctx, tenantID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// WithLock runs fn while holding the lock for tenantID.
func (m *Manager) WithLock(ctx context.Context, tenantID string, fn func(context.Context) error) error {
	entry := m.acquire(tenantID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(tenantID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, tenantID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"tenant", tenantID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
