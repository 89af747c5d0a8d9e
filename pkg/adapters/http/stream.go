package http

import (
	"log/slog"
	"sync"
)

// StreamManager fans out messages to the SSE subscribers of each tenant.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // TenantID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for tenantID. The returned func
// unregisters and closes it.
func (sm *StreamManager) Subscribe(tenantID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[tenantID]; !ok {
		sm.subscribers[tenantID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[tenantID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[tenantID]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(sm.subscribers, tenantID)
				}
			}
			close(ch)
		})
	}
}

// Broadcast sends msg to every subscriber of tenantID without blocking.
// Slow clients with a full buffer miss the message.
func (sm *StreamManager) Broadcast(tenantID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	subs := sm.subscribers[tenantID]
	sm.logger.Debug("broadcasting", "tenant", tenantID, "subscribers", len(subs), "payload_size", len(msg))
	for ch := range subs {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping message", "tenant", tenantID)
		}
	}
}

// Count returns the number of live subscribers for tenantID.
func (sm *StreamManager) Count(tenantID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[tenantID])
}
