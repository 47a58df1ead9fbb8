package planner

import (
	"context"
	"sync"
)

// SessionManager hands out one Aggregator per authenticated user. The
// aggregator is created on first use and lives for the process lifetime;
// there is no ambient singleton, the manager is constructed and wired
// explicitly at startup.
type SessionManager struct {
	mu       sync.Mutex
	store    EventStore
	sessions map[string]*Aggregator
}

func NewSessionManager(store EventStore) *SessionManager {
	return &SessionManager{
		store:    store,
		sessions: make(map[string]*Aggregator),
	}
}

// Session returns the aggregator for userID, loading its persisted events
// on first access.
func (m *SessionManager) Session(ctx context.Context, userID string) *Aggregator {
	m.mu.Lock()
	defer m.mu.Unlock()

	if agg, ok := m.sessions[userID]; ok {
		return agg
	}
	agg := NewAggregator(ctx, m.store, userID)
	m.sessions[userID] = agg
	return agg
}
