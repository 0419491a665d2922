package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meur/skyatlas/internal/models"
)

// Manager keeps one State per client id and drops states idle longer than ttl
type Manager struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	state    *State
	lastSeen time.Time
}

// NewManager creates a manager. A zero ttl keeps states forever.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Get returns the state for id, creating a fresh one (with a new id) when id
// is unknown or expired.
func (m *Manager) Get(id string, d *models.Dataset) (string, *State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	if e, ok := m.entries[id]; ok {
		e.lastSeen = now
		return id, e.state
	}

	id = uuid.New().String()
	e := &entry{state: New(d), lastSeen: now}
	m.entries[id] = e
	return id, e.state
}

// Len returns the number of live states
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Manager) sweep(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, e := range m.entries {
		if now.Sub(e.lastSeen) > m.ttl {
			delete(m.entries, id)
		}
	}
}

type contextKey struct{}

// NewContext attaches a state to ctx
func NewContext(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the state attached by NewContext
func FromContext(ctx context.Context) (*State, bool) {
	s, ok := ctx.Value(contextKey{}).(*State)
	return s, ok
}
