package live

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matthewbaird/dashkit/internal/filter"
	"github.com/matthewbaird/dashkit/internal/resolve"
	"github.com/matthewbaird/dashkit/internal/ruleset"
)

// Session holds per-connection dashboard state: the active view, its
// filter aggregator, and the render generation counter that lets
// stale render results be recognized and discarded.
type Session struct {
	ID string

	mu         sync.Mutex
	viewID     string
	filters    *filter.Aggregator
	generation uint64
	cancel     context.CancelFunc
	createdAt  time.Time
	lastActive time.Time
}

// newSession creates a session positioned on the default view with
// filters initialized from the given filter-bar schema.
func newSession(fields []ruleset.FilterField) *Session {
	now := time.Now()
	return &Session{
		ID:         uuid.New().String(),
		viewID:     resolve.DefaultViewID,
		filters:    filter.New(fields),
		createdAt:  now,
		lastActive: now,
	}
}

// ViewID returns the active view.
func (s *Session) ViewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewID
}

// Filters returns the session's aggregator.
func (s *Session) Filters() *filter.Aggregator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Touch updates the last activity timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// SwitchView makes viewID the active view and replaces the filter
// aggregator with a fresh one for the given schema. Any in-flight
// render for the previous view is cancelled, and its generation is
// obsoleted so a result that already escaped cancellation is dropped
// on arrival.
func (s *Session) SwitchView(viewID string, fields []ruleset.FilterField) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewID = viewID
	s.filters = filter.New(fields)
	s.lastActive = time.Now()
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// BeginRender cancels any in-flight render and opens a new render
// generation. The returned context is cancelled by the next
// BeginRender or SwitchView; the returned generation identifies this
// render when its result comes back.
func (s *Session) BeginRender(parent context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.generation++
	return ctx, s.generation
}

// Current reports whether gen is still the live render generation.
func (s *Session) Current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.generation
}

// Close cancels any in-flight render.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Manager tracks the connected sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create registers a new session for the given filter-bar schema.
func (m *Manager) Create(fields []ruleset.FilterField) *Session {
	s := newSession(fields)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Remove closes and deletes a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// Len returns the number of connected sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
