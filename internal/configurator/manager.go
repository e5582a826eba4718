package configurator

import (
	"context"
	"errors"
	"sync"
	"time"

	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or evicted session ids.
var ErrSessionNotFound = errors.New("session not found")

// DefaultTTL is how long an untouched session lives.
const DefaultTTL = 30 * time.Minute

// Manager owns the live sessions.
type Manager struct {
	cat  *catalog.Catalog
	log  *zap.Logger
	opts Options
	ttl  time.Duration
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns an empty manager. A non-positive ttl means DefaultTTL.
func NewManager(cat *catalog.Catalog, log *zap.Logger, opts Options, ttl time.Duration) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		cat:      cat,
		log:      log.Named("sessions"),
		opts:     opts,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Catalog returns the catalog every session validates against.
func (m *Manager) Catalog() *catalog.Catalog { return m.cat }

// Create starts a new session at the baseline.
func (m *Manager) Create() *Session {
	s := NewSession(uuid.NewString(), m.cat, m.log, m.opts)
	s.touch(m.now())

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	metrics.SessionsActive.Inc()
	m.log.Debug("session created", zap.String("id", s.ID))
	return s
}

// Get returns the session and marks it active.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Delete ends a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	metrics.SessionsActive.Dec()
	return nil
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Evict closes sessions idle for longer than the TTL and returns how many went.
func (m *Manager) Evict() int {
	cutoff := m.now().Add(-m.ttl)
	var stale []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
		metrics.SessionsActive.Dec()
		metrics.SessionsEvicted.Inc()
	}
	if len(stale) > 0 {
		m.log.Info("evicted idle sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Run evicts idle sessions periodically until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	t := time.NewTicker(m.ttl / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Evict()
		}
	}
}

// Close ends every session.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range all {
		s.Close()
		metrics.SessionsActive.Dec()
	}
}
