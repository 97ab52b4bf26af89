package review

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jackzampolin/provlink/internal/document"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// Manager owns the open review sessions. Sessions live in memory only.
type Manager struct {
	cfg    Config
	viewer atomic.Pointer[Viewer]

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager whose sessions share cfg.
func NewManager(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	m := &Manager{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
	v := cfg.Viewer
	m.viewer.Store(&v)
	return m
}

// SetViewer replaces the presentation settings for all sessions, open or not.
func (m *Manager) SetViewer(v Viewer) {
	m.viewer.Store(&v)
}

// Viewer returns the current presentation settings.
func (m *Manager) Viewer() Viewer {
	return *m.viewer.Load()
}

// Create opens a new session on ref. The document loads in the background.
func (m *Manager) Create(ref document.Ref) (*Session, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	s := NewSession(id, m.cfg)
	s.viewer = m.Viewer

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.cfg.Metrics.SessionOpened()
	s.Open(ref)
	return s, nil
}

// Get returns a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Close cancels a session's load and forgets it.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.Close()
	m.cfg.Metrics.SessionClosed()
	return nil
}

// CloseAll closes every session. Used at shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
		m.cfg.Metrics.SessionClosed()
	}
}

// List returns snapshots of all sessions, oldest first.
func (m *Manager) List() []Snapshot {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	out := make([]Snapshot, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
