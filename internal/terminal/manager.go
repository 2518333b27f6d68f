package terminal

import (
	"sync"

	"github.com/dukapos/terminal/internal/catalog"
)

// Manager hands out one Session per register id. Sessions live for the
// life of the process; a register that reconnects gets its cart back.
type Manager struct {
	index *catalog.Index

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager over the shared catalog.
func NewManager(index *catalog.Index) *Manager {
	return &Manager{
		index:    index,
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the register's session, creating an idle one on
// first use.
func (m *Manager) GetOrCreate(register string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[register]; ok {
		return s
	}
	s := NewSession(register, m.index)
	m.sessions[register] = s
	return s
}

// Registers lists the register ids with live sessions.
func (m *Manager) Registers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	return out
}
