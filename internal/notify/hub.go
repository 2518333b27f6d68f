// Package notify delivers user-visible notifications for asynchronous
// failures (print, delivery, catalog refresh) through one channel instead
// of scattering them across logs.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the severity shown to the cashier.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is one dismissable message for the terminal UI.
type Notification struct {
	ID      uuid.UUID `json:"id"`
	Level   Level     `json:"level"`
	Source  string    `json:"source"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

const maxPending = 100

// Hub buffers notifications until the UI drains them.
type Hub struct {
	mu      sync.Mutex
	pending []Notification
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// Publish queues a notification. The oldest entries are dropped once the
// buffer is full; the terminal UI polls frequently enough in practice.
func (h *Hub) Publish(level Level, source, message string) Notification {
	n := Notification{
		ID:      uuid.New(),
		Level:   level,
		Source:  source,
		Message: message,
		Time:    time.Now(),
	}
	h.mu.Lock()
	h.pending = append(h.pending, n)
	if len(h.pending) > maxPending {
		h.pending = h.pending[len(h.pending)-maxPending:]
	}
	h.mu.Unlock()
	return n
}

// Drain returns and clears all pending notifications.
func (h *Hub) Drain() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.pending
	h.pending = nil
	return out
}

// Peek returns pending notifications without clearing them.
func (h *Hub) Peek() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Notification, len(h.pending))
	copy(out, h.pending)
	return out
}
