package terminal

import (
	"sync"

	"github.com/dukapos/terminal/internal/domain/entity"
)

// ShiftState caches the open shift locally so checkout preconditions
// never touch the network. The backend is consulted at startup and
// whenever the shift changes.
type ShiftState struct {
	mu    sync.RWMutex
	shift *entity.Shift
}

// NewShiftState starts with no shift; Set is called once the backend
// answers.
func NewShiftState() *ShiftState {
	return &ShiftState{}
}

// Set replaces the cached shift. Passing nil records that no shift is
// open.
func (s *ShiftState) Set(shift *entity.Shift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shift = shift
}

// Current returns the cached shift, or nil when none is open.
func (s *ShiftState) Current() *entity.Shift {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.shift == nil || !s.shift.Open {
		return nil
	}
	sh := *s.shift
	return &sh
}

// Open reports whether a shift is open on this register.
func (s *ShiftState) Open() bool {
	return s.Current() != nil
}
