// Package scanner converts raw keystroke bursts from a keyboard-wedge
// barcode scanner into discrete scan events.
package scanner

import (
	"strings"
	"sync"
	"time"
)

const (
	defaultQuietPeriod   = 40 * time.Millisecond
	defaultMinCodeLength = 4
)

// Stream segments keystrokes into scan events by a quiet-period heuristic:
// scanners type far faster than people, so a pause longer than the quiet
// period closes the current burst. There is no explicit terminator
// character. Bursts shorter than the minimum code length are discarded as
// stray typing.
type Stream struct {
	mu        sync.Mutex
	buf       strings.Builder
	timer     *time.Timer
	quiet     time.Duration
	minLen    int
	suspended bool
	closed    bool
	scans     chan string
}

// Option configures a Stream.
type Option func(*Stream)

// WithQuietPeriod overrides the pause that closes a burst.
func WithQuietPeriod(d time.Duration) Option {
	return func(s *Stream) {
		if d > 0 {
			s.quiet = d
		}
	}
}

// WithMinCodeLength overrides the minimum accepted code length.
func WithMinCodeLength(n int) Option {
	return func(s *Stream) {
		if n > 0 {
			s.minLen = n
		}
	}
}

// New creates a stream ready to receive keystrokes.
func New(opts ...Option) *Stream {
	s := &Stream{
		quiet:  defaultQuietPeriod,
		minLen: defaultMinCodeLength,
		scans:  make(chan string, 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scans delivers whole-code scan events.
func (s *Stream) Scans() <-chan string {
	return s.scans
}

// Key ingests one keystroke. Control characters are ignored; a carriage
// return or newline from scanners that do send a terminator closes the
// burst immediately.
func (s *Stream) Key(r rune) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.suspended || s.closed {
		return
	}

	if r == '\r' || r == '\n' {
		s.flushLocked()
		return
	}
	if r < ' ' {
		return
	}

	s.buf.WriteRune(r)
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.quiet, s.timeout)
}

func (s *Stream) timeout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

// flushLocked closes the current burst and emits it when long enough.
func (s *Stream) flushLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	code := s.buf.String()
	s.buf.Reset()
	if len(code) < s.minLen || s.closed {
		return
	}
	select {
	case s.scans <- code:
	default:
		// Consumer is wedged; dropping beats blocking the input thread.
	}
}

// Suspend discards keystrokes until Resume. Used while a search field has
// focus so scans do not interleave with manual typing.
func (s *Stream) Suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspended = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.buf.Reset()
}

// Resume re-enables scan capture.
func (s *Stream) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspended = false
}

// Close stops the stream and closes the scan channel.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	close(s.scans)
}
