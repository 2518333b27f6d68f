package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(s *Stream, code string) {
	for _, r := range code {
		s.Key(r)
	}
}

func waitScan(t *testing.T, s *Stream) string {
	t.Helper()
	select {
	case code := <-s.Scans():
		return code
	case <-time.After(time.Second):
		t.Fatal("no scan event arrived")
		return ""
	}
}

func TestQuietPeriodClosesBurst(t *testing.T) {
	s := New(WithQuietPeriod(10 * time.Millisecond))
	defer s.Close()

	feed(s, "6001234567890")
	assert.Equal(t, "6001234567890", waitScan(t, s))
}

func TestTerminatorFlushesImmediately(t *testing.T) {
	s := New(WithQuietPeriod(time.Hour))
	defer s.Close()

	feed(s, "12345678")
	s.Key('\n')
	assert.Equal(t, "12345678", waitScan(t, s))
}

func TestTwoBurstsTwoEvents(t *testing.T) {
	s := New(WithQuietPeriod(time.Hour))
	defer s.Close()

	feed(s, "11111111")
	s.Key('\r')
	feed(s, "22222222")
	s.Key('\r')

	assert.Equal(t, "11111111", waitScan(t, s))
	assert.Equal(t, "22222222", waitScan(t, s))
}

func TestShortBurstDiscarded(t *testing.T) {
	s := New(WithQuietPeriod(time.Hour), WithMinCodeLength(4))
	defer s.Close()

	feed(s, "ab")
	s.Key('\n')
	feed(s, "abcd")
	s.Key('\n')

	// Only the second burst is long enough
	assert.Equal(t, "abcd", waitScan(t, s))
	select {
	case code := <-s.Scans():
		t.Fatalf("unexpected scan %q", code)
	default:
	}
}

func TestControlCharactersIgnored(t *testing.T) {
	s := New(WithQuietPeriod(time.Hour))
	defer s.Close()

	s.Key('1')
	s.Key('\t')
	s.Key('2')
	s.Key('3')
	s.Key('4')
	s.Key('\n')

	assert.Equal(t, "1234", waitScan(t, s))
}

func TestSuspendDropsKeystrokes(t *testing.T) {
	s := New(WithQuietPeriod(time.Hour))
	defer s.Close()

	feed(s, "123")
	s.Suspend()
	feed(s, "45678")
	s.Key('\n')
	s.Resume()

	feed(s, "87654321")
	s.Key('\n')

	// The pre-suspend partial burst and suspended keys never surface
	assert.Equal(t, "87654321", waitScan(t, s))
}

func TestCloseStopsDelivery(t *testing.T) {
	s := New(WithQuietPeriod(time.Hour))
	feed(s, "12345678")
	s.Close()

	_, open := <-s.Scans()
	require.False(t, open)

	// Keys after close are a no-op
	s.Key('1')
}
