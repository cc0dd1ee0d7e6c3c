package clock

import (
	"sync"
	"time"
)

// TimeProvider is the source of wall clock time.
type TimeProvider interface {
	Now() time.Time
}

type SystemTime struct{}

func (SystemTime) Now() time.Time {
	return time.Now()
}

// Clock maps wall time since the session start to song time. There is no
// pause, starting again resets it.
type Clock struct {
	provider TimeProvider
	start    time.Time
	started  bool
}

func New(provider TimeProvider) *Clock {
	if provider == nil {
		provider = SystemTime{}
	}
	return &Clock{provider: provider}
}

func (c *Clock) Start() {
	c.start = c.provider.Now()
	c.started = true
}

// SongTime is zero until Start is called.
func (c *Clock) SongTime() time.Duration {
	if !c.started {
		return 0
	}
	return c.provider.Now().Sub(c.start)
}

func (c *Clock) Started() bool {
	return c.started
}

// MockTime is a controllable TimeProvider for tests and replays.
type MockTime struct {
	mu  sync.RWMutex
	now time.Time
}

func NewMockTime(start time.Time) *MockTime {
	return &MockTime{now: start}
}

func (m *MockTime) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

func (m *MockTime) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

func (m *MockTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
