package player

import (
	"sync"
	"time"
)

// Source drives time for a session. Exactly one of the two variants is
// active per viewing session, chosen when the session is opened; the sampler
// itself never knows which.
type Source interface {
	// Start begins delivering time to the session.
	Start()
	// Stop halts delivery. After it returns no new tick is issued; a tick
	// already in flight is discarded by the session's own state check.
	Stop()
}

// LocalClockSource simulates playback with a recurring wall-clock ticker.
type LocalClockSource struct {
	interval time.Duration
	tick     func()

	mu   sync.Mutex
	stop chan struct{}
}

func NewLocalClockSource(interval time.Duration, tick func()) *LocalClockSource {
	if interval <= 0 {
		interval = time.Second
	}
	return &LocalClockSource{interval: interval, tick: tick}
}

func (s *LocalClockSource) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	stop := make(chan struct{})
	s.stop = stop

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

func (s *LocalClockSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}

// ExternalPlayerSource carries no timer of its own; time arrives as status
// messages from the real player and message arrival is the only suspension
// point. Start/Stop only gate whether deliveries are accepted.
type ExternalPlayerSource struct {
	session *Session

	mu        sync.Mutex
	accepting bool
}

func NewExternalPlayerSource(session *Session) *ExternalPlayerSource {
	return &ExternalPlayerSource{session: session, accepting: true}
}

func (s *ExternalPlayerSource) Start() {
	s.mu.Lock()
	s.accepting = true
	s.mu.Unlock()
}

func (s *ExternalPlayerSource) Stop() {
	s.mu.Lock()
	s.accepting = false
	s.mu.Unlock()
}

// Deliver hands one status message to the session. Messages arriving while
// stopped are dropped.
func (s *ExternalPlayerSource) Deliver(msg StatusMessage) {
	s.mu.Lock()
	accepting := s.accepting
	s.mu.Unlock()
	if !accepting {
		return
	}
	s.session.ApplyStatus(msg)
}
