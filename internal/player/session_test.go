package player

import (
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
)

type eventRecorder struct {
	mu        sync.Mutex
	progress  []float64
	autosaves []int
	completed int
	learned   []int
}

func (r *eventRecorder) events() Events {
	return Events{
		OnProgress: func(_ uuid.UUID, percent float64) {
			r.mu.Lock()
			r.progress = append(r.progress, percent)
			r.mu.Unlock()
		},
		OnAutosave: func(_ uuid.UUID, watchedSeconds int, _ bool) {
			r.mu.Lock()
			r.autosaves = append(r.autosaves, watchedSeconds)
			r.mu.Unlock()
		},
		OnCompleted: func(_ uuid.UUID, _ int) {
			r.mu.Lock()
			r.completed++
			r.mu.Unlock()
		},
		OnDurationLearned: func(_ uuid.UUID, durationSeconds int) {
			r.mu.Lock()
			r.learned = append(r.learned, durationSeconds)
			r.mu.Unlock()
		},
	}
}

func newTestSession(duration int, rec *eventRecorder) *Session {
	return NewSession(uuid.New(), uuid.New(), duration, rec.events())
}

func tickN(s *Session, n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

func TestTickAdvancesOneSecond(t *testing.T) {
	rec := &eventRecorder{}
	s := newTestSession(300, rec)
	s.Play()

	tickN(s, 42)

	snap := s.Snapshot()
	if snap.CurrentTime != 42 {
		t.Errorf("Expected currentTime 42, got %d", snap.CurrentTime)
	}
	if snap.Status != StatusPlaying {
		t.Errorf("Expected status playing, got %s", snap.Status)
	}
}

func TestTickIgnoredWhilePaused(t *testing.T) {
	rec := &eventRecorder{}
	s := newTestSession(300, rec)
	s.Play()
	tickN(s, 10)
	s.Pause()

	tickN(s, 50)

	if got := s.Snapshot().CurrentTime; got != 10 {
		t.Errorf("Expected currentTime to stay at 10 while paused, got %d", got)
	}
}

func TestCurrentTimeClampedAtDuration(t *testing.T) {
	rec := &eventRecorder{}
	s := newTestSession(30, rec)
	s.Play()

	tickN(s, 100)

	snap := s.Snapshot()
	if snap.CurrentTime != 30 {
		t.Errorf("Expected currentTime clamped at 30, got %d", snap.CurrentTime)
	}
	if snap.Percent != 100 {
		t.Errorf("Expected percent 100, got %f", snap.Percent)
	}
}

func TestReached80IsInformationalOnly(t *testing.T) {
	rec := &eventRecorder{}
	s := newTestSession(300, rec)
	s.Play()

	tickN(s, 239)
	if s.Snapshot().Reached80 {
		t.Fatal("Reached80 flipped before 80%")
	}

	s.Tick() // 240 = 80% of 300
	snap := s.Snapshot()
	if !snap.Reached80 {
		t.Fatal("Reached80 did not flip at 80%")
	}
	if snap.Completed || snap.Status == StatusCompleted {
		t.Error("80% must not complete the session")
	}
	if rec.completed != 0 {
		t.Errorf("Completion event fired at 80%%: %d", rec.completed)
	}
}

func TestCompletionAt100PercentExactlyOnce(t *testing.T) {
	rec := &eventRecorder{}
	s := newTestSession(300, rec)
	s.Play()

	tickN(s, 300)

	snap := s.Snapshot()
	if !snap.Completed {
		t.Fatal("Session did not complete at 100%")
	}
	if snap.Status != StatusCompleted {
		t.Errorf("Expected status completed, got %s", snap.Status)
	}
	if rec.completed != 1 {
		t.Fatalf("Expected exactly one completion event, got %d", rec.completed)
	}

	// Completed is terminal: further play/ticks change nothing
	s.Play()
	tickN(s, 20)
	if rec.completed != 1 {
		t.Errorf("Completion event fired again after completion: %d", rec.completed)
	}
	if got := s.Snapshot().CurrentTime; got != 300 {
		t.Errorf("currentTime moved after completion: %d", got)
	}
}

func TestAutosaveCadence(t *testing.T) {
	rec := &eventRecorder{}
	s := newTestSession(300, rec)
	s.SetAutosaveEvery(10)
	s.Play()

	tickN(s, 35)

	want := []int{10, 20, 30}
	if len(rec.autosaves) != len(want) {
		t.Fatalf("Expected %d autosaves, got %d (%v)", len(want), len(rec.autosaves), rec.autosaves)
	}
	for i, w := range want {
		if rec.autosaves[i] != w {
			t.Errorf("Autosave %d: expected %d, got %d", i, w, rec.autosaves[i])
		}
	}
}

func TestUnknownDurationNeverCompletesByTicks(t *testing.T) {
	rec := &eventRecorder{}
	s := newTestSession(0, rec)
	s.Play()

	tickN(s, 10000)

	snap := s.Snapshot()
	if snap.Completed {
		t.Error("Session with unknown duration completed from ticks")
	}
	if snap.Percent != 0 {
		t.Errorf("Expected percent 0 for unknown duration, got %f", snap.Percent)
	}
	if snap.CurrentTime != 10000 {
		t.Errorf("Expected currentTime 10000 (unclamped), got %d", snap.CurrentTime)
	}
}

func TestExplicitCompleteSignal(t *testing.T) {
	rec := &eventRecorder{}
	s := newTestSession(0, rec)
	s.Play()
	tickN(s, 50)

	s.Complete()
	s.Complete() // idempotent

	snap := s.Snapshot()
	if !snap.Completed || snap.Status != StatusCompleted {
		t.Error("Explicit complete did not finish the session")
	}
	if rec.completed != 1 {
		t.Errorf("Expected exactly one completion event, got %d", rec.completed)
	}
}

func TestRestartResetsState(t *testing.T) {
	rec := &eventRecorder{}
	s := newTestSession(100, rec)
	s.Play()
	tickN(s, 100) // completes

	s.Restart()

	snap := s.Snapshot()
	if snap.CurrentTime != 0 || snap.Completed || snap.Reached80 || snap.Status != StatusIdle {
		t.Errorf("Restart did not reset: %+v", snap)
	}

	// Restart is idempotent
	s.Restart()
	if snap := s.Snapshot(); snap.CurrentTime != 0 || snap.Status != StatusIdle {
		t.Errorf("Second restart changed state: %+v", snap)
	}

	// The session can complete again after restart
	s.Play()
	tickN(s, 100)
	if rec.completed != 2 {
		t.Errorf("Expected a second completion after restart, got %d", rec.completed)
	}
}

func TestApplyStatusOverwrites(t *testing.T) {
	rec := &eventRecorder{}
	s := newTestSession(0, rec)

	s.ApplyStatus(StatusMessage{CurrentTime: 120, Duration: 300, PlayerState: 1})

	snap := s.Snapshot()
	if snap.CurrentTime != 120 {
		t.Errorf("Expected currentTime 120, got %d", snap.CurrentTime)
	}
	if snap.Duration != 300 {
		t.Errorf("Expected duration 300, got %d", snap.Duration)
	}
	if snap.Status != StatusPlaying {
		t.Errorf("Expected status playing, got %s", snap.Status)
	}
	if len(rec.learned) != 1 || rec.learned[0] != 300 {
		t.Errorf("Expected duration learned event for 300, got %v", rec.learned)
	}

	// A duplicate of an earlier message rewinds; last value wins
	s.ApplyStatus(StatusMessage{CurrentTime: 60, Duration: 300, PlayerState: 2})
	snap = s.Snapshot()
	if snap.CurrentTime != 60 {
		t.Errorf("Expected overwrite to 60, got %d", snap.CurrentTime)
	}
	if snap.Status != StatusPaused {
		t.Errorf("Expected status paused when player stops, got %s", snap.Status)
	}
}

func TestApplyStatusDiscardsMalformed(t *testing.T) {
	rec := &eventRecorder{}
	s := newTestSession(300, rec)
	s.ApplyStatus(StatusMessage{CurrentTime: 100, Duration: 300, PlayerState: 1})

	malformed := []StatusMessage{
		{CurrentTime: -5, Duration: 300, PlayerState: 1},
		{CurrentTime: 100, Duration: -1, PlayerState: 1},
		{CurrentTime: math.NaN(), Duration: 300, PlayerState: 1},
		{CurrentTime: 100, Duration: math.Inf(1), PlayerState: 1},
	}

	for _, msg := range malformed {
		s.ApplyStatus(msg)
	}

	snap := s.Snapshot()
	if snap.CurrentTime != 100 || snap.Duration != 300 {
		t.Errorf("Malformed message mutated state: %+v", snap)
	}
}

func TestApplyStatusCompletes(t *testing.T) {
	rec := &eventRecorder{}
	s := newTestSession(0, rec)

	s.ApplyStatus(StatusMessage{CurrentTime: 300, Duration: 300, PlayerState: 2})

	if !s.Snapshot().Completed {
		t.Error("Status message at full duration did not complete")
	}
	if rec.completed != 1 {
		t.Errorf("Expected one completion event, got %d", rec.completed)
	}

	// Messages after completion are ignored
	s.ApplyStatus(StatusMessage{CurrentTime: 10, Duration: 300, PlayerState: 1})
	if got := s.Snapshot().CurrentTime; got != 300 {
		t.Errorf("Message after completion mutated state: %d", got)
	}
}

func TestCloseStopsEverything(t *testing.T) {
	rec := &eventRecorder{}
	s := newTestSession(300, rec)
	s.Play()
	tickN(s, 10)

	s.Close()

	tickN(s, 50)
	s.ApplyStatus(StatusMessage{CurrentTime: 200, Duration: 300, PlayerState: 1})

	if got := s.Snapshot().CurrentTime; got != 10 {
		t.Errorf("State mutated after close: %d", got)
	}
}
