package player

import (
	"math"
	"sync"

	"github.com/google/uuid"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusPlaying   Status = "playing"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// CompletionPercent is the watch percentage at which a video counts as
// complete. ReachedPercent only drives the "still watching" hint and never
// completes anything.
const (
	CompletionPercent = 100.0
	ReachedPercent    = 80.0
)

const defaultAutosaveEvery = 10

// Events are fired synchronously from state transitions, after the session
// lock is released. Receivers that do I/O should hand off to a goroutine.
type Events struct {
	OnProgress        func(videoID uuid.UUID, percent float64)
	OnAutosave        func(videoID uuid.UUID, watchedSeconds int, completed bool)
	OnCompleted       func(videoID uuid.UUID, watchedSeconds int)
	OnDurationLearned func(videoID uuid.UUID, durationSeconds int)
}

// Session is the finite-state record for one viewing of one video. All
// mutation goes through Play/Pause/Tick/ApplyStatus/Complete/Restart/Close;
// the one-way flags (reached80, completed) are never written anywhere else.
type Session struct {
	mu      sync.Mutex
	userID  uuid.UUID
	videoID uuid.UUID

	currentTime int
	duration    int
	status      Status
	reached80   bool
	completed   bool
	closed      bool

	autosaveEvery int
	events        Events
	source        Source
}

// Snapshot is a read-only copy of session state for API responses.
type Snapshot struct {
	VideoID     uuid.UUID `json:"video_id"`
	CurrentTime int       `json:"current_time"`
	Duration    int       `json:"duration"`
	Percent     float64   `json:"percent"`
	Status      Status    `json:"status"`
	Reached80   bool      `json:"reached_80"`
	Completed   bool      `json:"completed"`
}

// NewSession starts in Idle with the duration known so far (0 = unknown).
func NewSession(userID, videoID uuid.UUID, durationSeconds int, events Events) *Session {
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	return &Session{
		userID:        userID,
		videoID:       videoID,
		duration:      durationSeconds,
		status:        StatusIdle,
		autosaveEvery: defaultAutosaveEvery,
		events:        events,
	}
}

// SetSource attaches the playback time source. Exactly one source drives a
// session for its whole lifetime.
func (s *Session) SetSource(src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = src
}

// SetAutosaveEvery overrides the persistence cadence (seconds of watched
// time between autosaves). Used by tests and config.
func (s *Session) SetAutosaveEvery(seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seconds > 0 {
		s.autosaveEvery = seconds
	}
}

// Resume seeds a fresh session from persisted progress. It only applies
// before any playback has happened; no events fire, so a video completed in
// an earlier session reopens terminal without notifying again.
func (s *Session) Resume(watchedSeconds int, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusIdle || s.currentTime != 0 {
		return
	}
	if watchedSeconds < 0 {
		watchedSeconds = 0
	}
	s.currentTime = watchedSeconds
	if s.duration > 0 && s.currentTime > s.duration {
		s.currentTime = s.duration
	}
	if s.percentLocked() >= ReachedPercent {
		s.reached80 = true
	}
	if completed {
		s.completed = true
		s.status = StatusCompleted
	}
}

func (s *Session) UserID() uuid.UUID  { return s.userID }
func (s *Session) VideoID() uuid.UUID { return s.videoID }

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		VideoID:     s.videoID,
		CurrentTime: s.currentTime,
		Duration:    s.duration,
		Percent:     s.percentLocked(),
		Status:      s.status,
		Reached80:   s.reached80,
		Completed:   s.completed,
	}
}

// Play transitions Idle/Paused into Playing. Completed is terminal, so Play
// on a completed session is a no-op; Restart is the only way out.
func (s *Session) Play() {
	s.mu.Lock()
	if s.closed || s.status == StatusCompleted || s.status == StatusPlaying {
		s.mu.Unlock()
		return
	}
	s.status = StatusPlaying
	src := s.source
	s.mu.Unlock()

	if src != nil {
		src.Start()
	}
}

func (s *Session) Pause() {
	s.mu.Lock()
	if s.closed || s.status != StatusPlaying {
		s.mu.Unlock()
		return
	}
	s.status = StatusPaused
	src := s.source
	s.mu.Unlock()

	if src != nil {
		src.Stop()
	}
}

// Tick is the one-second transition. A tick that lands after Pause, Restart
// or Close finds the session no longer Playing and does nothing, so a stale
// timer fire can never mutate state.
func (s *Session) Tick() {
	s.mu.Lock()
	if s.closed || s.status != StatusPlaying {
		s.mu.Unlock()
		return
	}

	s.currentTime++
	if s.duration > 0 && s.currentTime > s.duration {
		s.currentTime = s.duration
	}

	fire := s.evaluateLocked()
	s.mu.Unlock()

	s.fire(fire)
}

// StatusMessage is one asynchronous report from an external player. Values
// are overwrites, not deltas: out-of-order or duplicate messages resolve to
// last value wins.
type StatusMessage struct {
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	PlayerState int     `json:"player_state"` // 1 = playing, anything else = not playing
}

// ApplyStatus overwrites session state from an external player message.
// Negative or non-finite values make the whole message a no-op.
func (s *Session) ApplyStatus(msg StatusMessage) {
	if msg.CurrentTime < 0 || msg.Duration < 0 ||
		math.IsNaN(msg.CurrentTime) || math.IsNaN(msg.Duration) ||
		math.IsInf(msg.CurrentTime, 0) || math.IsInf(msg.Duration, 0) {
		return
	}

	s.mu.Lock()
	if s.closed || s.status == StatusCompleted {
		s.mu.Unlock()
		return
	}

	var learned int
	if d := int(msg.Duration); d > 0 && d != s.duration {
		if s.duration == 0 {
			learned = d
		}
		s.duration = d
	}

	s.currentTime = int(msg.CurrentTime)
	if s.duration > 0 && s.currentTime > s.duration {
		s.currentTime = s.duration
	}

	if msg.PlayerState == 1 {
		s.status = StatusPlaying
	} else if s.status == StatusPlaying {
		s.status = StatusPaused
	}

	fire := s.evaluateLocked()
	s.mu.Unlock()

	if learned > 0 && s.events.OnDurationLearned != nil {
		s.events.OnDurationLearned(s.videoID, learned)
	}
	s.fire(fire)
}

// Complete forces completion from an explicit host signal. This is the only
// completion path for videos whose duration is unknown.
func (s *Session) Complete() {
	s.mu.Lock()
	if s.closed || s.completed {
		s.mu.Unlock()
		return
	}
	s.completed = true
	s.status = StatusCompleted
	watched := s.currentTime
	src := s.source
	s.mu.Unlock()

	if src != nil {
		src.Stop()
	}
	if s.events.OnCompleted != nil {
		s.events.OnCompleted(s.videoID, watched)
	}
}

// Restart stops the source synchronously and resets the session to Idle.
// Calling it twice in a row leaves the same state as calling it once.
func (s *Session) Restart() {
	s.mu.Lock()
	src := s.source
	s.currentTime = 0
	s.reached80 = false
	s.completed = false
	s.status = StatusIdle
	s.mu.Unlock()

	if src != nil {
		src.Stop()
	}
}

// Close tears the session down. No event fires and no tick applies after it
// returns.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	src := s.source
	s.mu.Unlock()

	if src != nil {
		src.Stop()
	}
}

type pendingEvents struct {
	progress   bool
	percent    float64
	autosave   bool
	watchedSec int
	saveDone   bool
	completed  bool
}

// evaluateLocked runs threshold checks after currentTime/duration moved.
// Caller holds s.mu.
func (s *Session) evaluateLocked() pendingEvents {
	percent := s.percentLocked()

	fire := pendingEvents{progress: true, percent: percent, watchedSec: s.currentTime}

	if s.autosaveEvery > 0 && s.currentTime > 0 && s.currentTime%s.autosaveEvery == 0 {
		fire.autosave = true
		fire.saveDone = percent >= CompletionPercent
	}

	if percent >= ReachedPercent && !s.reached80 {
		s.reached80 = true
	}

	if percent >= CompletionPercent && !s.completed {
		s.completed = true
		s.status = StatusCompleted
		fire.completed = true
	}

	return fire
}

func (s *Session) percentLocked() float64 {
	if s.duration <= 0 {
		return 0
	}
	pct := float64(s.currentTime) / float64(s.duration) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

func (s *Session) fire(fire pendingEvents) {
	if fire.progress && s.events.OnProgress != nil {
		s.events.OnProgress(s.videoID, fire.percent)
	}
	if fire.autosave && s.events.OnAutosave != nil {
		s.events.OnAutosave(s.videoID, fire.watchedSec, fire.saveDone)
	}
	if fire.completed {
		if src := s.source; src != nil {
			src.Stop()
		}
		if s.events.OnCompleted != nil {
			s.events.OnCompleted(s.videoID, fire.watchedSec)
		}
	}
}
