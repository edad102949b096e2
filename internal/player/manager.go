package player

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"certify-backend/internal/models"
)

var (
	ErrNoActiveSession = errors.New("player: no active session")
	ErrVideoMismatch   = errors.New("player: session is for a different video")
)

const SourceLocal = "local"
const SourceExternal = "external"

// ProgressStore is the persistence collaborator. Writes are fire-and-forget:
// a failed write is logged and never retried here, and the in-memory state
// machine keeps advancing regardless. LoadProgress is the one read; it runs
// only while opening a session and returns zero values for a first viewing.
type ProgressStore interface {
	LoadProgress(ctx context.Context, userID, videoID uuid.UUID) (watchedSeconds int, completed bool, err error)
	UpsertProgress(ctx context.Context, userID, videoID uuid.UUID, watchedSeconds int, completed bool) error
	AddWatchMinutes(ctx context.Context, userID, videoID uuid.UUID, minutes int) error
	UpdateVideoDuration(ctx context.Context, videoID uuid.UUID, durationSeconds int) error
}

// Notifier is the notification sink, called once per video completion.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message string) error
}

// CompletionTracker receives the false→true completion flip so course-level
// aggregation can run.
type CompletionTracker interface {
	VideoCompleted(ctx context.Context, userID, videoID uuid.UUID)
}

// Publisher pushes the two client-visible sampler events to connected
// clients. May be nil.
type Publisher interface {
	ProgressChanged(userID, videoID uuid.UUID, percent float64)
	VideoCompleted(userID, videoID uuid.UUID)
}

// Manager owns at most one session per user. Opening a new video closes the
// previous session, so a torn-down player can never leak a ticking timer.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*managed

	tickInterval  time.Duration
	autosaveEvery int

	store     ProgressStore
	notifier  Notifier
	tracker   CompletionTracker
	publisher Publisher
}

type managed struct {
	session  *Session
	external *ExternalPlayerSource // nil for local-clock sessions
}

func NewManager(tickInterval time.Duration, autosaveEvery int, store ProgressStore, notifier Notifier, tracker CompletionTracker, publisher Publisher) *Manager {
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	if autosaveEvery <= 0 {
		autosaveEvery = defaultAutosaveEvery
	}
	return &Manager{
		sessions:      make(map[uuid.UUID]*managed),
		tickInterval:  tickInterval,
		autosaveEvery: autosaveEvery,
		store:         store,
		notifier:      notifier,
		tracker:       tracker,
		publisher:     publisher,
	}
}

// Open starts a viewing session for the given video, replacing any session
// the user already has open. sourceKind selects the sampling strategy for
// the whole session. Persisted progress seeds the new session, so a reopened
// video resumes where the last autosave left it.
func (m *Manager) Open(ctx context.Context, userID uuid.UUID, video *models.Video, sourceKind string) (Snapshot, error) {
	if sourceKind != SourceLocal && sourceKind != SourceExternal {
		return Snapshot{}, errors.New("player: unknown source kind " + sourceKind)
	}

	session := NewSession(userID, video.ID, video.DurationSeconds, m.events(userID, video.Title))
	session.SetAutosaveEvery(m.autosaveEvery)

	if m.store != nil {
		watched, completed, err := m.store.LoadProgress(ctx, userID, video.ID)
		if err != nil {
			log.Printf("progress load failed for user %s video %s: %v", userID, video.ID, err)
		} else {
			session.Resume(watched, completed)
		}
	}

	entry := &managed{session: session}
	if sourceKind == SourceExternal {
		entry.external = NewExternalPlayerSource(session)
		session.SetSource(entry.external)
	} else {
		session.SetSource(NewLocalClockSource(m.tickInterval, session.Tick))
	}

	m.mu.Lock()
	prev := m.sessions[userID]
	m.sessions[userID] = entry
	m.mu.Unlock()

	if prev != nil {
		prev.session.Close()
	}

	return session.Snapshot(), nil
}

func (m *Manager) Play(userID, videoID uuid.UUID) (Snapshot, error) {
	entry, err := m.lookup(userID, videoID)
	if err != nil {
		return Snapshot{}, err
	}
	entry.session.Play()
	return entry.session.Snapshot(), nil
}

func (m *Manager) Pause(userID, videoID uuid.UUID) (Snapshot, error) {
	entry, err := m.lookup(userID, videoID)
	if err != nil {
		return Snapshot{}, err
	}
	entry.session.Pause()
	return entry.session.Snapshot(), nil
}

func (m *Manager) Restart(userID, videoID uuid.UUID) (Snapshot, error) {
	entry, err := m.lookup(userID, videoID)
	if err != nil {
		return Snapshot{}, err
	}
	entry.session.Restart()
	return entry.session.Snapshot(), nil
}

// Complete applies an explicit completion signal from the host player.
func (m *Manager) Complete(userID, videoID uuid.UUID) (Snapshot, error) {
	entry, err := m.lookup(userID, videoID)
	if err != nil {
		return Snapshot{}, err
	}
	entry.session.Complete()
	return entry.session.Snapshot(), nil
}

// Deliver routes an external player status message to the user's session.
func (m *Manager) Deliver(userID, videoID uuid.UUID, msg StatusMessage) (Snapshot, error) {
	entry, err := m.lookup(userID, videoID)
	if err != nil {
		return Snapshot{}, err
	}
	if entry.external == nil {
		return Snapshot{}, errors.New("player: session is driven by the local clock")
	}
	entry.external.Deliver(msg)
	return entry.session.Snapshot(), nil
}

func (m *Manager) Status(userID, videoID uuid.UUID) (Snapshot, error) {
	entry, err := m.lookup(userID, videoID)
	if err != nil {
		return Snapshot{}, err
	}
	return entry.session.Snapshot(), nil
}

// Close ends the user's session for the given video.
func (m *Manager) Close(userID, videoID uuid.UUID) error {
	m.mu.Lock()
	entry, ok := m.sessions[userID]
	if ok && entry.session.VideoID() == videoID {
		delete(m.sessions, userID)
	} else {
		entry = nil
	}
	m.mu.Unlock()

	if entry == nil {
		return ErrNoActiveSession
	}
	entry.session.Close()
	return nil
}

// CloseAll cancels every active session; used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	entries := make([]*managed, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.sessions = make(map[uuid.UUID]*managed)
	m.mu.Unlock()

	for _, e := range entries {
		e.session.Close()
	}
}

func (m *Manager) lookup(userID, videoID uuid.UUID) (*managed, error) {
	m.mu.Lock()
	entry, ok := m.sessions[userID]
	m.mu.Unlock()

	if !ok {
		return nil, ErrNoActiveSession
	}
	if entry.session.VideoID() != videoID {
		return nil, ErrVideoMismatch
	}
	return entry, nil
}

func (m *Manager) events(userID uuid.UUID, videoTitle string) Events {
	return Events{
		OnProgress: func(videoID uuid.UUID, percent float64) {
			if m.publisher != nil {
				// Publishing goes over the network; a slow broker must
				// never hold up the tick that fired this.
				go m.publisher.ProgressChanged(userID, videoID, percent)
			}
		},
		OnAutosave: func(videoID uuid.UUID, watchedSeconds int, completed bool) {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := m.store.UpsertProgress(ctx, userID, videoID, watchedSeconds, completed); err != nil {
					log.Printf("autosave failed for user %s video %s: %v", userID, videoID, err)
				}
				if watchedSeconds%60 == 0 {
					if err := m.store.AddWatchMinutes(ctx, userID, videoID, 1); err != nil {
						log.Printf("watch stats update failed for user %s video %s: %v", userID, videoID, err)
					}
				}
			}()
		},
		OnCompleted: func(videoID uuid.UUID, watchedSeconds int) {
			if m.publisher != nil {
				go m.publisher.VideoCompleted(userID, videoID)
			}
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := m.store.UpsertProgress(ctx, userID, videoID, watchedSeconds, true); err != nil {
					log.Printf("completion write failed for user %s video %s: %v", userID, videoID, err)
				}
				if m.notifier != nil {
					if err := m.notifier.Notify(ctx, userID, "Video completed", "You finished watching \""+videoTitle+"\""); err != nil {
						log.Printf("completion notification failed for user %s: %v", userID, err)
					}
				}
				if m.tracker != nil {
					m.tracker.VideoCompleted(ctx, userID, videoID)
				}
			}()
		},
		OnDurationLearned: func(videoID uuid.UUID, durationSeconds int) {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := m.store.UpdateVideoDuration(ctx, videoID, durationSeconds); err != nil {
					log.Printf("duration update failed for video %s: %v", videoID, err)
				}
			}()
		},
	}
}
