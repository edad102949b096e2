package player

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"certify-backend/internal/models"
)

type fakeStore struct {
	upserts   chan upsertCall
	minutes   chan int
	durations chan int

	savedSeconds   int
	savedCompleted bool
}

type upsertCall struct {
	watchedSeconds int
	completed      bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		upserts:   make(chan upsertCall, 100),
		minutes:   make(chan int, 100),
		durations: make(chan int, 100),
	}
}

func (f *fakeStore) LoadProgress(_ context.Context, _, _ uuid.UUID) (int, bool, error) {
	return f.savedSeconds, f.savedCompleted, nil
}

func (f *fakeStore) UpsertProgress(_ context.Context, _, _ uuid.UUID, watchedSeconds int, completed bool) error {
	f.upserts <- upsertCall{watchedSeconds, completed}
	return nil
}

func (f *fakeStore) AddWatchMinutes(_ context.Context, _, _ uuid.UUID, minutes int) error {
	f.minutes <- minutes
	return nil
}

func (f *fakeStore) UpdateVideoDuration(_ context.Context, _ uuid.UUID, durationSeconds int) error {
	f.durations <- durationSeconds
	return nil
}

type fakeNotifier struct {
	titles chan string
}

func (f *fakeNotifier) Notify(_ context.Context, _ uuid.UUID, title, _ string) error {
	f.titles <- title
	return nil
}

type fakeTracker struct {
	videos chan uuid.UUID
}

func (f *fakeTracker) VideoCompleted(_ context.Context, _, videoID uuid.UUID) {
	f.videos <- videoID
}

func testManager(store ProgressStore, notifier Notifier, tracker CompletionTracker) *Manager {
	return NewManager(time.Millisecond, 10, store, notifier, tracker, nil)
}

func testVideo(duration int) *models.Video {
	return &models.Video{ID: uuid.New(), Title: "Intro", DurationSeconds: duration}
}

func waitUpsert(t *testing.T, store *fakeStore, wantCompleted bool) upsertCall {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case call := <-store.upserts:
			if call.completed == wantCompleted {
				return call
			}
		case <-deadline:
			t.Fatalf("Timed out waiting for upsert (completed=%v)", wantCompleted)
		}
	}
}

func TestOpenRejectsUnknownSource(t *testing.T) {
	m := testManager(newFakeStore(), nil, nil)

	if _, err := m.Open(context.Background(), uuid.New(), testVideo(300), "satellite"); err == nil {
		t.Error("Expected error for unknown source kind")
	}
}

func TestOpenReplacesPreviousSession(t *testing.T) {
	m := testManager(newFakeStore(), nil, nil)
	userID := uuid.New()
	first := testVideo(300)
	second := testVideo(300)

	if _, err := m.Open(context.Background(), userID, first, SourceExternal); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := m.Open(context.Background(), userID, second, SourceExternal); err != nil {
		t.Fatalf("Second open failed: %v", err)
	}

	if _, err := m.Status(userID, first.ID); err != ErrVideoMismatch {
		t.Errorf("Expected ErrVideoMismatch for replaced session, got %v", err)
	}
	if _, err := m.Status(userID, second.ID); err != nil {
		t.Errorf("Expected active session for second video, got %v", err)
	}
}

func TestDeliverRequiresExternalSource(t *testing.T) {
	m := testManager(newFakeStore(), nil, nil)
	userID := uuid.New()
	video := testVideo(300)

	m.Open(context.Background(), userID, video, SourceLocal)

	if _, err := m.Deliver(userID, video.ID, StatusMessage{CurrentTime: 10, Duration: 300}); err == nil {
		t.Error("Expected error delivering to a local-clock session")
	}
}

func TestNoSessionErrors(t *testing.T) {
	m := testManager(newFakeStore(), nil, nil)

	if _, err := m.Play(uuid.New(), uuid.New()); err != ErrNoActiveSession {
		t.Errorf("Expected ErrNoActiveSession, got %v", err)
	}
	if err := m.Close(uuid.New(), uuid.New()); err != ErrNoActiveSession {
		t.Errorf("Expected ErrNoActiveSession on close, got %v", err)
	}
}

func TestCompletionPipeline(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{titles: make(chan string, 10)}
	tracker := &fakeTracker{videos: make(chan uuid.UUID, 10)}
	m := testManager(store, notifier, tracker)

	userID := uuid.New()
	video := testVideo(300)
	m.Open(context.Background(), userID, video, SourceExternal)

	snap, err := m.Deliver(userID, video.ID, StatusMessage{CurrentTime: 300, Duration: 300, PlayerState: 1})
	if err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}
	if !snap.Completed {
		t.Fatal("Snapshot not completed at full duration")
	}

	call := waitUpsert(t, store, true)
	if call.watchedSeconds != 300 {
		t.Errorf("Completion upsert watchedSeconds: expected 300, got %d", call.watchedSeconds)
	}

	select {
	case title := <-notifier.titles:
		if title != "Video completed" {
			t.Errorf("Unexpected notification title %q", title)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for completion notification")
	}

	select {
	case got := <-tracker.videos:
		if got != video.ID {
			t.Errorf("Tracker called with wrong video: %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for tracker call")
	}
}

func TestAutosavePersists(t *testing.T) {
	store := newFakeStore()
	m := testManager(store, nil, nil)

	userID := uuid.New()
	video := testVideo(300)
	m.Open(context.Background(), userID, video, SourceExternal)

	m.Deliver(userID, video.ID, StatusMessage{CurrentTime: 30, Duration: 300, PlayerState: 1})

	call := waitUpsert(t, store, false)
	if call.watchedSeconds != 30 {
		t.Errorf("Autosave watchedSeconds: expected 30, got %d", call.watchedSeconds)
	}
}

func TestDurationLearnedPersists(t *testing.T) {
	store := newFakeStore()
	m := testManager(store, nil, nil)

	userID := uuid.New()
	video := testVideo(0)
	m.Open(context.Background(), userID, video, SourceExternal)

	m.Deliver(userID, video.ID, StatusMessage{CurrentTime: 5, Duration: 212, PlayerState: 1})

	select {
	case d := <-store.durations:
		if d != 212 {
			t.Errorf("Expected learned duration 212, got %d", d)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for duration update")
	}
}

func TestLocalClockDrivesSession(t *testing.T) {
	store := newFakeStore()
	m := testManager(store, nil, nil)

	userID := uuid.New()
	video := testVideo(3)
	m.Open(context.Background(), userID, video, SourceLocal)

	if _, err := m.Play(userID, video.ID); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := m.Status(userID, video.ID)
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if snap.Completed {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Local clock session never completed")
}

// slowPublisher simulates a broker that takes far longer than a tick
// interval to accept an event.
type slowPublisher struct {
	delay time.Duration
}

func (p *slowPublisher) ProgressChanged(_, _ uuid.UUID, _ float64) { time.Sleep(p.delay) }
func (p *slowPublisher) VideoCompleted(_, _ uuid.UUID)             { time.Sleep(p.delay) }

func TestSlowPublisherDoesNotStallTicks(t *testing.T) {
	store := newFakeStore()
	m := NewManager(time.Millisecond, 10, store, nil, nil, &slowPublisher{delay: 400 * time.Millisecond})

	userID := uuid.New()
	video := testVideo(600)
	m.Open(context.Background(), userID, video, SourceLocal)

	if _, err := m.Play(userID, video.ID); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	// If publishing blocked the tick path the session would advance roughly
	// one second per publisher delay instead of one per tick.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := m.Status(userID, video.ID)
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if snap.CurrentTime >= 20 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	snap, _ := m.Status(userID, video.ID)
	t.Fatalf("Tick loop stalled behind publisher: only %d seconds advanced", snap.CurrentTime)
}

func TestOpenResumesPersistedProgress(t *testing.T) {
	store := newFakeStore()
	store.savedSeconds = 120
	m := testManager(store, nil, nil)

	snap, err := m.Open(context.Background(), uuid.New(), testVideo(300), SourceExternal)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if snap.CurrentTime != 120 {
		t.Errorf("Expected resumed position 120, got %d", snap.CurrentTime)
	}
	if snap.Status != StatusIdle || snap.Completed {
		t.Errorf("Resumed session should be idle and incomplete, got %+v", snap)
	}
}

func TestOpenResumesCompletedVideoAsTerminal(t *testing.T) {
	store := newFakeStore()
	store.savedSeconds = 300
	store.savedCompleted = true
	notifier := &fakeNotifier{titles: make(chan string, 10)}
	m := testManager(store, notifier, nil)

	userID := uuid.New()
	video := testVideo(300)
	snap, err := m.Open(context.Background(), userID, video, SourceLocal)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !snap.Completed || snap.Status != StatusCompleted {
		t.Fatalf("Expected terminal session for completed video, got %+v", snap)
	}

	// Play is a no-op on a terminal session; reopening must not notify again.
	m.Play(userID, video.ID)
	select {
	case title := <-notifier.titles:
		t.Errorf("Unexpected notification %q on reopen", title)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseEndsSession(t *testing.T) {
	m := testManager(newFakeStore(), nil, nil)

	userID := uuid.New()
	video := testVideo(300)
	m.Open(context.Background(), userID, video, SourceExternal)

	if err := m.Close(userID, video.ID); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := m.Status(userID, video.ID); err != ErrNoActiveSession {
		t.Errorf("Expected ErrNoActiveSession after close, got %v", err)
	}
}
