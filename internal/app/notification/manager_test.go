package notification

import (
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStream struct {
	mu     sync.Mutex
	events []Event
	err    error
	delay  time.Duration
}

func (s *recordingStream) Send(e *Event) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, *e)
	return nil
}

func (s *recordingStream) received() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func TestManager_BroadcastAssignsSequence(t *testing.T) {
	m := NewManager()
	a, b := &recordingStream{}, &recordingStream{}
	m.Subscribe(a)
	m.Subscribe(b)

	m.Broadcast(Event{Type: EventTrackGenerated, TrackID: "trk_1"})
	m.Broadcast(Event{Type: EventPlaylistCreated, PlaylistID: "pl_1"})

	for _, s := range []*recordingStream{a, b} {
		got := s.received()
		require.Len(t, got, 2)
		assert.Equal(t, uint64(1), got[0].SequenceNo)
		assert.Equal(t, EventTrackGenerated, got[0].Type)
		assert.False(t, got[0].OccurredAt.IsZero())
		assert.Equal(t, uint64(2), got[1].SequenceNo)
		assert.Equal(t, "pl_1", got[1].PlaylistID)
	}
}

func TestManager_Unsubscribe(t *testing.T) {
	m := NewManager()
	s := &recordingStream{}
	id := m.Subscribe(s)
	assert.Equal(t, 1, m.SubscriberCount())

	m.Unsubscribe(id)
	m.Broadcast(Event{Type: EventPlaylistDeleted})

	assert.Equal(t, 0, m.SubscriberCount())
	assert.Empty(t, s.received())
}

func TestManager_FailingSubscriberIsDropped(t *testing.T) {
	m := NewManager()
	bad := &recordingStream{err: errors.New("stream closed")}
	good := &recordingStream{}
	m.Subscribe(bad)
	m.Subscribe(good)

	m.Broadcast(Event{Type: EventTrackGenerated})

	assert.Equal(t, 1, m.SubscriberCount())
	assert.Len(t, good.received(), 1)
}

func TestManager_SlowSubscriberDoesNotBlock(t *testing.T) {
	m := NewManager()
	m.sendTimeout = 20 * time.Millisecond
	m.Subscribe(&recordingStream{delay: 300 * time.Millisecond})
	fast := &recordingStream{}
	m.Subscribe(fast)

	start := time.Now()
	m.Broadcast(Event{Type: EventTrackGenerated})

	assert.Less(t, time.Since(start), 250*time.Millisecond)
	assert.Len(t, fast.received(), 1)
	assert.Equal(t, 2, m.SubscriberCount())
}

func TestManager_Close(t *testing.T) {
	m := NewManager()
	m.Subscribe(&recordingStream{})

	select {
	case <-m.Done():
		t.Fatal("done closed before Close")
	default:
	}

	m.Close()
	assert.Equal(t, 0, m.SubscriberCount())

	select {
	case <-m.Done():
	default:
		t.Fatal("done not closed after Close")
	}
	assert.NotPanics(t, m.Close)
}
