// Package memstore provides in-memory repositories for tracks and playlists.
// Contents are lost when the process exits.
package memstore

import (
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/beatify/beatify/internal/domain/track"
)

var (
	ErrDuplicateID = errors.New("id already exists")
	ErrNotFound    = errors.New("record not found")
)

// TrackStore holds tracks in insertion order with thread-safe access.
type TrackStore struct {
	mu     sync.RWMutex
	tracks map[string]track.Track
	order  []string
}

// NewTrackStore creates an empty track store.
func NewTrackStore() *TrackStore {
	return &TrackStore{
		tracks: make(map[string]track.Track),
	}
}

// Insert stores a new track. IDs are never reused.
func (s *TrackStore) Insert(t track.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tracks[t.ID]; ok {
		return errors.Wrapf(ErrDuplicateID, "track %s", t.ID)
	}
	s.tracks[t.ID] = t.Clone()
	s.order = append(s.order, t.ID)
	return nil
}

// Get retrieves a track by ID.
func (s *TrackStore) Get(id string) (track.Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tracks[id]
	if !ok {
		return track.Track{}, false
	}
	return t.Clone(), true
}

// Exists reports whether a track with the given ID is stored.
func (s *TrackStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tracks[id]
	return ok
}

// List returns all tracks in insertion order.
func (s *TrackStore) List() []track.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]track.Track, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.tracks[id].Clone())
	}
	return result
}

// Count returns the number of stored tracks.
func (s *TrackStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}
