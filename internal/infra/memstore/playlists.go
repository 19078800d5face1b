package memstore

import (
	"slices"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/beatify/beatify/internal/domain/playlist"
)

// PlaylistStore holds playlists in creation order with thread-safe access.
type PlaylistStore struct {
	mu        sync.RWMutex
	playlists map[string]playlist.Playlist
	order     []string
}

// NewPlaylistStore creates an empty playlist store.
func NewPlaylistStore() *PlaylistStore {
	return &PlaylistStore{
		playlists: make(map[string]playlist.Playlist),
	}
}

// Insert stores a new playlist.
func (s *PlaylistStore) Insert(p playlist.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[p.ID]; ok {
		return errors.Wrapf(ErrDuplicateID, "playlist %s", p.ID)
	}
	s.playlists[p.ID] = p.Clone()
	s.order = append(s.order, p.ID)
	return nil
}

// Get retrieves a playlist by ID.
func (s *PlaylistStore) Get(id string) (playlist.Playlist, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.playlists[id]
	if !ok {
		return playlist.Playlist{}, false
	}
	return p.Clone(), true
}

// Update replaces an existing playlist.
func (s *PlaylistStore) Update(p playlist.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[p.ID]; !ok {
		return errors.Wrapf(ErrNotFound, "playlist %s", p.ID)
	}
	s.playlists[p.ID] = p.Clone()
	return nil
}

// Delete removes a playlist and returns the removed record.
func (s *PlaylistStore) Delete(id string) (playlist.Playlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.playlists[id]
	if !ok {
		return playlist.Playlist{}, false
	}
	delete(s.playlists, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return p, true
}

// List returns all playlists in creation order.
func (s *PlaylistStore) List() []playlist.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]playlist.Playlist, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.playlists[id].Clone())
	}
	return result
}
