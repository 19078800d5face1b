// Package library manages generated tracks and user playlists.
package library

import (
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/beatify/beatify/internal/domain/playlist"
	"github.com/beatify/beatify/internal/domain/track"
)

var (
	ErrTrackNotFound      = errors.New("track not found")
	ErrPlaylistNotFound   = errors.New("playlist not found")
	ErrEmptyName          = errors.New("playlist name is required")
	ErrNoValidTracks      = errors.New("no valid tracks found")
	ErrTrackOrderMismatch = errors.New("track order must contain exactly the playlist's tracks")
)

const (
	trackIDPrefix    = "trk_"
	playlistIDPrefix = "pl_"
)

// TrackRepository stores tracks. Records are immutable once inserted.
type TrackRepository interface {
	Insert(t track.Track) error
	Get(id string) (track.Track, bool)
	Exists(id string) bool
	List() []track.Track
}

// PlaylistRepository stores playlists.
type PlaylistRepository interface {
	Insert(p playlist.Playlist) error
	Get(id string) (playlist.Playlist, bool)
	Update(p playlist.Playlist) error
	Delete(id string) (playlist.Playlist, bool)
	List() []playlist.Playlist
}

// Recorder is notified when the number of playlists changes.
type Recorder interface {
	SetPlaylistCount(n int)
}

// Store is the track and playlist service. Every operation is atomic.
type Store struct {
	mu        sync.Mutex
	tracks    TrackRepository
	playlists PlaylistRepository
	newID     func() string
	now       func() time.Time
	recorder  Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source for playlist timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the source of random ID bodies. Prefixes are added by the store.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithRecorder sets the playlist count recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// NewStore creates a store over the given repositories.
func NewStore(tracks TrackRepository, playlists PlaylistRepository, opts ...Option) *Store {
	s := &Store{
		tracks:    tracks,
		playlists: playlists,
		newID:     func() string { return uuid.New().String() },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutTrack stores a new track under a fresh ID and returns the ID.
// Any ID already on t is replaced.
func (s *Store) PutTrack(t track.Track) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = trackIDPrefix + s.newID()
	if err := s.tracks.Insert(t); err != nil {
		return "", errors.Wrap(err, "failed to store track")
	}
	return t.ID, nil
}

// GetTrack returns a stored track.
func (s *Store) GetTrack(id string) (track.Track, error) {
	t, ok := s.tracks.Get(id)
	if !ok {
		return track.Track{}, ErrTrackNotFound
	}
	return t, nil
}

// ListTracks returns summaries of all tracks in insertion order.
func (s *Store) ListTracks() []track.Summary {
	all := s.tracks.List()
	result := make([]track.Summary, 0, len(all))
	for i := range all {
		result = append(result, all[i].Summary())
	}
	return result
}

// CreatePlaylist creates a playlist from the known IDs in trackIDs.
// Unknown IDs are dropped; duplicates are kept.
func (s *Store) CreatePlaylist(name string, trackIDs []string) (playlist.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return playlist.Playlist{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	valid := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		if s.tracks.Exists(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return playlist.Playlist{}, ErrNoValidTracks
	}

	now := s.now()
	p := playlist.Playlist{
		ID:        playlistIDPrefix + s.newID(),
		Name:      name,
		Tracks:    valid,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.playlists.Insert(p); err != nil {
		return playlist.Playlist{}, errors.Wrap(err, "failed to store playlist")
	}
	s.recordCount()

	zlog.Info().Msgf("playlist created: id=%s name=%q tracks=%d dropped=%d", p.ID, p.Name, len(valid), len(trackIDs)-len(valid))
	return p.Clone(), nil
}

// ListPlaylists returns summaries of all playlists in creation order.
func (s *Store) ListPlaylists() []playlist.Summary {
	all := s.playlists.List()
	result := make([]playlist.Summary, 0, len(all))
	for i := range all {
		result = append(result, all[i].Summary())
	}
	return result
}

// GetPlaylist returns a playlist.
func (s *Store) GetPlaylist(id string) (playlist.Playlist, error) {
	p, ok := s.playlists.Get(id)
	if !ok {
		return playlist.Playlist{}, ErrPlaylistNotFound
	}
	return p, nil
}

// GetPlaylistWithTracks returns a playlist and its tracks in playlist order.
func (s *Store) GetPlaylistWithTracks(id string) (playlist.Playlist, []track.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.playlists.Get(id)
	if !ok {
		return playlist.Playlist{}, nil, ErrPlaylistNotFound
	}
	tracks := make([]track.Track, 0, len(p.Tracks))
	for _, tid := range p.Tracks {
		if t, ok := s.tracks.Get(tid); ok {
			tracks = append(tracks, t)
		}
	}
	return p, tracks, nil
}

// AddTracks appends the known IDs not already in the playlist.
// Returns the number added.
func (s *Store) AddTracks(id string, trackIDs []string) (int, playlist.Playlist, error) {
	return s.mutate(id, func(p *playlist.Playlist) (int, error) {
		added := 0
		for _, tid := range trackIDs {
			if !s.tracks.Exists(tid) || p.Contains(tid) {
				continue
			}
			p.Tracks = append(p.Tracks, tid)
			added++
		}
		if added > 0 {
			p.UpdatedAt = s.now()
		}
		return added, nil
	})
}

// RemoveTracks removes the first occurrence of each given ID.
// Returns the number removed.
func (s *Store) RemoveTracks(id string, trackIDs []string) (int, playlist.Playlist, error) {
	return s.mutate(id, func(p *playlist.Playlist) (int, error) {
		removed := 0
		for _, tid := range trackIDs {
			if p.RemoveFirst(tid) {
				removed++
			}
		}
		if removed > 0 {
			p.UpdatedAt = s.now()
		}
		return removed, nil
	})
}

// RenamePlaylist changes a playlist's name.
func (s *Store) RenamePlaylist(id, name string) (playlist.Playlist, error) {
	_, p, err := s.mutate(id, func(p *playlist.Playlist) (int, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return 0, ErrEmptyName
		}
		p.Name = name
		p.UpdatedAt = s.now()
		return 0, nil
	})
	return p, err
}

// ReorderTracks replaces the track order. ordered must be a permutation of
// the current tracks, duplicates included.
func (s *Store) ReorderTracks(id string, ordered []string) (playlist.Playlist, error) {
	_, p, err := s.mutate(id, func(p *playlist.Playlist) (int, error) {
		if !p.IsPermutation(ordered) {
			return 0, ErrTrackOrderMismatch
		}
		p.Tracks = append([]string{}, ordered...)
		p.UpdatedAt = s.now()
		return 0, nil
	})
	return p, err
}

// DeletePlaylist removes a playlist and returns the removed record.
func (s *Store) DeletePlaylist(id string) (playlist.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.playlists.Delete(id)
	if !ok {
		return playlist.Playlist{}, ErrPlaylistNotFound
	}
	s.recordCount()

	zlog.Info().Msgf("playlist deleted: id=%s name=%q", p.ID, p.Name)
	return p, nil
}

// mutate applies fn to a copy of the playlist and stores it when fn succeeds.
func (s *Store) mutate(id string, fn func(p *playlist.Playlist) (int, error)) (int, playlist.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.playlists.Get(id)
	if !ok {
		return 0, playlist.Playlist{}, ErrPlaylistNotFound
	}

	n, err := fn(&p)
	if err != nil {
		return 0, playlist.Playlist{}, err
	}
	if err := s.playlists.Update(p); err != nil {
		return 0, playlist.Playlist{}, errors.Wrap(err, "failed to update playlist")
	}
	return n, p.Clone(), nil
}

func (s *Store) recordCount() {
	if s.recorder != nil {
		s.recorder.SetPlaylistCount(len(s.playlists.List()))
	}
}
