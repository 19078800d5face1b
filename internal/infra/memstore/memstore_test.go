package memstore

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatify/beatify/internal/domain/playlist"
	"github.com/beatify/beatify/internal/domain/track"
)

func TestTrackStore_InsertGetList(t *testing.T) {
	s := NewTrackStore()
	verse := "hello"

	require.NoError(t, s.Insert(track.Track{ID: "trk_b", Title: "B", Lyrics: &verse}))
	require.NoError(t, s.Insert(track.Track{ID: "trk_a", Title: "A"}))

	got, ok := s.Get("trk_b")
	require.True(t, ok)
	assert.Equal(t, "B", got.Title)

	// returned copies do not alias stored data
	*got.Lyrics = "changed"
	again, _ := s.Get("trk_b")
	assert.Equal(t, "hello", *again.Lyrics)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "trk_b", list[0].ID)
	assert.Equal(t, "trk_a", list[1].ID)
	assert.Equal(t, 2, s.Count())
	assert.True(t, s.Exists("trk_a"))
	assert.False(t, s.Exists("trk_z"))

	_, ok = s.Get("trk_z")
	assert.False(t, ok)
}

func TestTrackStore_RejectsDuplicateID(t *testing.T) {
	s := NewTrackStore()
	require.NoError(t, s.Insert(track.Track{ID: "trk_1"}))

	err := s.Insert(track.Track{ID: "trk_1"})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, s.Count())
}

func TestTrackStore_ConcurrentInsert(t *testing.T) {
	s := NewTrackStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Insert(track.Track{ID: "trk_" + strconv.Itoa(i)})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, s.Count())
}

func TestPlaylistStore_Lifecycle(t *testing.T) {
	s := NewPlaylistStore()
	now := time.Now()

	require.NoError(t, s.Insert(playlist.Playlist{ID: "pl_1", Name: "One", Tracks: []string{"a"}, CreatedAt: now}))
	require.NoError(t, s.Insert(playlist.Playlist{ID: "pl_2", Name: "Two", CreatedAt: now}))
	assert.ErrorIs(t, s.Insert(playlist.Playlist{ID: "pl_1"}), ErrDuplicateID)

	p, ok := s.Get("pl_1")
	require.True(t, ok)
	p.Tracks = append(p.Tracks, "b")
	p.Name = "Uno"
	require.NoError(t, s.Update(p))

	p, _ = s.Get("pl_1")
	assert.Equal(t, "Uno", p.Name)
	assert.Equal(t, []string{"a", "b"}, p.Tracks)

	assert.ErrorIs(t, s.Update(playlist.Playlist{ID: "pl_9"}), ErrNotFound)

	deleted, ok := s.Delete("pl_1")
	require.True(t, ok)
	assert.Equal(t, "Uno", deleted.Name)

	_, ok = s.Delete("pl_1")
	assert.False(t, ok)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "pl_2", list[0].ID)
	assert.Equal(t, []string{}, list[0].Tracks)
}
