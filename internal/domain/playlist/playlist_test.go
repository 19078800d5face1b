package playlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlaylist_Summary(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := &Playlist{
		ID:        "pl_1",
		Name:      "Focus",
		Tracks:    []string{"trk_a", "trk_b", "trk_a"},
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}

	assert.Equal(t, Summary{ID: "pl_1", Name: "Focus", TrackCount: 3, CreatedAt: created}, p.Summary())
}

func TestPlaylist_RemoveFirst(t *testing.T) {
	tests := []struct {
		name     string
		tracks   []string
		remove   string
		removed  bool
		expected []string
	}{
		{
			name:     "removes only first occurrence",
			tracks:   []string{"a", "b", "a"},
			remove:   "a",
			removed:  true,
			expected: []string{"b", "a"},
		},
		{
			name:     "missing id is a no-op",
			tracks:   []string{"a", "b"},
			remove:   "c",
			removed:  false,
			expected: []string{"a", "b"},
		},
		{
			name:     "last element",
			tracks:   []string{"a"},
			remove:   "a",
			removed:  true,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Playlist{Tracks: tt.tracks}
			assert.Equal(t, tt.removed, p.RemoveFirst(tt.remove))
			assert.Equal(t, tt.expected, p.Tracks)
		})
	}
}

func TestPlaylist_IsPermutation(t *testing.T) {
	tests := []struct {
		name     string
		tracks   []string
		ordered  []string
		expected bool
	}{
		{name: "same order", tracks: []string{"a", "b"}, ordered: []string{"a", "b"}, expected: true},
		{name: "reversed", tracks: []string{"a", "b", "c"}, ordered: []string{"c", "b", "a"}, expected: true},
		{name: "duplicates preserved", tracks: []string{"a", "a", "b"}, ordered: []string{"a", "b", "a"}, expected: true},
		{name: "duplicate count differs", tracks: []string{"a", "a", "b"}, ordered: []string{"a", "b", "b"}, expected: false},
		{name: "missing id", tracks: []string{"a", "b"}, ordered: []string{"a"}, expected: false},
		{name: "extra id", tracks: []string{"a"}, ordered: []string{"a", "x"}, expected: false},
		{name: "foreign id", tracks: []string{"a", "b"}, ordered: []string{"a", "x"}, expected: false},
		{name: "both empty", tracks: []string{}, ordered: []string{}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Playlist{Tracks: tt.tracks}
			assert.Equal(t, tt.expected, p.IsPermutation(tt.ordered))
		})
	}
}

func TestPlaylist_CloneDetachesTracks(t *testing.T) {
	p := Playlist{ID: "pl_1", Tracks: []string{"a", "b"}}

	c := p.Clone()
	c.Tracks[0] = "z"

	assert.Equal(t, []string{"a", "b"}, p.Tracks)
	assert.True(t, p.Contains("a"))
	assert.False(t, p.Contains("z"))
}
