// Package playlist provides the Playlist domain entity.
package playlist

import (
	"slices"
	"time"
)

// Playlist represents a user-curated ordered list of track IDs.
// Duplicates are allowed.
type Playlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Tracks    []string  `json:"tracks"` // Track IDs in play order
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is the listing view of a playlist.
type Summary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	TrackCount int       `json:"track_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Summary returns the listing view of the playlist.
func (p *Playlist) Summary() Summary {
	return Summary{
		ID:         p.ID,
		Name:       p.Name,
		TrackCount: len(p.Tracks),
		CreatedAt:  p.CreatedAt,
	}
}

// Contains reports whether the playlist holds the given track ID.
func (p *Playlist) Contains(trackID string) bool {
	return slices.Contains(p.Tracks, trackID)
}

// RemoveFirst removes the first occurrence of trackID.
// Returns false if the ID is not present.
func (p *Playlist) RemoveFirst(trackID string) bool {
	i := slices.Index(p.Tracks, trackID)
	if i < 0 {
		return false
	}
	p.Tracks = slices.Delete(p.Tracks, i, i+1)
	return true
}

// IsPermutation reports whether ordered holds exactly the playlist's
// track IDs with the same multiplicities.
func (p *Playlist) IsPermutation(ordered []string) bool {
	if len(ordered) != len(p.Tracks) {
		return false
	}
	counts := make(map[string]int, len(p.Tracks))
	for _, id := range p.Tracks {
		counts[id]++
	}
	for _, id := range ordered {
		counts[id]--
		if counts[id] < 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the playlist.
func (p Playlist) Clone() Playlist {
	p.Tracks = slices.Clone(p.Tracks)
	if p.Tracks == nil {
		p.Tracks = []string{}
	}
	return p
}
