// Package audio attaches a playable audio URL to generated tracks.
package audio

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/beatify/beatify/internal/domain/track"
)

// ErrMissingCredential is returned by provider constructors when the
// provider's credential is not configured.
var ErrMissingCredential = errors.New("provider credential is not configured")

// Candidate is a playable recording found by a provider.
type Candidate struct {
	URL    string
	Format string
	Note   string
	Source track.Provenance
}

// Provider is the interface for remote audio sources.
type Provider interface {
	// Find looks up a recording matching the track's genre and mood.
	// Returns nil without error when nothing matches.
	Find(ctx context.Context, t track.Track) (*Candidate, error)

	// Name returns the provider name (used in config).
	Name() string
}

// searchQuery builds the free-text query for a track.
func searchQuery(t track.Track) string {
	switch {
	case t.Genre == "":
		return t.Mood
	case t.Mood == "":
		return t.Genre
	default:
		return t.Genre + " " + t.Mood
	}
}
