// Package normalize turns a model's song description into a Track with defaults filled in.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/beatify/beatify/internal/app/describe"
	"github.com/beatify/beatify/internal/domain/track"
)

// Defaults applied to missing or empty fields.
const (
	DefaultLanguage = "English"
	DefaultGenre    = "Electronic"
	DefaultMood     = "energetic"
	DefaultStyle    = "modern electronic production"
	DefaultDuration = "1-2 minutes"
	DefaultAudioURL = "placeholder"
)

// InvalidShapeError is returned when the description lacks the track or metadata objects.
type InvalidShapeError struct {
	Reason string
}

func (e *InvalidShapeError) Error() string {
	return "Invalid response structure: " + e.Reason
}

// Normalizer fills defaults into model output.
type Normalizer struct {
	// DefaultModel is recorded when the description names no model.
	DefaultModel string
	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// New creates a normalizer.
func New(defaultModel string) *Normalizer {
	return &Normalizer{DefaultModel: defaultModel, Now: time.Now}
}

// Normalize builds a Track from the description. The keyword is always word.
func (n *Normalizer) Normalize(d describe.Description, word string) (track.Track, error) {
	root, ok := d.Raw.(map[string]any)
	if !ok {
		return track.Track{}, &InvalidShapeError{Reason: "expected a JSON object"}
	}
	t, ok := root["track"].(map[string]any)
	if !ok {
		return track.Track{}, &InvalidShapeError{Reason: "missing track object"}
	}
	meta, ok := root["metadata"].(map[string]any)
	if !ok {
		return track.Track{}, &InvalidShapeError{Reason: "missing metadata object"}
	}

	out := track.Track{
		Title:     stringOr(t, "title", word+" - Generated Track"),
		Language:  stringOr(t, "language", DefaultLanguage),
		Genre:     stringOr(t, "genre", DefaultGenre),
		Mood:      stringOr(t, "mood", DefaultMood),
		Style:     stringOr(t, "style", DefaultStyle),
		Lyrics:    lyrics(t["lyrics"]),
		Duration:  stringOr(t, "duration", DefaultDuration),
		AudioURL:  stringOr(t, "audio_url", DefaultAudioURL),
		Keyword:   word,
		Timestamp: stringOr(meta, "timestamp", ""),
		Model:     stringOr(meta, "model", n.DefaultModel),
	}
	if out.Timestamp == "" {
		out.Timestamp = n.now().UTC().Format(time.RFC3339)
	}

	return out, nil
}

func (n *Normalizer) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

// stringOr returns m[key] as a string, or def when it is absent or empty.
// Non-string scalars are formatted.
func stringOr(m map[string]any, key, def string) string {
	switch v := m[key].(type) {
	case nil:
		return def
	case string:
		if v == "" {
			return def
		}
		return v
	case float64, bool:
		return fmt.Sprint(v)
	default:
		return def
	}
}

func lyrics(v any) *string {
	switch l := v.(type) {
	case string:
		return &l
	case []any:
		// some models return verses as a list
		lines := make([]string, 0, len(l))
		for _, line := range l {
			lines = append(lines, fmt.Sprint(line))
		}
		s := strings.Join(lines, "\n")
		return &s
	default:
		return nil
	}
}
