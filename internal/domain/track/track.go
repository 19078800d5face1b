// Package track provides the Track domain entity.
package track

// Engine identifies how a track's audio URL was obtained.
type Engine string

const (
	EngineAPI         Engine = "api"
	EnginePlaceholder Engine = "placeholder"
)

// Track represents a generated song description enriched with audio.
// A stored track is never mutated.
type Track struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Language    string  `json:"language"`
	Genre       string  `json:"genre"`
	Mood        string  `json:"mood"`
	Style       string  `json:"style"`
	Lyrics      *string `json:"lyrics"` // nil when the model produced no lyrics
	Duration    string  `json:"duration"`
	AudioURL    string  `json:"audio_url"`
	AudioFormat string  `json:"audio_format,omitempty"`
	AudioEngine Engine  `json:"audio_engine,omitempty"`
	Keyword     string  `json:"keyword"`
	Timestamp   string  `json:"timestamp"` // ISO-8601
	Model       string  `json:"model"`
}

// Provenance describes the remote recording an audio URL points to.
type Provenance struct {
	Source      string  `json:"source"`
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Duration    float64 `json:"duration"` // seconds
	Contributor string  `json:"contributor"`
	PageURL     string  `json:"page_url,omitempty"`
}

// AudioInfo is the outcome of audio resolution for a track.
type AudioInfo struct {
	URL            string      `json:"url"`
	Format         string      `json:"format"`
	Engine         Engine      `json:"engine"`
	Note           string      `json:"note"`
	Source         *Provenance `json:"source,omitempty"`
	FallbackReason string      `json:"fallback_reason,omitempty"`
}

// Summary is the listing view of a track.
type Summary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Keyword   string `json:"keyword"`
	Timestamp string `json:"timestamp"`
}

// WithAudio returns a copy of the track carrying the resolved audio fields.
func (t Track) WithAudio(a AudioInfo) Track {
	t.AudioURL = a.URL
	t.AudioFormat = a.Format
	t.AudioEngine = a.Engine
	return t
}

// Summary returns the listing view of the track.
func (t *Track) Summary() Summary {
	return Summary{
		ID:        t.ID,
		Title:     t.Title,
		Keyword:   t.Keyword,
		Timestamp: t.Timestamp,
	}
}

// HasLyrics reports whether the track carries non-empty lyrics.
func (t *Track) HasLyrics() bool {
	return t.Lyrics != nil && *t.Lyrics != ""
}

// Clone returns a deep copy of the track.
func (t Track) Clone() Track {
	if t.Lyrics != nil {
		l := *t.Lyrics
		t.Lyrics = &l
	}
	return t
}
