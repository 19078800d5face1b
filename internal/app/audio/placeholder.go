package audio

import (
	"fmt"
	"strings"
)

const soundHelixURL = "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-%d.mp3"

var defaultMoodSongs = map[string]int{
	"energetic":  1,
	"happy":      2,
	"sad":        3,
	"relaxed":    4,
	"emotional":  5,
	"intense":    6,
	"peaceful":   7,
	"uplifting":  8,
	"dark":       9,
	"romantic":   10,
	"chill":      11,
	"aggressive": 12,
}

// PlaceholderNote is attached to tracks that fall back to a placeholder.
const PlaceholderNote = "Free music from SoundHelix. Add Freesound API key for real audio."

// Placeholders maps moods to fixed royalty-free recordings.
type Placeholders struct {
	byMood     map[string]string
	defaultURL string
}

// NewPlaceholders builds the mood table. Overrides replace or extend the
// built-in entries; an empty defaultURL keeps the built-in default.
func NewPlaceholders(overrides map[string]string, defaultURL string) *Placeholders {
	p := &Placeholders{
		byMood:     make(map[string]string, len(defaultMoodSongs)+len(overrides)),
		defaultURL: fmt.Sprintf(soundHelixURL, 1),
	}
	for mood, n := range defaultMoodSongs {
		p.byMood[mood] = fmt.Sprintf(soundHelixURL, n)
	}
	for mood, url := range overrides {
		p.byMood[strings.ToLower(mood)] = url
	}
	if defaultURL != "" {
		p.defaultURL = defaultURL
	}
	return p
}

// URL returns the placeholder for mood, or the default for unknown moods.
func (p *Placeholders) URL(mood string) string {
	if url, ok := p.byMood[strings.ToLower(strings.TrimSpace(mood))]; ok {
		return url
	}
	return p.defaultURL
}
