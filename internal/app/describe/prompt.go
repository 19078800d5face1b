package describe

import (
	"fmt"
	"strings"
)

const systemPromptTemplate = `You are a creative music composer and songwriter. Generate a unique music track inspired by the given word or name.

Respond with ONLY a JSON object, no explanation and no markdown, using exactly this structure:
{
  "track": {
    "title": "creative song title",
    "language": "%[1]s",
    "genre": "music genre",
    "mood": "emotional mood",
    "style": "musical style description",
    "lyrics": "song lyrics, or null for an instrumental",
    "duration": "1-2 minutes",
    "audio_url": "placeholder"
  },
  "metadata": {
    "keyword": "the input word",
    "timestamp": "ISO-8601 timestamp",
    "model": "%[2]s"
  }
}

Write the title and lyrics in %[1]s.`

// SystemPrompt builds the instruction constraining the model to the track JSON shape.
// Genre and mood vocabularies are offered as hints when non-empty.
func SystemPrompt(language, provider string, genres, moods []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, systemPromptTemplate, language, provider)
	if len(genres) > 0 {
		b.WriteString("\nPrefer one of these genres: " + strings.Join(genres, ", ") + ".")
	}
	if len(moods) > 0 {
		b.WriteString("\nPrefer one of these moods: " + strings.Join(moods, ", ") + ".")
	}
	return b.String()
}

// UserPrompt builds the per-word instruction.
func UserPrompt(word string) string {
	return "Generate a unique music track inspired by the word: " + word
}
