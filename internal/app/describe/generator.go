// Package describe asks a language model for a structured song description.
package describe

import (
	"context"
	"encoding/json"

	zlog "github.com/rs/zerolog/log"

	"github.com/beatify/beatify/internal/infra/config"
	"github.com/beatify/beatify/internal/infra/llm"
)

// Completer sends a chat completion and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, r llm.Request) (string, error)
}

// Options overrides model settings for a single request.
type Options struct {
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
}

// Description is the parsed reply of the model.
// Raw holds whatever JSON value the model produced.
type Description struct {
	Raw   any
	Model string
}

// MalformedResponseError is returned when the reply is not valid JSON.
type MalformedResponseError struct {
	Text string
}

func (e *MalformedResponseError) Error() string {
	text := e.Text
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return "Failed to parse JSON response: " + text
}

// Generator produces song descriptions.
type Generator struct {
	client Completer
	llmCfg config.LLMConfig
	music  config.MusicConfig
}

// NewGenerator creates a description generator.
func NewGenerator(client Completer, llmCfg config.LLMConfig, music config.MusicConfig) *Generator {
	return &Generator{client: client, llmCfg: llmCfg, music: music}
}

// Describe asks the model for a song description of word in language.
// A single attempt is made.
func (g *Generator) Describe(ctx context.Context, word, language string, opts Options) (Description, error) {
	model, fellBack := g.llmCfg.ResolveModel(opts.Model)
	if fellBack {
		zlog.Warn().Msgf("model %q is not allowed, using %q", opts.Model, model)
	}

	reply, err := g.client.Complete(ctx, llm.Request{
		Model:       model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Messages: []llm.Message{
			{Role: "system", Content: SystemPrompt(language, g.llmCfg.Provider, g.music.Genres, g.music.Moods)},
			{Role: "user", Content: UserPrompt(word)},
		},
	})
	if err != nil {
		return Description{}, err
	}

	text := StripCodeFence(reply)
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Description{}, &MalformedResponseError{Text: text}
	}

	zlog.Debug().Msgf("description received for %q (model=%s)", word, model)
	return Description{Raw: raw, Model: model}, nil
}
