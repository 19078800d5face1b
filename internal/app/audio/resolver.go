package audio

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/beatify/beatify/internal/domain/track"
)

// Recorder receives the outcome of each resolution.
type Recorder interface {
	ObserveAudioResolution(engine, reason string)
}

// Resolver attaches audio to tracks. It never fails.
type Resolver struct {
	chain        *ProviderChain
	placeholders *Placeholders
	format       string
	recorder     Recorder
}

// NewResolver creates a resolver. A nil chain always uses placeholders.
func NewResolver(chain *ProviderChain, placeholders *Placeholders, format string, recorder Recorder) *Resolver {
	if chain == nil {
		chain = NewProviderChain(nil, 0)
	}
	if placeholders == nil {
		placeholders = NewPlaceholders(nil, "")
	}
	if format == "" {
		format = "mp3"
	}
	return &Resolver{chain: chain, placeholders: placeholders, format: format, recorder: recorder}
}

// Resolve returns remote audio when a provider finds a match, otherwise a
// placeholder chosen by mood.
func (r *Resolver) Resolve(ctx context.Context, t track.Track) track.AudioInfo {
	candidate, reason := r.chain.Find(ctx, t)

	var info track.AudioInfo
	if candidate != nil {
		src := candidate.Source
		format := candidate.Format
		if format == "" {
			format = r.format
		}
		info = track.AudioInfo{
			URL:    candidate.URL,
			Format: format,
			Engine: track.EngineAPI,
			Note:   candidate.Note,
			Source: &src,
		}
	} else {
		info = track.AudioInfo{
			URL:            r.placeholders.URL(t.Mood),
			Format:         r.format,
			Engine:         track.EnginePlaceholder,
			Note:           PlaceholderNote,
			FallbackReason: string(reason),
		}
		zlog.Info().Msgf("using placeholder audio: mood=%s reason=%s", t.Mood, reason)
	}

	if r.recorder != nil {
		r.recorder.ObserveAudioResolution(string(info.Engine), info.FallbackReason)
	}
	return info
}
