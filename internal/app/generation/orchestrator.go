// Package generation runs the word-to-track pipeline.
package generation

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/beatify/beatify/internal/app/describe"
	"github.com/beatify/beatify/internal/domain/track"
)

// WordValidator gates the input.
type WordValidator interface {
	Validate(word string) (string, error)
	Language(lang string) (string, error)
}

// Describer produces a raw song description.
type Describer interface {
	Describe(ctx context.Context, word, language string, opts describe.Options) (describe.Description, error)
}

// Normalizer turns a description into a track.
type Normalizer interface {
	Normalize(d describe.Description, word string) (track.Track, error)
}

// AudioResolver attaches audio. It must not fail.
type AudioResolver interface {
	Resolve(ctx context.Context, t track.Track) track.AudioInfo
}

// TrackWriter persists a new track and returns its ID.
type TrackWriter interface {
	PutTrack(t track.Track) (string, error)
}

// Recorder receives the outcome of each generation.
type Recorder interface {
	ObserveGeneration(outcome string, elapsed time.Duration)
}

// Result is the outcome of a successful generation.
type Result struct {
	TrackID string
	Track   track.Track
	Audio   track.AudioInfo
}

// Orchestrator runs validation, description, normalization, audio resolution
// and storage in order. At most one track is stored per call.
type Orchestrator struct {
	validator  WordValidator
	describer  Describer
	normalizer Normalizer
	resolver   AudioResolver
	store      TrackWriter
	recorder   Recorder
}

// NewOrchestrator creates an orchestrator. recorder may be nil.
func NewOrchestrator(v WordValidator, d Describer, n Normalizer, r AudioResolver, s TrackWriter, recorder Recorder) *Orchestrator {
	return &Orchestrator{
		validator:  v,
		describer:  d,
		normalizer: n,
		resolver:   r,
		store:      s,
		recorder:   recorder,
	}
}

// Generate turns word into a stored track.
func (o *Orchestrator) Generate(ctx context.Context, word, language string, opts describe.Options) (Result, error) {
	start := time.Now()
	res, err := o.generate(ctx, word, language, opts)
	if o.recorder != nil {
		o.recorder.ObserveGeneration(outcome(err), time.Since(start))
	}
	return res, err
}

func (o *Orchestrator) generate(ctx context.Context, word, language string, opts describe.Options) (Result, error) {
	logPhase(PhaseValidating, word)
	canonical, err := o.validator.Validate(word)
	if err != nil {
		return Result{}, failed(PhaseValidating, err, ErrInvalidWord)
	}
	lang, err := o.validator.Language(language)
	if err != nil {
		return Result{}, failed(PhaseValidating, err, ErrInvalidWord)
	}

	logPhase(PhaseDescribing, canonical)
	desc, err := o.describer.Describe(ctx, canonical, lang, opts)
	if err != nil {
		zlog.Error().Err(err).Str("word", canonical).Msg("description failed")
		return Result{}, failed(PhaseDescribing, err, ErrGenerationFailed)
	}

	logPhase(PhaseNormalizing, canonical)
	t, err := o.normalizer.Normalize(desc, canonical)
	if err != nil {
		zlog.Error().Err(err).Str("word", canonical).Msg("normalization failed")
		return Result{}, failed(PhaseNormalizing, err, ErrGenerationFailed)
	}

	logPhase(PhaseResolvingAudio, canonical)
	audio := o.resolver.Resolve(ctx, t)
	t = t.WithAudio(audio)

	logPhase(PhaseStoring, canonical)
	id, err := o.store.PutTrack(t)
	if err != nil {
		return Result{}, failed(PhaseStoring, err, ErrGenerationFailed)
	}
	t.ID = id

	logPhase(PhaseDone, canonical)
	zlog.Info().Msgf("track generated: id=%s word=%q title=%q engine=%s", id, canonical, t.Title, audio.Engine)
	return Result{TrackID: id, Track: t, Audio: audio}, nil
}

func logPhase(p Phase, word string) {
	zlog.Debug().Str("phase", p.String()).Str("word", word).Msg("generation phase")
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if p, ok := FailedPhase(err); ok && p == PhaseValidating {
		return "invalid_word"
	}
	return "failed"
}
