package audio

import (
	"context"
	"net"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/beatify/beatify/internal/domain/track"
)

// FallbackReason names why a placeholder was used instead of a remote recording.
type FallbackReason string

const (
	ReasonNone         FallbackReason = ""
	ReasonNoCredential FallbackReason = "no_credential"
	ReasonEmptyResult  FallbackReason = "empty_result"
	ReasonRemoteError  FallbackReason = "remote_error"
	ReasonTimeout      FallbackReason = "timeout"
)

// ProviderWithMetadata wraps a provider with its metadata.
type ProviderWithMetadata struct {
	Provider    Provider
	DisplayName string
}

// ProviderChain tries providers in order until one returns a recording.
type ProviderChain struct {
	providers []ProviderWithMetadata
	timeout   time.Duration
}

// NewProviderChain creates a new provider chain.
// Each provider call is bounded by timeout when it is positive.
func NewProviderChain(providers []ProviderWithMetadata, timeout time.Duration) *ProviderChain {
	return &ProviderChain{
		providers: providers,
		timeout:   timeout,
	}
}

// Len returns the number of providers in the chain.
func (c *ProviderChain) Len() int {
	return len(c.providers)
}

// Providers returns the providers in the chain.
func (c *ProviderChain) Providers() []ProviderWithMetadata {
	return c.providers
}

// Find asks each provider in turn. When none succeeds the returned reason
// describes the last failure observed.
func (c *ProviderChain) Find(ctx context.Context, t track.Track) (*Candidate, FallbackReason) {
	if len(c.providers) == 0 {
		return nil, ReasonNoCredential
	}

	reason := ReasonEmptyResult
	for i, pm := range c.providers {
		zlog.Debug().Msgf("trying audio provider: index=%d total=%d name=%s provider_type=%s",
			i+1, len(c.providers), pm.DisplayName, pm.Provider.Name())

		candidate, err := c.find(ctx, pm.Provider, t)
		if err != nil {
			reason = classifyFailure(err)
			zlog.Warn().Msgf("audio provider failed, trying next: provider=%s reason=%s error=%v", pm.DisplayName, reason, err)
			continue
		}
		if candidate == nil || candidate.URL == "" {
			reason = ReasonEmptyResult
			zlog.Debug().Msgf("audio provider returned no result: provider=%s", pm.DisplayName)
			continue
		}

		zlog.Info().Msgf("audio provider matched: provider=%s source_id=%s", pm.DisplayName, candidate.Source.ID)
		return candidate, ReasonNone
	}

	return nil, reason
}

func (c *ProviderChain) find(ctx context.Context, p Provider, t track.Track) (*Candidate, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return p.Find(ctx, t)
}

// classifyFailure maps a provider error to a fallback reason.
func classifyFailure(err error) FallbackReason {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return ReasonRemoteError
}
