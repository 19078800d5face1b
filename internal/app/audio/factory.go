package audio

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/beatify/beatify/internal/infra/config"
)

// NewProviderChainFromConfig creates a provider chain from configuration.
// Providers without credentials are skipped; an empty chain is valid.
func NewProviderChainFromConfig(ctx context.Context, cfg config.AudioConfig) (*ProviderChain, error) {
	var providers []ProviderWithMetadata

	for i, pcfg := range cfg.Providers {
		var provider Provider
		var err error
		zlog.Debug().Msgf("creating audio provider: index=%d type=%s", i+1, pcfg.Type)
		switch pcfg.Type {
		case "freesound":
			provider, err = NewFreesoundProvider(pcfg.Settings)

		case "spotify":
			provider, err = NewSpotifyProvider(ctx, pcfg.Settings)

		default:
			return nil, errors.Newf("unsupported provider type: %s (provider index %d)", pcfg.Type, i)
		}

		if errors.Is(err, ErrMissingCredential) {
			zlog.Warn().Msgf("skipping audio provider without credential: index=%d type=%s", i+1, pcfg.Type)
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create provider (index %d, type %s)", i, pcfg.Type)
		}

		displayName := pcfg.DisplayName
		if displayName == "" {
			displayName = provider.Name()
		}
		providers = append(providers, ProviderWithMetadata{
			Provider:    provider,
			DisplayName: displayName,
		})

		zlog.Info().Msgf("registered audio provider: index=%d type=%s display_name=%s", i+1, pcfg.Type, displayName)
	}

	return NewProviderChain(providers, cfg.Timeout), nil
}
