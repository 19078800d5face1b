package audio

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/beatify/beatify/internal/domain/track"
	"github.com/beatify/beatify/internal/infra/spotify"
)

// SpotifyClient defines the Spotify operations the provider needs.
type SpotifyClient interface {
	SearchPreviews(ctx context.Context, query string, limit int) ([]spotify.Preview, error)
}

type SpotifyProviderConfig struct {
	ClientID     string `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret"`
	Market       string `yaml:"market" mapstructure:"market" default:"US" validate:"len=2"`
	Limit        int    `yaml:"limit" mapstructure:"limit" default:"10" validate:"gte=1,lte=50"`
}

// SpotifyProvider finds 30 second preview clips through the Spotify Web API.
type SpotifyProvider struct {
	client SpotifyClient
	config *SpotifyProviderConfig
}

// NewSpotifyProvider creates a SpotifyProvider from provider settings.
func NewSpotifyProvider(ctx context.Context, settings map[string]any) (*SpotifyProvider, error) {
	var config SpotifyProviderConfig
	if err := mapstructure.WeakDecode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, ErrMissingCredential
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	client, err := spotify.New(ctx, spotify.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Market:       config.Market,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create spotify client")
	}

	return &SpotifyProvider{client: client, config: &config}, nil
}

func (p *SpotifyProvider) Name() string {
	return "spotify"
}

// Find returns the first search hit that carries a preview clip.
func (p *SpotifyProvider) Find(ctx context.Context, t track.Track) (*Candidate, error) {
	previews, err := p.client.SearchPreviews(ctx, searchQuery(t), p.config.Limit)
	if err != nil {
		return nil, err
	}
	if len(previews) == 0 {
		return nil, nil
	}

	pv := previews[0]
	artists := strings.Join(pv.Artists, ", ")
	return &Candidate{
		URL:    pv.PreviewURL,
		Format: "mp3",
		Note:   "Preview from Spotify by " + artists,
		Source: track.Provenance{
			Source:      "spotify",
			ID:          pv.ID,
			Name:        pv.Name,
			Duration:    pv.Duration.Seconds(),
			Contributor: artists,
			PageURL:     pv.URL,
		},
	}, nil
}
