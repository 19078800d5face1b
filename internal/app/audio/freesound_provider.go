package audio

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/beatify/beatify/internal/domain/track"
	"github.com/beatify/beatify/internal/infra/freesound"
)

// FreesoundClient defines the Freesound operations the provider needs.
type FreesoundClient interface {
	Search(ctx context.Context, query string, opts freesound.SearchOptions) ([]freesound.Sound, error)
}

type FreesoundProviderConfig struct {
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	MinDuration int    `yaml:"min_duration" mapstructure:"min_duration" default:"30" validate:"gte=1"`
	MaxDuration int    `yaml:"max_duration" mapstructure:"max_duration" default:"180" validate:"gtefield=MinDuration"`
	PageSize    int    `yaml:"page_size" mapstructure:"page_size" default:"10" validate:"gte=1,lte=150"`
}

// FreesoundProvider finds preview clips on Freesound.org.
type FreesoundProvider struct {
	client FreesoundClient
	config *FreesoundProviderConfig
}

// NewFreesoundProvider creates a FreesoundProvider from provider settings.
func NewFreesoundProvider(settings map[string]any) (*FreesoundProvider, error) {
	var config FreesoundProviderConfig
	if err := mapstructure.WeakDecode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if config.APIKey == "" {
		return nil, ErrMissingCredential
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	client, err := freesound.New(freesound.Config{APIKey: config.APIKey})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create freesound client")
	}

	return NewFreesoundProviderWithClient(client, config), nil
}

// NewFreesoundProviderWithClient creates a FreesoundProvider over an existing client.
func NewFreesoundProviderWithClient(client FreesoundClient, config FreesoundProviderConfig) *FreesoundProvider {
	return &FreesoundProvider{client: client, config: &config}
}

func (p *FreesoundProvider) Name() string {
	return "freesound"
}

// Find returns the top-rated sound for the track's genre and mood.
func (p *FreesoundProvider) Find(ctx context.Context, t track.Track) (*Candidate, error) {
	sounds, err := p.client.Search(ctx, searchQuery(t), freesound.SearchOptions{
		MinDuration: p.config.MinDuration,
		MaxDuration: p.config.MaxDuration,
		PageSize:    p.config.PageSize,
	})
	if err != nil {
		return nil, err
	}

	for _, s := range sounds {
		url := s.PreviewURL()
		if url == "" {
			continue
		}
		return &Candidate{
			URL:    url,
			Format: "mp3",
			Note:   "Audio from Freesound.org by " + s.Username,
			Source: track.Provenance{
				Source:      "freesound",
				ID:          strconv.Itoa(s.ID),
				Name:        s.Name,
				Duration:    s.Duration,
				Contributor: s.Username,
			},
		}, nil
	}
	return nil, nil
}
