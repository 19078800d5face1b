// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when none is given on the command line.
const DefaultPath = "config/server.yaml"

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	LLM        LLMConfig        `yaml:"llm"`
	Audio      AudioConfig      `yaml:"audio"`
	Validation ValidationConfig `yaml:"validation"`
	Music      MusicConfig      `yaml:"music"`
	Messages   MessagesConfig   `yaml:"messages"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr    string      `yaml:"addr" default:":5000"`
	Version string      `yaml:"version" default:"1.0.0"`
	Hooks   HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// LLMConfig represents the chat-completions provider configuration.
type LLMConfig struct {
	Provider      string        `yaml:"provider" default:"perplexity"`
	BaseURL       string        `yaml:"base_url" default:"https://api.perplexity.ai" validate:"url"`
	APIKey        string        `yaml:"api_key"`
	Model         string        `yaml:"model" default:"sonar-pro"`
	FallbackModel string        `yaml:"fallback_model" default:"sonar-pro"`
	AllowedModels []string      `yaml:"allowed_models"`
	MaxTokens     int           `yaml:"max_tokens" default:"2000" validate:"gt=0"`
	Temperature   float64       `yaml:"temperature" default:"0.7" validate:"gte=0,lte=2"`
	Timeout       time.Duration `yaml:"timeout" default:"30s"`
}

// AudioConfig represents audio resolution configuration.
type AudioConfig struct {
	Timeout      time.Duration     `yaml:"timeout" default:"10s"`
	Format       string            `yaml:"format" default:"mp3"`
	Providers    []ProviderConfig  `yaml:"providers" validate:"dive"`
	Placeholders map[string]string `yaml:"placeholders"`
	DefaultURL   string            `yaml:"default_url"`
}

// ProviderConfig represents a single audio provider configuration.
type ProviderConfig struct {
	Type        string         `yaml:"type" validate:"required,oneof=freesound spotify"`
	DisplayName string         `yaml:"display_name"`
	Settings    map[string]any `yaml:"settings"`
}

// ValidationConfig represents input word validation settings.
type ValidationConfig struct {
	MinLength int      `yaml:"min_length" default:"2" validate:"gte=1"`
	MaxLength int      `yaml:"max_length" default:"50" validate:"gtefield=MinLength"`
	Denylist  []string `yaml:"denylist"`
}

// MusicConfig represents the vocabularies offered to the model.
type MusicConfig struct {
	DefaultLanguage string   `yaml:"default_language" default:"English"`
	Languages       []string `yaml:"languages"`
	Genres          []string `yaml:"genres"`
	Moods           []string `yaml:"moods"`
}

// MessagesConfig represents user-facing messages.
type MessagesConfig struct {
	Success          string `yaml:"success" default:"OK"`
	DefaultError     string `yaml:"default_error" default:"Internal server error"`
	ValidationError  string `yaml:"validation_error" default:"Validation failed"`
	GenerationFailed string `yaml:"generation_failed" default:"Failed to generate music"`
	NotFound         string `yaml:"not_found" default:"Not found"`
	EmptyName        string `yaml:"empty_name" default:"Playlist name is required"`
	NoValidTracks    string `yaml:"no_valid_tracks" default:"No valid tracks found"`
	Mismatch         string `yaml:"mismatch" default:"Track order mismatch"`
	InvalidAction    string `yaml:"invalid_action" default:"Invalid action"`
}

// Default returns a configuration populated only with defaults.
func Default() *Config {
	var cfg Config
	_ = defaults.Set(&cfg)
	return &cfg
}

// Load loads configuration from a YAML file.
// A missing file is not an error: defaults and environment variables are used.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	case errors.Is(err, os.ErrNotExist):
		// env-only setup
	default:
		return nil, errors.Wrap(err, "failed to read config file")
	}

	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() error {
	if v := os.Getenv("PERPLEXITY_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("PERPLEXITY_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid MAX_TOKENS %q", v)
		}
		c.LLM.MaxTokens = n
	}
	if v := os.Getenv("TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid TEMPERATURE %q", v)
		}
		c.LLM.Temperature = f
	}
	if v := os.Getenv("FREESOUND_API_KEY"); v != "" {
		c.setProviderSetting("freesound", "api_key", v)
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.setProviderSetting("spotify", "client_id", v)
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.setProviderSetting("spotify", "client_secret", v)
	}

	host, port := os.Getenv("HOST"), os.Getenv("PORT")
	if host != "" || port != "" {
		if port == "" {
			port = "5000"
		}
		c.Server.Addr = host + ":" + port
	}
	return nil
}

// setProviderSetting sets a setting on the first provider of the given type,
// appending the provider when it is not configured.
func (c *Config) setProviderSetting(providerType, key, value string) {
	for i := range c.Audio.Providers {
		if c.Audio.Providers[i].Type == providerType {
			if c.Audio.Providers[i].Settings == nil {
				c.Audio.Providers[i].Settings = map[string]any{}
			}
			c.Audio.Providers[i].Settings[key] = value
			return
		}
	}
	c.Audio.Providers = append(c.Audio.Providers, ProviderConfig{
		Type:     providerType,
		Settings: map[string]any{key: value},
	})
}

// GetMessage returns the message for the given code.
func (c *Config) GetMessage(code string) string {
	switch code {
	case "success":
		return c.Messages.Success
	case "validation_error":
		return c.Messages.ValidationError
	case "generation_failed":
		return c.Messages.GenerationFailed
	case "not_found":
		return c.Messages.NotFound
	case "empty_name":
		return c.Messages.EmptyName
	case "no_valid_tracks":
		return c.Messages.NoValidTracks
	case "mismatch":
		return c.Messages.Mismatch
	case "invalid_action":
		return c.Messages.InvalidAction
	default:
		return c.Messages.DefaultError
	}
}

// ResolveModel returns the model to use for a request.
// An empty model selects the configured one; a model outside the allow-list
// is replaced by the fallback model and reported via the second return value.
func (c *LLMConfig) ResolveModel(model string) (string, bool) {
	if model == "" {
		model = c.Model
	}
	if len(c.AllowedModels) == 0 || slices.Contains(c.AllowedModels, model) {
		return model, false
	}
	return c.FallbackModel, true
}

// IsSupportedLanguage reports whether the language is allowed.
// An empty language list allows any language.
func (c *MusicConfig) IsSupportedLanguage(lang string) bool {
	if len(c.Languages) == 0 {
		return true
	}
	for _, l := range c.Languages {
		if strings.EqualFold(l, lang) {
			return true
		}
	}
	return false
}

// HasAudioCredentials reports whether any audio provider has a credential.
func (c *Config) HasAudioCredentials() bool {
	for _, p := range c.Audio.Providers {
		switch p.Type {
		case "freesound":
			if s, _ := p.Settings["api_key"].(string); s != "" {
				return true
			}
		case "spotify":
			id, _ := p.Settings["client_id"].(string)
			secret, _ := p.Settings["client_secret"].(string)
			if id != "" && secret != "" {
				return true
			}
		}
	}
	return false
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if len(c.LLM.AllowedModels) > 0 && !slices.Contains(c.LLM.AllowedModels, c.LLM.FallbackModel) {
		return errors.Newf("fallback_model (%s) must be one of allowed_models", c.LLM.FallbackModel)
	}
	if !c.Music.IsSupportedLanguage(c.Music.DefaultLanguage) {
		return errors.Newf("default_language (%s) must be one of languages", c.Music.DefaultLanguage)
	}

	return nil
}
