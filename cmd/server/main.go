// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/beatify/beatify/internal/api/connect"
	"github.com/beatify/beatify/internal/app/audio"
	"github.com/beatify/beatify/internal/app/describe"
	"github.com/beatify/beatify/internal/app/generation"
	"github.com/beatify/beatify/internal/app/library"
	"github.com/beatify/beatify/internal/app/normalize"
	"github.com/beatify/beatify/internal/app/notification"
	"github.com/beatify/beatify/internal/app/wordcheck"
	"github.com/beatify/beatify/internal/infra/config"
	"github.com/beatify/beatify/internal/infra/llm"
	"github.com/beatify/beatify/internal/infra/logger"
	"github.com/beatify/beatify/internal/infra/memstore"
	"github.com/beatify/beatify/internal/infra/metrics"
)

var (
	app        = kingpin.New("beatify-server", "Beatify music generation server")
	configPath = app.Flag("config", "Path to config file").Default(config.DefaultPath).String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
	logFormat  = app.Flag("log-format", "Log format for stdout: console or json").Default("console").Enum("console", "json")

	listProvidersCmd = app.Command("list-providers", "List configured audio providers and exit")
)

func init() {
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
		Format: *logFormat,
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if command == listProvidersCmd.FullCommand() {
		printProviders(cfg)
		return
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()
	reportConfiguration(cfg)

	m := metrics.New()

	completer, err := newCompleter(cfg.LLM)
	if err != nil {
		return errors.Wrap(err, "failed to create LLM client")
	}

	chain, err := audio.NewProviderChainFromConfig(ctx, cfg.Audio)
	if err != nil {
		return errors.Wrap(err, "failed to create audio providers")
	}
	resolver := audio.NewResolver(
		chain,
		audio.NewPlaceholders(cfg.Audio.Placeholders, cfg.Audio.DefaultURL),
		cfg.Audio.Format,
		m,
	)

	store := library.NewStore(
		memstore.NewTrackStore(),
		memstore.NewPlaylistStore(),
		library.WithRecorder(m),
	)

	orchestrator := generation.NewOrchestrator(
		wordcheck.New(cfg.Validation, cfg.Music),
		describe.NewGenerator(completer, cfg.LLM, cfg.Music),
		normalize.New(cfg.LLM.Provider),
		resolver,
		store,
		m,
	)

	notifier := notification.NewManager()
	musicService := apiconnect.NewMusicService(orchestrator, store, notifier, cfg)

	mux := http.NewServeMux()
	musicPath, musicHandler := apiconnect.NewHandler(
		musicService,
		connect.WithInterceptors(apiconnect.NewObservabilityInterceptor(m)),
	)
	mux.Handle(musicPath, musicHandler)
	mux.Handle("/health", apiconnect.NewHealthHandler(cfg.Server.Version))
	mux.Handle("/metrics", m.Handler())

	serverAddr := cfg.Server.Addr
	// h2c serves HTTP/2 without TLS, needed for streaming clients
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	serverStartedCh := make(chan struct{})

	go func() {
		zlog.Info().Msgf("Starting server: addr=%s version=%s", serverAddr, cfg.Server.Version)
		close(serverStartedCh)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	<-serverStartedCh
	// Give the server a moment to fully initialize
	time.Sleep(100 * time.Millisecond)

	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return errors.Wrap(err, "server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close the notifier first so open event streams return before Shutdown waits on them
	notifier.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")

	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return nil
}

// newCompleter returns the LLM client, or a stand-in that fails every
// request when no API key is configured.
func newCompleter(cfg config.LLMConfig) (describe.Completer, error) {
	if cfg.APIKey == "" {
		return missingKeyCompleter{}, nil
	}
	return llm.New(llm.Config{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	})
}

type missingKeyCompleter struct{}

func (missingKeyCompleter) Complete(context.Context, llm.Request) (string, error) {
	return "", errors.New("PERPLEXITY_API_KEY is not configured")
}

// reportConfiguration logs the effective configuration and warns about
// missing credentials.
func reportConfiguration(cfg *config.Config) {
	zlog.Info().Msgf("LLM provider: %s model=%s", cfg.LLM.Provider, cfg.LLM.Model)
	if cfg.LLM.APIKey == "" {
		zlog.Warn().Msg("PERPLEXITY_API_KEY not set, music generation will fail")
	}
	if !cfg.HasAudioCredentials() {
		zlog.Warn().Msg("No audio provider credentials configured, placeholder audio will be used")
	}
	zlog.Info().Msgf("Languages: %v (default %s)", cfg.Music.Languages, cfg.Music.DefaultLanguage)
}

// printProviders prints configured audio providers.
func printProviders(cfg *config.Config) {
	fmt.Println("Audio Providers:")
	if len(cfg.Audio.Providers) == 0 {
		fmt.Println("  (none, placeholder audio only)")
		return
	}
	for i, p := range cfg.Audio.Providers {
		name := p.DisplayName
		if name == "" {
			name = p.Type
		}
		fmt.Printf("  %d. %-20s type=%-10s credentials=%t\n", i+1, name, p.Type, providerHasCredentials(p))
	}
}

func providerHasCredentials(p config.ProviderConfig) bool {
	single := config.Config{Audio: config.AudioConfig{Providers: []config.ProviderConfig{p}}}
	return single.HasAudioCredentials()
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
