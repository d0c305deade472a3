package main

import (
	"context"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-outlook/internal/assistant"
	"github.com/i474232898/weather-outlook/internal/assistant/completers"
	"github.com/i474232898/weather-outlook/internal/config"
	"github.com/i474232898/weather-outlook/internal/visit"
	"github.com/i474232898/weather-outlook/internal/weather"
	"github.com/i474232898/weather-outlook/internal/weather/providers"
	"github.com/i474232898/weather-outlook/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "weather-outlook",
	Short: "Date-specific weather outlooks with a grounded assistant",
	Long: `weather-outlook geocodes a place, asks the prediction service for the
statistics of a chosen day, classifies them and answers follow-up questions
about the result.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setup loads configuration and installs the logger.
func setup(ctx context.Context) (context.Context, *config.AppConfig, func(), error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return ctx, nil, func() {}, err
	}
	ctx, flushLog := log.NewContextWithLogger(ctx, debug || cfg.LogDebug)
	return ctx, cfg, flushLog, nil
}

// graph holds the dependencies shared by every subcommand.
type graph struct {
	service *weather.Service
	opener  *visit.Opener
}

func buildGraph(ctx context.Context, cfg *config.AppConfig) (*graph, error) {
	logger := log.FromCtx(ctx)

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var geocoder weather.Geocoder
	switch cfg.GeocoderProvider {
	case "google":
		geocoder = providers.NewGoogleGeocoder(cfg.GoogleAPIKey, cfg.HTTPTimeout)
	default:
		geocoder = providers.NewNominatimGeocoder(httpClient, cfg.NominatimURL, cfg.UserAgent)
	}
	predictor := providers.NewPredictClient(httpClient, cfg.PredictURL, cfg.UserAgent)

	service := weather.NewService(geocoder, predictor, cfg.DateWindow())

	completer, err := completers.New(ctx, httpClient, completers.Options{
		Provider:      cfg.ChatProvider,
		RelayURL:      cfg.ChatURL,
		Model:         cfg.ChatModel,
		OpenAIKey:     cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		AnthropicKey:  cfg.AnthropicAPIKey,
		GeminiKey:     cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, err
	}

	policy, err := assistant.LoadPolicy(cfg.AssistantPolicyFile)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("geocoder", geocoder.Name()).
		Str("chat_provider", cfg.ChatProvider).
		Str("policy", policy.Version).
		Str("epoch", weather.FormatDate(cfg.DateWindow().Epoch)).
		Msg("dependencies ready")

	return &graph{
		service: service,
		opener:  visit.NewOpener(service, completer, policy),
	}, nil
}
