package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-outlook/internal/weather"
	"github.com/i474232898/weather-outlook/pkg/log"
)

type AppConfig struct {
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogDebug bool   `env:"LOG_DEBUG" envDefault:"false"`

	// HTTPTimeout bounds every outbound call.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	UserAgent   string        `env:"USER_AGENT" envDefault:"weather-outlook/1.0"`

	// Geocoding.
	GeocoderProvider string `env:"GEOCODER_PROVIDER" envDefault:"nominatim" validate:"oneof=nominatim google"`
	NominatimURL     string `env:"NOMINATIM_URL" envDefault:"https://nominatim.openstreetmap.org" validate:"url"`
	GoogleAPIKey     string `env:"GOOGLE_GEOCODER_API_KEY" validate:"required_if=GeocoderProvider google"`

	// Prediction service.
	PredictURL string `env:"PREDICT_URL" envDefault:"https://paradeguardapi-production.up.railway.app/api/Weather/predict" validate:"url"`

	// OutlookEpoch is the first selectable day (YYYY-MM-DD). Empty means today.
	OutlookEpoch string `env:"OUTLOOK_EPOCH"`
	epoch        time.Time

	// Assistant backend.
	ChatProvider        string `env:"CHAT_PROVIDER" envDefault:"relay" validate:"oneof=relay openai anthropic gemini"`
	ChatURL             string `env:"CHAT_URL" envDefault:"https://paradeguardapi-production.up.railway.app/api/chat" validate:"url"`
	ChatModel           string `env:"CHAT_MODEL"`
	OpenAIAPIKey        string `env:"OPENAI_API_KEY" validate:"required_if=ChatProvider openai"`
	OpenAIBaseURL       string `env:"OPENAI_BASE_URL" validate:"omitempty,url"`
	AnthropicAPIKey     string `env:"ANTHROPIC_API_KEY" validate:"required_if=ChatProvider anthropic"`
	GeminiAPIKey        string `env:"GEMINI_API_KEY" validate:"required_if=ChatProvider gemini"`
	AssistantPolicyFile string `env:"ASSISTANT_POLICY_FILE"`

	// In-memory visit retention.
	VisitMaxAge   time.Duration `env:"VISIT_MAX_AGE" envDefault:"2h"`   // idle time before a visit is swept (0 = never)
	VisitMaxCount int           `env:"VISIT_MAX_COUNT" envDefault:"1000" validate:"gte=0"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m" validate:"gt=0"`
}

// Load reads configuration from the environment, after an optional .env file.
func Load(ctx context.Context) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.FromCtx(ctx).Debug().Err(err).Msg("no .env file loaded")
	}
	return Parse()
}

// Parse reads and validates configuration from the process environment only.
func Parse() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.OutlookEpoch == "" {
		cfg.epoch = time.Now().UTC()
	} else {
		epoch, err := weather.ParseDate(cfg.OutlookEpoch)
		if err != nil {
			return nil, fmt.Errorf("invalid OUTLOOK_EPOCH: %w", err)
		}
		cfg.epoch = epoch
	}

	return cfg, nil
}

// DateWindow returns the selectable date range.
func (c *AppConfig) DateWindow() weather.DateWindow {
	return weather.NewDateWindow(c.epoch)
}
