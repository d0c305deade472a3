package completers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/i474232898/weather-outlook/internal/assistant"
)

// Provider names accepted by New.
const (
	ProviderRelay     = "relay"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Options selects and configures a backend.
type Options struct {
	Provider      string
	RelayURL      string
	Model         string
	OpenAIKey     string
	OpenAIBaseURL string
	AnthropicKey  string
	GeminiKey     string
}

// New builds the Completer named by opts.Provider. An empty provider means relay.
func New(ctx context.Context, httpClient *http.Client, opts Options) (assistant.Completer, error) {
	switch opts.Provider {
	case "", ProviderRelay:
		return NewRelay(httpClient, opts.RelayURL), nil
	case ProviderOpenAI:
		return NewOpenAI(httpClient, opts.OpenAIKey, opts.OpenAIBaseURL, opts.Model)
	case ProviderAnthropic:
		return NewAnthropic(httpClient, opts.AnthropicKey, "", opts.Model)
	case ProviderGemini:
		return NewGemini(ctx, httpClient, opts.GeminiKey, "", opts.Model)
	default:
		return nil, fmt.Errorf("unknown chat provider %q", opts.Provider)
	}
}
