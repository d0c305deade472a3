package completers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/i474232898/weather-outlook/internal/assistant"
)

const DefaultAnthropicModel = "claude-3-5-haiku-latest"

type Anthropic struct {
	client anthropic.Client
	model  string
}

func NewAnthropic(httpClient *http.Client, apiKey, baseURL, model string) (*Anthropic, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key not configured")
	}
	if model == "" {
		model = DefaultAnthropicModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &Anthropic{client: anthropic.NewClient(opts...), model: model}, nil
}

// Complete sends system messages as the system prompt and the rest as user turns.
func (c *Anthropic) Complete(ctx context.Context, messages []assistant.Message) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1024,
	}

	var system []string
	for _, m := range messages {
		if m.Role == assistant.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}
	if len(system) > 0 {
		params.System = []anthropic.TextBlockParam{{Text: strings.Join(system, "\n\n")}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var content strings.Builder
	for _, block := range message.Content {
		content.WriteString(block.Text)
	}
	if content.Len() == 0 {
		return "", fmt.Errorf("anthropic returned no content")
	}
	return content.String(), nil
}
