// Package completers provides the Completer backends used by assistant sessions.
package completers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-outlook/internal/assistant"
	"github.com/i474232898/weather-outlook/internal/upstream"
)

// DefaultRelayURL is the hosted chat relay.
const DefaultRelayURL = "https://paradeguardapi-production.up.railway.app/api/chat"

// Relay posts the conversation to a chat relay speaking the
// `{messages:[...]}` → `choices[0].message.content` protocol.
type Relay struct {
	url     string
	httpCfg upstream.Config
	circuit *gobreaker.CircuitBreaker
}

func NewRelay(client *http.Client, url string) *Relay {
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		url = DefaultRelayURL
	}
	return &Relay{
		url:     url,
		httpCfg: upstream.Config{Client: client},
		circuit: upstream.NewCircuit("chat-relay"),
	}
}

type relayRequest struct {
	Messages []assistant.Message `json:"messages"`
}

type relayResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (r *Relay) Complete(ctx context.Context, messages []assistant.Message) (string, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		return upstream.NewJSONRequest(ctx, http.MethodPost, r.url, relayRequest{Messages: messages})
	}

	body, err := upstream.Do(ctx, r.httpCfg, r.circuit, buildRequest)
	if err != nil {
		var se *upstream.StatusError
		switch {
		case errors.As(err, &se):
			return "", fmt.Errorf("API Error: %d %s. Details: %s", se.Code, http.StatusText(se.Code), se.Body)
		case errors.Is(err, upstream.ErrCircuitOpen):
			return "", fmt.Errorf("chat relay unavailable: %w", err)
		default:
			return "", fmt.Errorf("chat request: %w", err)
		}
	}

	var decoded relayResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("invalid response format from API: %w", err)
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("invalid response format from API")
	}
	return decoded.Choices[0].Message.Content, nil
}
