package providers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-outlook/internal/upstream"
	"github.com/i474232898/weather-outlook/internal/weather"
)

// PredictClient implements weather.Predictor for the statistical prediction API.
type PredictClient struct {
	name    string
	url     string
	httpCfg upstream.Config
	circuit *gobreaker.CircuitBreaker
}

func NewPredictClient(client *http.Client, url, userAgent string) *PredictClient {
	return &PredictClient{
		name: "predict",
		url:  url,
		httpCfg: upstream.Config{
			Client:    client,
			UserAgent: userAgent,
		},
		circuit: upstream.NewCircuit("predict"),
	}
}

func (p *PredictClient) Name() string {
	return p.name
}

func (p *PredictClient) post(ctx context.Context, req weather.PredictRequest) ([]byte, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		return upstream.NewJSONRequest(ctx, http.MethodPost, p.url, req)
	}
	return upstream.Do(ctx, p.httpCfg, p.circuit, buildRequest)
}

// Predict posts req and returns the day statistics. A reply lacking any of the
// four averages is incomplete; zero values are accepted.
func (p *PredictClient) Predict(ctx context.Context, req weather.PredictRequest) (weather.Stats, error) {
	const op = "predict"

	body, err := p.post(ctx, req)
	if err != nil {
		return weather.Stats{}, predictError(op, err)
	}

	var payload struct {
		Stats *struct {
			AvgTemperature   *float64 `json:"avgTemperature"`
			AvgPrecipitation *float64 `json:"avgPrecipitation"`
			AvgHumidity      *float64 `json:"avgHumidity"`
			AvgWindSpeed     *float64 `json:"avgWindSpeed"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Stats{}, &weather.Error{Kind: weather.KindIncompleteResponse, Op: op, Message: "decode", Err: err}
	}

	s := payload.Stats
	if s == nil || s.AvgTemperature == nil || s.AvgPrecipitation == nil || s.AvgHumidity == nil || s.AvgWindSpeed == nil {
		return weather.Stats{}, &weather.Error{
			Kind:    weather.KindIncompleteResponse,
			Op:      op,
			Message: "expected stats {avgTemperature, avgPrecipitation, avgHumidity, avgWindSpeed}",
			Body:    string(body),
		}
	}

	return weather.Stats{
		Temperature: *s.AvgTemperature,
		Rainfall:    *s.AvgPrecipitation,
		Humidity:    *s.AvgHumidity,
		Wind:        *s.AvgWindSpeed,
	}, nil
}

// History posts req and returns the raw allDays series. A missing or null
// series yields an empty slice; a malformed one is an error.
func (p *PredictClient) History(ctx context.Context, req weather.PredictRequest) ([]weather.HistoryDay, error) {
	const op = "predict.history"

	body, err := p.post(ctx, req)
	if err != nil {
		return nil, predictError(op, err)
	}

	var payload struct {
		AllDays json.RawMessage `json:"allDays"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &weather.Error{Kind: weather.KindIncompleteResponse, Op: op, Message: "decode", Err: err}
	}
	if len(payload.AllDays) == 0 || string(payload.AllDays) == "null" {
		return nil, nil
	}

	var days []weather.HistoryDay
	if err := json.Unmarshal(payload.AllDays, &days); err != nil {
		return nil, &weather.Error{Kind: weather.KindIncompleteResponse, Op: op, Message: "malformed allDays", Err: err}
	}
	return days, nil
}
