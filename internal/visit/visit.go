// Package visit models one page view: a CheckWeather outcome together with
// its history aggregator and assistant session.
package visit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-outlook/internal/assistant"
	"github.com/i474232898/weather-outlook/internal/report"
	"github.com/i474232898/weather-outlook/internal/weather"
)

// Visit is immutable apart from the state held by its aggregator and session.
type Visit struct {
	ID        string
	CreatedAt time.Time

	outlook    weather.Outlook
	aggregator *weather.HistoryAggregator
	session    *assistant.Session
}

// New wraps an outlook and attaches it to the session as grounding.
func New(id string, o weather.Outlook, aggregator *weather.HistoryAggregator, session *assistant.Session) *Visit {
	session.Attach(assistant.GroundingFor(o))
	return &Visit{
		ID:         id,
		CreatedAt:  time.Now(),
		outlook:    o,
		aggregator: aggregator,
		session:    session,
	}
}

func (v *Visit) Outlook() weather.Outlook {
	return v.outlook
}

// History returns the multi-year series; the upstream is queried once per visit.
func (v *Visit) History(ctx context.Context) []weather.HistoryPoint {
	return v.aggregator.Fetch(ctx, v.outlook)
}

// Report assembles the export input, loading history first.
func (v *Visit) Report(ctx context.Context) report.Report {
	return report.FromOutlook(v.outlook, v.History(ctx))
}

func (v *Visit) Assistant() *assistant.Session {
	return v.session
}

// Opener runs CheckWeather and wraps the outcome in a new Visit.
type Opener struct {
	service   *weather.Service
	completer assistant.Completer
	policy    assistant.Policy
}

func NewOpener(service *weather.Service, completer assistant.Completer, policy assistant.Policy) *Opener {
	return &Opener{service: service, completer: completer, policy: policy}
}

// Open returns an error when CheckWeather fails; no visit is created then.
func (o *Opener) Open(ctx context.Context, q weather.Query) (*Visit, error) {
	outlook, err := o.service.CheckWeather(ctx, q)
	if err != nil {
		return nil, err
	}
	return New(
		uuid.NewString(),
		outlook,
		o.service.NewHistoryAggregator(),
		assistant.NewSession(o.completer, o.policy),
	), nil
}
