package weather

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-outlook/pkg/log"
)

var errEmptyHistory = errors.New("empty or missing allDays series")

type historyKey struct {
	location string
	date     string
	stats    Stats
}

// HistoryAggregator fetches the multi-year series for an outlook. It never
// returns an empty slice and fetches each (location, date, stats) key once.
type HistoryAggregator struct {
	predictor Predictor
	now       func() time.Time

	mu      sync.Mutex
	results map[historyKey][]HistoryPoint
}

// NewHistoryAggregator creates an aggregator; now defaults to time.Now.
func NewHistoryAggregator(predictor Predictor, now func() time.Time) *HistoryAggregator {
	if now == nil {
		now = time.Now
	}
	return &HistoryAggregator{
		predictor: predictor,
		now:       now,
		results:   make(map[historyKey][]HistoryPoint),
	}
}

// Fetch returns the series for o, degrading to a single point built from
// o.Stats on any failure. Degradation is logged, not returned.
func (a *HistoryAggregator) Fetch(ctx context.Context, o Outlook) []HistoryPoint {
	key := historyKey{location: o.Place.DisplayName, date: o.DateString(), stats: o.Stats}

	// Held across the upstream call so concurrent callers share one fetch.
	a.mu.Lock()
	defer a.mu.Unlock()

	if points, ok := a.results[key]; ok {
		return clonePoints(points)
	}

	points, err := a.fetch(ctx, o)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).
			Str("place", o.Place.DisplayName).
			Str("date", o.DateString()).
			Msg("history unavailable; falling back to the selected day")
		points = []HistoryPoint{a.fallback(o.Stats)}
	}

	a.results[key] = points
	return clonePoints(points)
}

func (a *HistoryAggregator) fetch(ctx context.Context, o Outlook) ([]HistoryPoint, error) {
	req, err := HistoryRequest(o)
	if err != nil {
		return nil, err
	}
	days, err := a.predictor.History(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, errEmptyHistory
	}
	return NormalizeHistory(days), nil
}

func (a *HistoryAggregator) fallback(s Stats) HistoryPoint {
	return HistoryPoint{
		Year:        a.now().Year(),
		Temperature: s.Temperature,
		Rainfall:    s.Rainfall,
		Humidity:    s.Humidity,
		Wind:        s.Wind,
	}
}

// NormalizeHistory converts raw entries, defaulting absent fields to zero.
// Entries are never dropped.
func NormalizeHistory(days []HistoryDay) []HistoryPoint {
	points := make([]HistoryPoint, 0, len(days))
	for _, d := range days {
		points = append(points, HistoryPoint{
			Year:        d.Year,
			Temperature: valueOrZero(d.Temp),
			Rainfall:    valueOrZero(d.Precip),
			Humidity:    valueOrZero(d.Humidity),
			Wind:        valueOrZero(d.WindSpeed),
		})
	}
	return points
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func clonePoints(points []HistoryPoint) []HistoryPoint {
	out := make([]HistoryPoint, len(points))
	copy(out, points)
	return out
}
