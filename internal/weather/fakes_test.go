package weather

import (
	"context"
	"sync"
)

type fakeGeocoder struct {
	place        Place
	err          error
	searchCalls  int
	reverseCalls int
}

func (f *fakeGeocoder) Name() string { return "fake" }

func (f *fakeGeocoder) Search(_ context.Context, _ string) (Place, error) {
	f.searchCalls++
	return f.place, f.err
}

func (f *fakeGeocoder) Reverse(_ context.Context, lat, lon float64) (Place, error) {
	f.reverseCalls++
	if f.err != nil {
		return Place{}, f.err
	}
	p := f.place
	p.Latitude, p.Longitude = lat, lon
	return p, nil
}

type fakePredictor struct {
	mu           sync.Mutex
	stats        Stats
	statsErr     error
	days         []HistoryDay
	historyErr   error
	predictReqs  []PredictRequest
	historyCalls int
}

func (f *fakePredictor) Predict(_ context.Context, req PredictRequest) (Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predictReqs = append(f.predictReqs, req)
	return f.stats, f.statsErr
}

func (f *fakePredictor) History(_ context.Context, _ PredictRequest) ([]HistoryDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	return f.days, f.historyErr
}

func ptr(v float64) *float64 { return &v }
