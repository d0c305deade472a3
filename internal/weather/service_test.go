package weather

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

func TestService_CheckWeather(t *testing.T) {
	geo := &fakeGeocoder{place: Place{DisplayName: "Cairo, Egypt", Latitude: 30.04, Longitude: 31.23}}
	pred := &fakePredictor{stats: Stats{Temperature: 35, Rainfall: 2, Humidity: 40, Wind: 1}}
	svc := NewService(geo, pred, NewDateWindow(testEpoch))

	out, err := svc.CheckWeather(context.Background(), Query{Text: "Cairo", Date: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	assert.Equal(t, ClassVeryHot, out.Classification)
	assert.Equal(t, "2026-06-01", out.DateString())
	assert.Equal(t, 1, geo.searchCalls)
	require.Len(t, pred.predictReqs, 1)
	require.NotNil(t, pred.predictReqs[0].Latitude)
	assert.Equal(t, 30.04, *pred.predictReqs[0].Latitude)
}

func TestService_CheckWeather_ZeroStatsAreValid(t *testing.T) {
	geo := &fakeGeocoder{place: Place{DisplayName: "Somewhere", Latitude: 1, Longitude: 2}}
	pred := &fakePredictor{stats: Stats{}}
	svc := NewService(geo, pred, NewDateWindow(testEpoch))

	out, err := svc.CheckWeather(context.Background(), Query{Text: "Somewhere", Date: testEpoch})
	require.NoError(t, err)
	assert.Equal(t, Stats{}, out.Stats)
}

func TestService_CheckWeather_ReverseWhenOnlyCoordinates(t *testing.T) {
	geo := &fakeGeocoder{place: Place{DisplayName: "Giza"}}
	pred := &fakePredictor{stats: Stats{Temperature: 20}}
	svc := NewService(geo, pred, NewDateWindow(testEpoch))

	out, err := svc.CheckWeather(context.Background(), Query{
		Coordinates: &Coordinates{Latitude: 29.98, Longitude: 31.13},
		Date:        testEpoch.AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, geo.reverseCalls)
	assert.Equal(t, 0, geo.searchCalls)
	assert.Equal(t, "Giza", out.Place.DisplayName)
	assert.Equal(t, 29.98, out.Place.Latitude)
}

func TestService_CheckWeather_RejectsBeforeNetwork(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want Kind
	}{
		{"no date", Query{Text: "Cairo"}, KindMissingInput},
		{"out of range", Query{Text: "Cairo", Date: testEpoch.AddDate(2, 0, 0)}, KindDateOutOfRange},
		{"before epoch", Query{Text: "Cairo", Date: testEpoch.AddDate(0, 0, -1)}, KindDateOutOfRange},
		{"no location", Query{Date: testEpoch}, KindMissingInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := &fakeGeocoder{}
			pred := &fakePredictor{}
			svc := NewService(geo, pred, NewDateWindow(testEpoch))

			_, err := svc.CheckWeather(context.Background(), tt.q)
			assert.Equal(t, tt.want, KindOf(err))
			assert.Zero(t, geo.searchCalls+geo.reverseCalls)
			assert.Empty(t, pred.predictReqs)
		})
	}
}

func TestService_CheckWeather_PropagatesUpstreamKind(t *testing.T) {
	geo := &fakeGeocoder{place: Place{DisplayName: "Cairo", Latitude: 1, Longitude: 1}}
	pred := &fakePredictor{statsErr: &Error{Kind: KindInvalidRequest, Op: "predict", Status: 400, Body: "bad date"}}
	svc := NewService(geo, pred, NewDateWindow(testEpoch))

	_, err := svc.CheckWeather(context.Background(), Query{Text: "Cairo", Date: testEpoch})
	require.Error(t, err)
	assert.Equal(t, KindInvalidRequest, KindOf(err))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "bad date", e.Body)
	assert.Contains(t, e.UserMessage(), "bad date")
}

func TestService_ResolveByName_NotFound(t *testing.T) {
	geo := &fakeGeocoder{err: NewError(KindNotFound, "geocode.search", "no match")}
	svc := NewService(geo, &fakePredictor{}, NewDateWindow(testEpoch))

	_, err := svc.ResolveByName(context.Background(), "Atlantis")
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.ResolveByName(context.Background(), "   ")
	assert.Equal(t, KindMissingInput, KindOf(err))
}
