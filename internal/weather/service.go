package weather

import (
	"context"
	"strings"
	"time"

	"github.com/i474232898/weather-outlook/pkg/log"
)

// Service runs the CheckWeather phase: resolve, predict, classify.
type Service struct {
	geocoder  Geocoder
	predictor Predictor
	window    DateWindow
	now       func() time.Time
}

// NewService creates a new Service.
func NewService(geocoder Geocoder, predictor Predictor, window DateWindow) *Service {
	return &Service{
		geocoder:  geocoder,
		predictor: predictor,
		window:    window,
		now:       time.Now,
	}
}

// Window returns the accepted date range.
func (s *Service) Window() DateWindow {
	return s.window
}

// ResolveByName geocodes free text; the first match wins.
func (s *Service) ResolveByName(ctx context.Context, text string) (Place, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Place{}, NewError(KindMissingInput, "geocode.search", "Please select a city")
	}
	place, err := s.geocoder.Search(ctx, text)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("geocoder", s.geocoder.Name()).Str("query", text).Msg("forward geocoding failed")
		return Place{}, err
	}
	return place, nil
}

// ResolveByCoordinates reverse geocodes a map position.
func (s *Service) ResolveByCoordinates(ctx context.Context, lat, lon float64) (Place, error) {
	place, err := s.geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("geocoder", s.geocoder.Name()).
			Float64("lat", lat).Float64("lon", lon).Msg("reverse geocoding failed")
		return Place{}, err
	}
	return place, nil
}

// Resolve picks the lookup matching the query form. Text wins over coordinates.
func (s *Service) Resolve(ctx context.Context, q Query) (Place, error) {
	if strings.TrimSpace(q.Text) != "" {
		return s.ResolveByName(ctx, q.Text)
	}
	if q.Coordinates != nil {
		return s.ResolveByCoordinates(ctx, q.Coordinates.Latitude, q.Coordinates.Longitude)
	}
	return Place{}, NewError(KindMissingInput, "resolve", "Please select a city")
}

// FetchStats posts the predict request for place and date and classifies the result.
func (s *Service) FetchStats(ctx context.Context, place Place, date time.Time) (Outlook, error) {
	req, err := BuildPredictRequest(place, date)
	if err != nil {
		return Outlook{}, err
	}

	logger := log.FromCtx(ctx)
	logger.Debug().Interface("request", req).Msg("predict request")

	stats, err := s.predictor.Predict(ctx, req)
	if err != nil {
		logger.Error().Err(err).Str("place", place.DisplayName).Str("date", req.Date).Msg("predict failed")
		return Outlook{}, err
	}

	return Outlook{
		Place:          place,
		Date:           truncateDay(date),
		Stats:          stats,
		Classification: Classify(stats),
	}, nil
}

// CheckWeather validates the query, resolves the place and fetches its outlook.
// Date and location presence are checked before any network call.
func (s *Service) CheckWeather(ctx context.Context, q Query) (Outlook, error) {
	date, err := s.window.Validate(q.Date)
	if err != nil {
		return Outlook{}, err
	}
	if strings.TrimSpace(q.Text) == "" && q.Coordinates == nil {
		return Outlook{}, NewError(KindMissingInput, "check", "Please select a city")
	}

	place, err := s.Resolve(ctx, q)
	if err != nil {
		return Outlook{}, err
	}

	outlook, err := s.FetchStats(ctx, place, date)
	if err != nil {
		return Outlook{}, err
	}

	log.FromCtx(ctx).Info().
		Str("place", outlook.Place.DisplayName).
		Str("date", outlook.DateString()).
		Str("classification", string(outlook.Classification)).
		Msg("outlook ready")
	return outlook, nil
}

// NewHistoryAggregator returns an aggregator bound to this service's predictor.
func (s *Service) NewHistoryAggregator() *HistoryAggregator {
	return NewHistoryAggregator(s.predictor, s.now)
}
