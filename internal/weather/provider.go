package weather

import (
	"context"
)

// Geocoder resolves free text and map positions to places.
type Geocoder interface {
	Name() string
	Search(ctx context.Context, text string) (Place, error)
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}

// Predictor talks to the statistical prediction service.
type Predictor interface {
	// Predict returns the day statistics; every field must have been present.
	Predict(ctx context.Context, req PredictRequest) (Stats, error)
	// History returns the raw multi-year series for the same day of year.
	History(ctx context.Context, req PredictRequest) ([]HistoryDay, error)
}
