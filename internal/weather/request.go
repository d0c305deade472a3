package weather

import (
	"time"

	"github.com/i474232898/weather-outlook/internal/common"
)

// BuildPredictRequest applies the input selection rule: a pinned position is
// sent as coordinates, anything else as the leading segment of the display name.
func BuildPredictRequest(place Place, date time.Time) (PredictRequest, error) {
	if date.IsZero() {
		return PredictRequest{}, NewError(KindMissingInput, "predict", "Please select a date")
	}

	req := PredictRequest{Date: FormatDate(date)}

	coords := place.Coordinates()
	if !coords.IsUnset() && (coords != Coordinates{}) {
		lat, lon := coords.Latitude, coords.Longitude
		req.Latitude = &lat
		req.Longitude = &lon
		return req, nil
	}

	req.LocationName = common.LeadingSegment(place.DisplayName)
	if req.LocationName == "" {
		return PredictRequest{}, NewError(KindMissingInput, "predict", "Please select a city")
	}
	return req, nil
}

// HistoryRequest always identifies the location by name.
func HistoryRequest(o Outlook) (PredictRequest, error) {
	if o.Date.IsZero() {
		return PredictRequest{}, NewError(KindMissingInput, "history", "Please select a date")
	}
	name := common.LeadingSegment(o.Place.DisplayName)
	if name == "" {
		return PredictRequest{}, NewError(KindMissingInput, "history", "Please select a city")
	}
	return PredictRequest{LocationName: name, Date: FormatDate(o.Date)}, nil
}
