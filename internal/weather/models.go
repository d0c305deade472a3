package weather

import (
	"time"
)

// Classification is the single weather category derived from a Stats value.
type Classification string

const (
	ClassNormal    Classification = "normal"
	ClassVeryHot   Classification = "veryhot"
	ClassVeryCold  Classification = "verycold"
	ClassVeryWet   Classification = "verywet"
	ClassVeryWindy Classification = "verywindy"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UnsetCoordinates is the default map center. A place still sitting on it is
// treated as never having been pinned.
var UnsetCoordinates = Coordinates{Latitude: 37.7749, Longitude: -122.4194}

// IsUnset reports whether c equals the unset sentinel.
func (c Coordinates) IsUnset() bool {
	return c == UnsetCoordinates
}

// Place is a geocoded location.
type Place struct {
	DisplayName string  `json:"displayName"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Coordinates returns the place position.
func (p Place) Coordinates() Coordinates {
	return Coordinates{Latitude: p.Latitude, Longitude: p.Longitude}
}

// Query identifies what the user asked for. Text takes precedence over
// Coordinates when both are set.
type Query struct {
	Text        string
	Coordinates *Coordinates
	Date        time.Time
}

// Stats is the normalized day statistics record returned by the prediction service.
type Stats struct {
	Temperature float64 `json:"temperature"` // °C
	Rainfall    float64 `json:"rainfall"`    // mm
	Humidity    float64 `json:"humidity"`    // %
	Wind        float64 `json:"wind"`        // m/s
}

// Outlook bundles the CheckWeather result for one place and date.
type Outlook struct {
	Place          Place          `json:"place"`
	Date           time.Time      `json:"date"`
	Stats          Stats          `json:"stats"`
	Classification Classification `json:"classification"`
}

// DateString formats the outlook date as YYYY-MM-DD.
func (o Outlook) DateString() string {
	return FormatDate(o.Date)
}

// HistoryPoint is one year of the historical series for the same day of year.
type HistoryPoint struct {
	Year        int     `json:"year"`
	Temperature float64 `json:"temperature"`
	Rainfall    float64 `json:"rainfall"`
	Humidity    float64 `json:"humidity"`
	Wind        float64 `json:"wind"`
}

// HistoryDay is a raw historical entry as sent by the prediction service.
// Nil fields were absent from the payload.
type HistoryDay struct {
	Year      int      `json:"year"`
	Temp      *float64 `json:"temp"`
	Precip    *float64 `json:"precip"`
	Humidity  *float64 `json:"humidity"`
	WindSpeed *float64 `json:"windSpeed"`
}

// PredictRequest is the body posted to the prediction service. Either the
// coordinate pair or LocationName is set, never both.
type PredictRequest struct {
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	LocationName string   `json:"locationName,omitempty"`
	Date         string   `json:"date"`
}

const dateLayout = "2006-01-02"

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}
