package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-outlook/internal/common"
	"github.com/i474232898/weather-outlook/internal/upstream"
	"github.com/i474232898/weather-outlook/internal/weather"
)

// DefaultNominatimURL is the public OpenStreetMap Nominatim instance.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimGeocoder implements weather.Geocoder against the Nominatim API.
type NominatimGeocoder struct {
	name    string
	baseURL string
	httpCfg upstream.Config
	circuit *gobreaker.CircuitBreaker
}

func NewNominatimGeocoder(client *http.Client, baseURL, userAgent string) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &NominatimGeocoder{
		name:    "nominatim",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: upstream.Config{
			Client:    client,
			UserAgent: userAgent,
		},
		circuit: upstream.NewCircuit("nominatim"),
	}
}

func (g *NominatimGeocoder) Name() string {
	return g.name
}

// Search returns the first candidate for text.
func (g *NominatimGeocoder) Search(ctx context.Context, text string) (weather.Place, error) {
	const op = "geocode.search"

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("format", "json")
		values.Set("q", text)
		values.Set("accept-language", "en")

		u := fmt.Sprintf("%s/search?%s", g.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	body, err := upstream.Do(ctx, g.httpCfg, g.circuit, buildRequest)
	if err != nil {
		return weather.Place{}, geocodeError(op, err)
	}

	var candidates []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(body, &candidates); err != nil {
		return weather.Place{}, &weather.Error{Kind: weather.KindUpstreamError, Op: op, Message: "decode", Err: err}
	}
	if len(candidates) == 0 {
		return weather.Place{}, weather.NewError(weather.KindNotFound, op, fmt.Sprintf("no match for %q", text))
	}

	first := candidates[0]
	lat, latErr := strconv.ParseFloat(first.Lat, 64)
	lon, lonErr := strconv.ParseFloat(first.Lon, 64)
	if latErr != nil || lonErr != nil {
		return weather.Place{}, weather.NewError(weather.KindIncompleteResponse, op,
			fmt.Sprintf("unparsable coordinates %q,%q", first.Lat, first.Lon))
	}

	return weather.Place{
		DisplayName: first.DisplayName,
		Latitude:    lat,
		Longitude:   lon,
	}, nil
}

// Reverse labels a position with the first of city, town, village or country.
func (g *NominatimGeocoder) Reverse(ctx context.Context, lat, lon float64) (weather.Place, error) {
	const op = "geocode.reverse"

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
		values.Set("format", "json")
		values.Set("accept-language", "en")

		u := fmt.Sprintf("%s/reverse?%s", g.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	body, err := upstream.Do(ctx, g.httpCfg, g.circuit, buildRequest)
	if err != nil {
		return weather.Place{}, geocodeError(op, err)
	}

	var payload struct {
		Address *struct {
			City    string `json:"city"`
			Town    string `json:"town"`
			Village string `json:"village"`
			Country string `json:"country"`
		} `json:"address"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Place{}, &weather.Error{Kind: weather.KindUpstreamError, Op: op, Message: "decode", Err: err}
	}
	if payload.Address == nil {
		return weather.Place{}, weather.NewError(weather.KindNotFound, op, "no address for position")
	}

	a := payload.Address
	label := common.FirstNonEmpty(a.City, a.Town, a.Village, a.Country)
	if label == "" {
		return weather.Place{}, weather.NewError(weather.KindNotFound, op, "address has no usable label")
	}

	return weather.Place{
		DisplayName: label,
		Latitude:    lat,
		Longitude:   lon,
	}, nil
}
