package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-outlook/internal/common"
	"github.com/i474232898/weather-outlook/internal/upstream"
	"github.com/i474232898/weather-outlook/internal/weather"
)

// zeroResultsMessage is the error text geocoder returns for ZERO_RESULTS.
const zeroResultsMessage = "No results found."

var errNoResults = errors.New("no geocoding results")

// GoogleGeocoder implements weather.Geocoder with the Google Geocoding API.
// The geocoder package keeps its key and URL in package variables and uses
// its own HTTP client, so each call runs in a goroutine bounded by timeout.
type GoogleGeocoder struct {
	name    string
	timeout time.Duration
	circuit *gobreaker.CircuitBreaker

	// inflight tracks library calls that may outlive a timed-out caller.
	inflight sync.WaitGroup
}

// NewGoogleGeocoder sets the process-wide API key. Only one Google key is
// supported per process.
func NewGoogleGeocoder(apiKey string, timeout time.Duration) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{
		name:    "google",
		timeout: timeout,
		circuit: upstream.NewCircuit("google-geocoder", errNoResults),
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

type callResult struct {
	value interface{}
	err   error
}

func (g *GoogleGeocoder) call(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return upstream.Execute(g.circuit, func() (interface{}, error) {
		done := make(chan callResult, 1)
		g.inflight.Add(1)
		go func() {
			defer g.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					done <- callResult{err: fmt.Errorf("malformed geocoding reply: %v", r)}
				}
			}()
			v, err := fn()
			if err != nil && err.Error() == zeroResultsMessage {
				err = errNoResults
			}
			done <- callResult{value: v, err: err}
		}()

		select {
		case res := <-done:
			return res.value, res.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

// Search geocodes text, then labels the hit with its formatted address.
func (g *GoogleGeocoder) Search(ctx context.Context, text string) (weather.Place, error) {
	const op = "geocode.search"

	result, err := g.call(ctx, func() (interface{}, error) {
		// geocoder only turns spaces into '+', so the text is escaped here.
		return geocoder.Geocoding(geocoder.Address{Street: url.QueryEscape(text)})
	})
	if errors.Is(err, errNoResults) {
		return weather.Place{}, weather.NewError(weather.KindNotFound, op, fmt.Sprintf("no match for %q", text))
	}
	if err != nil {
		return weather.Place{}, geocodeError(op, err)
	}
	loc, ok := result.(geocoder.Location)
	if !ok {
		return weather.Place{}, weather.NewError(weather.KindNotFound, op, fmt.Sprintf("no match for %q", text))
	}

	name := text
	if addrs, err := g.reverse(ctx, loc); err == nil && len(addrs) > 0 && addrs[0].FormattedAddress != "" {
		name = addrs[0].FormattedAddress
	}

	return weather.Place{
		DisplayName: strings.TrimSpace(name),
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
	}, nil
}

// Reverse labels a position with the first of city, district, neighborhood or country.
func (g *GoogleGeocoder) Reverse(ctx context.Context, lat, lon float64) (weather.Place, error) {
	const op = "geocode.reverse"

	addrs, err := g.reverse(ctx, geocoder.Location{Latitude: lat, Longitude: lon})
	if errors.Is(err, errNoResults) || (err == nil && len(addrs) == 0) {
		return weather.Place{}, weather.NewError(weather.KindNotFound, op, "no address for position")
	}
	if err != nil {
		return weather.Place{}, geocodeError(op, err)
	}

	a := addrs[0]
	label := common.FirstNonEmpty(a.City, a.District, a.Neighborhood, a.Country)
	if label == "" {
		return weather.Place{}, weather.NewError(weather.KindNotFound, op, "address has no usable label")
	}
	return weather.Place{DisplayName: label, Latitude: lat, Longitude: lon}, nil
}

func (g *GoogleGeocoder) reverse(ctx context.Context, loc geocoder.Location) ([]geocoder.Address, error) {
	result, err := g.call(ctx, func() (interface{}, error) {
		return geocoder.GeocodingReverse(loc)
	})
	if err != nil {
		return nil, err
	}
	addrs, _ := result.([]geocoder.Address)
	return addrs, nil
}
