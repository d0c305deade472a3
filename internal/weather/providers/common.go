package providers

import (
	"errors"
	"net/http"

	"github.com/i474232898/weather-outlook/internal/upstream"
	"github.com/i474232898/weather-outlook/internal/weather"
)

// geocodeError maps transport failures of the geocoding service. Every
// non-2xx reply is a generic upstream error.
func geocodeError(op string, err error) *weather.Error {
	if errors.Is(err, upstream.ErrCircuitOpen) {
		return &weather.Error{Kind: weather.KindUpstreamUnavailable, Op: op, Err: err}
	}
	var se *upstream.StatusError
	if errors.As(err, &se) {
		return &weather.Error{Kind: weather.KindUpstreamError, Op: op, Status: se.Code, Body: se.Body}
	}
	return &weather.Error{Kind: weather.KindUpstreamError, Op: op, Err: err}
}

// predictError maps failures of the prediction service by status family.
func predictError(op string, err error) *weather.Error {
	if errors.Is(err, upstream.ErrCircuitOpen) {
		return &weather.Error{Kind: weather.KindUpstreamUnavailable, Op: op, Err: err}
	}
	var se *upstream.StatusError
	if !errors.As(err, &se) {
		return &weather.Error{Kind: weather.KindUpstreamError, Op: op, Err: err}
	}

	e := &weather.Error{Op: op, Status: se.Code}
	switch {
	case se.Code == http.StatusNotFound:
		e.Kind = weather.KindEndpointMissing
	case se.Code == http.StatusBadRequest:
		e.Kind = weather.KindInvalidRequest
		e.Body = se.Body
	case se.Code >= 500:
		e.Kind = weather.KindUpstreamUnavailable
	default:
		e.Kind = weather.KindUpstreamError
		e.Body = se.Body
	}
	return e
}
