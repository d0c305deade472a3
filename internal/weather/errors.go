package weather

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures.
type Kind string

const (
	KindNotFound            Kind = "NotFound"
	KindMissingInput        Kind = "MissingInput"
	KindDateOutOfRange      Kind = "DateOutOfRange"
	KindInvalidRequest      Kind = "InvalidRequest"
	KindEndpointMissing     Kind = "EndpointMissing"
	KindUpstreamUnavailable Kind = "UpstreamUnavailable"
	KindUpstreamError       Kind = "UpstreamError"
	KindIncompleteResponse  Kind = "IncompleteResponse"
	KindPreconditionFailed  Kind = "PreconditionFailed"
)

// Error is the error type returned by every pipeline stage. Error() is the
// diagnostic text; UserMessage() is the short text safe to show.
type Error struct {
	Kind    Kind
	Op      string // e.g. "geocode.search", "predict"
	Status  int    // upstream HTTP status, 0 if none
	Body    string // upstream response body, kept for diagnostics
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns a short description of the failure.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindNotFound:
		return "Location not found"
	case KindMissingInput:
		if e.Message != "" {
			return e.Message
		}
		return "Please select a location and a date"
	case KindDateOutOfRange:
		return "Date must be within the next 12 months"
	case KindInvalidRequest:
		msg := "Invalid input: check the location and date format."
		if e.Body != "" {
			msg += " Backend response: " + e.Body
		}
		return msg
	case KindEndpointMissing:
		return "Prediction endpoint not found"
	case KindUpstreamUnavailable:
		return "Weather service is unavailable, try again later"
	case KindIncompleteResponse:
		return "Incomplete data received from the weather service"
	case KindPreconditionFailed:
		return "No weather data available yet"
	default:
		return "Upstream service error"
	}
}

// NewError builds an *Error without an upstream status.
func NewError(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// KindOf returns the Kind carried by err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
