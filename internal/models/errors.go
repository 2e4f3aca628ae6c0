package models

import "errors"

var ErrOutsideServiceArea = errors.New("coordinates are outside the serviceable area")
var ErrAddressNotFound = errors.New("delivery address could not be resolved to coordinates")
var ErrInvalidScheduleTime = errors.New("requested delivery time is not a valid timestamp")
var ErrProviderUnavailable = errors.New("delivery provider is unreachable")
var ErrProviderRejected = errors.New("delivery provider rejected the request")
var ErrOrderNotFound = errors.New("no order found for the given provider order id")

// ErrDistanceExceeded indicates that the requested delivery is beyond the
// maximum serviceable range. This is a business rejection and must never be
// covered by a fallback price.
var ErrDistanceExceeded = errors.New("delivery distance exceeds the serviceable range")

// ErrorCodeDistanceExceeded is the structured code surfaced to the checkout
// so it can show a distance-exceeded dialog instead of a misleading price.
const ErrorCodeDistanceExceeded = "DISTANCE_EXCEEDED"

// ErrorResponse is the failure envelope for all endpoints.
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorCode string `json:"errorCode,omitempty"`
}
