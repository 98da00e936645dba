package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidRequest = errors.New("invalid request")
	ErrValidation     = errors.New("validation error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternal       = errors.New("internal server error")

	// Alert pipeline errors. The producer side swallows ErrPublishFailed
	// after logging; the consumer side treats the others as the terminal
	// outcome of a single message and keeps consuming.
	ErrPublishFailed    = errors.New("publish failed")
	ErrMalformedEvent   = errors.New("malformed event")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrStoreUnavailable = errors.New("notification store unavailable")
	ErrDispatchFailed   = errors.New("email dispatch failed")
)
