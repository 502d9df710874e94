package service

import "errors"

var (
	// ErrNoStore is returned when the service has no document store.
	ErrNoStore = errors.New("service has no store")
	// ErrTopKTooLarge is returned when a requested topK exceeds the configured maximum.
	ErrTopKTooLarge = errors.New("topK exceeds maximum")
)
