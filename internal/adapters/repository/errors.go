package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrUnknownDriver     = errors.New("unknown store driver")
	ErrInvalidCollection = errors.New("invalid collection name")
	ErrClosed            = errors.New("store closed")
)
