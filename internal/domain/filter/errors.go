package filter

import "errors"

// ErrInvalidTopK is returned by ParseTopK for anything but "all" or a positive integer.
var ErrInvalidTopK = errors.New("invalid topK")
