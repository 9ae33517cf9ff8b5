package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadBody      = errors.New("unparseable request body")
	ErrBodyTooLarge = errors.New("request body too large")
	ErrPanic        = errors.New("handler panic")
)
