package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrAlreadyStarted = errors.New("service already started")
)
