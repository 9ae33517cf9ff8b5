package site

import "errors"

// Error constants
var (
	ErrNotFound = errors.New("site: file not found")
	ErrServe    = errors.New("site: serve failed")
)
