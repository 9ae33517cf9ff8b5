package logger

import "errors"

// ErrNilWriter is returned when the logger is initialized without an output.
var ErrNilWriter = errors.New("logger: nil writer")
