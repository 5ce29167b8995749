package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptDocument is returned by Load when the settings file is not a JSON object.
	ErrCorruptDocument = errors.New("settings document is corrupt")
	// ErrUnknownKey is returned for a scalar key that has no entry in the defaults table.
	ErrUnknownKey = errors.New("unknown settings key")
	// ErrUnknownFrame is returned when a frame id has neither a cached nor a default layout.
	ErrUnknownFrame = errors.New("unknown frame")
)

// FieldError reports a scalar whose stored value could not be parsed. The
// store falls back to the default for that key.
type FieldError struct {
	Key string
	Raw string
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("settings key %s: cannot parse %q: %v", e.Key, e.Raw, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
