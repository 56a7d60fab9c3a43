package grid

import (
	"errors"
	"fmt"
)

// ConfigError flags missing or inconsistent mandatory configuration; it is
// never raised for expected heterogeneity in source coverage.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config error: " + e.Reason }

// ConfigErrorf builds a ConfigError from a format string
func ConfigErrorf(format string, args ...interface{}) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err wraps a ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ErrNoOverlap is returned by Resample when the source raster shares no
// spatial coverage with the destination grid. Callers treat it as a
// recoverable coverage warning, not a fault.
var ErrNoOverlap = errors.New("no overlapping coverage")
