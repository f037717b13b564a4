package pattern

import (
	"errors"
	"fmt"
)

// ErrFormat indicates a malformed format string. All compile-time failures
// wrap it, so callers can check with errors.Is.
var ErrFormat = errors.New("invalid format string")

func formatError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}
