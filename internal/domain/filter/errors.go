package filter

import (
	"errors"
	"fmt"
)

// Sentinel kinds for filter errors. These allow errors.Is/As from callers.
var (
	ErrSchema        = errors.New("schema error")
	ErrInvalidFilter = errors.New("invalid filter")
)

// SchemaError reports a stage that needs a column no uploaded file carried.
type SchemaError struct {
	Stage  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("stage %s: missing column %q", e.Stage, e.Column)
}

// Is makes errors.Is(err, ErrSchema) hold for any SchemaError.
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFilter, fmt.Sprintf(format, args...))
}
