package ingest

import (
	"errors"
	"fmt"
)

// ErrIngestion is the sentinel kind matched by every IngestionError.
var ErrIngestion = errors.New("ingestion failed")

// IngestionError reports a file that could not be read as a table.
// Line is the 1-based CSV line where parsing failed, or 0 when unknown.
type IngestionError struct {
	File string
	Line int
	Err  error
}

func (e *IngestionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("ingest %q line %d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("ingest %q: %v", e.File, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrIngestion) hold for any IngestionError.
func (e *IngestionError) Is(target error) bool { return target == ErrIngestion }
