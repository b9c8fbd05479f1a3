package formulation

import "fmt"

// SourceReadError means the source spreadsheet could not be opened or
// parsed. No partial document is returned with it.
type SourceReadError struct {
	File string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("extraction: read %q: %v", e.File, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }
