package generator

import "fmt"

type Step string

const (
	StepExtraction Step = "extraction"
	StepVersioning Step = "versioning"
	StepRendering  Step = "rendering"
	StepPersist    Step = "persist"
)

// StepError says which stage of a document request failed and on what.
type StepError struct {
	Step   Step
	Target string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Step, e.Target, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// VersionConflictError is returned when the allocated file name was
// taken twice in a row.
type VersionConflictError struct {
	Scope    string
	FileName string
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict: %s already exists in %s", e.FileName, e.Scope)
}
