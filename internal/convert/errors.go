package convert

import "fmt"

// Stage identifies the pipeline phase where a conversion failed.
type Stage string

// Pipeline stages, in execution order.
const (
	StageInput     Stage = "input"
	StageSynthesis Stage = "synthesis"
	StageEmit      Stage = "emit"
	StageWrite     Stage = "write"
)

// Error wraps a conversion failure with the stage that caused it.
// Input and synthesis failures abort the request before any artifact
// is written; partial files would be misleading.
type Error struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// stageError wraps err with its pipeline stage.
func stageError(stage Stage, err error) *Error {
	return &Error{Stage: stage, Err: err}
}
