package extract

import (
	"errors"
	"fmt"
)

// ErrInvalidInput reports that the supplied recipe text is missing, empty or
// not valid text. It is the only failure the HTTP boundary distinguishes
// from a generic server error.
var ErrInvalidInput = errors.New("recipe text is empty or not valid text")

// Stage identifies where in the pipeline an extraction failed.
type Stage string

const (
	// StageCompletion covers failures of the external completion call
	// (timeout, auth, quota). The underlying cause is logged, never
	// surfaced verbatim.
	StageCompletion Stage = "completion"

	// StageParse covers completion output that was not parseable JSON.
	StageParse Stage = "parse"
)

// ExtractionError is the uniform failure signal for a pipeline run. Its
// message is safe to return to callers; the wrapped cause is for logs.
type ExtractionError struct {
	Stage Stage
	Err   error
}

func (e *ExtractionError) Error() string {
	switch e.Stage {
	case StageParse:
		return "extraction failed: completion output was not valid JSON"
	default:
		return "extraction failed: completion service call failed"
	}
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func completionError(cause error) *ExtractionError {
	return &ExtractionError{Stage: StageCompletion, Err: cause}
}

func parseError(cause error) *ExtractionError {
	return &ExtractionError{Stage: StageParse, Err: fmt.Errorf("parse completion output: %w", cause)}
}
