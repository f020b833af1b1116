// Package errs defines the error taxonomy shared by every pipeline stage.
package errs

import (
	"errors"
	"fmt"
)

// Stage identifies which pipeline component raised an error.
type Stage string

const (
	StagePreprocess Stage = "preprocess"
	StageScore      Stage = "score"
	StageSelect     Stage = "select"
	StageCleanup    Stage = "cleanup"
	StageMetadata   Stage = "metadata"
	StageJSONLD     Stage = "jsonld"
)

// Sentinel errors surfaced to callers, per the error taxonomy: the pipeline
// only ever surfaces NotReaderable and EmptyDocument, everything else is
// swallowed as "no contribution" by the stage that hit it.
var (
	ErrEmptyDocument = errors.New("lectito: no elements survived preprocessing")
	ErrMalformedDOM  = errors.New("lectito: parent/child invariant violated")
)

// NotReaderable reports that the chosen top candidate did not clear the
// configured score or character thresholds.
type NotReaderable struct {
	Score     float64
	Threshold float64
}

func (e *NotReaderable) Error() string {
	return fmt.Sprintf("lectito: not readerable (score %.2f below threshold %.2f)", e.Score, e.Threshold)
}

// Is allows errors.Is(err, &NotReaderable{}) to match regardless of the
// carried score/threshold values.
func (e *NotReaderable) Is(target error) bool {
	_, ok := target.(*NotReaderable)
	return ok
}

// Wrap attaches stage context to an internal error without promoting it to
// one of the surfaced sentinels. Callers at a stage boundary decide whether
// to swallow the wrapped error or let it propagate.
func Wrap(stage Stage, funcName string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("[%s:%s]: %w", stage, funcName, err)
}

// IsStage reports whether err (or any error it wraps) was tagged with stage.
func IsStage(err error, stage Stage) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	tag := "[" + string(stage) + ":"
	for i := 0; i+len(tag) <= len(s); i++ {
		if s[i:i+len(tag)] == tag {
			return true
		}
	}
	return false
}
