package domain

import (
	"errors"
	"fmt"
)

// Common domain errors surfaced by the fusion engine.
var (
	// ErrEmptyFrame indicates an analysis was attempted without any
	// decision alternatives.
	ErrEmptyFrame = errors.New("frame of discernment is empty")

	// ErrUnknownAlternative indicates a reference to an identifier that is
	// not part of the frame.
	ErrUnknownAlternative = errors.New("unknown alternative")

	// ErrMalformedMatrix indicates a pairwise-comparison matrix that is
	// not square, not positive, not reciprocal, or has a non-unit diagonal.
	ErrMalformedMatrix = errors.New("malformed pairwise-comparison matrix")

	// ErrInconsistentJudgment indicates a pairwise-comparison matrix whose
	// consistency ratio exceeds the accepted threshold. The caller decides
	// whether to re-elicit the judgment or proceed regardless.
	ErrInconsistentJudgment = errors.New("inconsistent judgment")

	// ErrInvalidBPA indicates a mass assignment that violates the
	// sum-to-one or non-negativity invariant beyond floating tolerance.
	// It signals an internal bug or corrupted intermediate state and is
	// never recovered from.
	ErrInvalidBPA = errors.New("invalid basic probability assignment")

	// ErrTotalConflict indicates the normalized (Dempster) rule was forced
	// on two assignments with conflict 1, where the normalization is
	// undefined. The adaptive combiner never returns this error; it
	// switches to the unnormalized rule instead.
	ErrTotalConflict = errors.New("total conflict between evidence sources")

	// ErrNoSources indicates a combination was requested over zero
	// assignments.
	ErrNoSources = errors.New("no evidence sources to combine")
)

// MatrixError wraps a matrix or consistency failure with the expert and
// criterion it belongs to, so callers can exclude that judgment or abort
// the whole run.
type MatrixError struct {
	// ExpertID identifies the expert whose judgment failed.
	ExpertID string

	// CriterionID identifies the criterion the judgment was given for.
	CriterionID string

	// Err is the underlying failure, typically ErrMalformedMatrix or
	// ErrInconsistentJudgment.
	Err error
}

// Error implements the error interface for MatrixError.
func (e *MatrixError) Error() string {
	return fmt.Sprintf("judgment of expert %q for criterion %q: %v", e.ExpertID, e.CriterionID, e.Err)
}

// Unwrap returns the underlying error, supporting errors.Is matching.
func (e *MatrixError) Unwrap() error { return e.Err }

// NewMatrixError creates a MatrixError with the given context.
func NewMatrixError(expertID, criterionID string, err error) *MatrixError {
	return &MatrixError{ExpertID: expertID, CriterionID: criterionID, Err: err}
}
