// Package ahp converts pairwise-comparison judgments into basic
// probability assignments: priority-vector derivation, Saaty consistency
// checking, and the classical AHP-to-BPA mapping.
package ahp

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Errors returned by priority methods and the builder.
var (
	// ErrUnknownPriorityMethod is returned when a configuration names a
	// priority method that is not registered.
	ErrUnknownPriorityMethod = errors.New("unknown priority method")

	// ErrNoConvergence is returned when power iteration fails to settle
	// on the principal eigenvector within the iteration budget.
	ErrNoConvergence = errors.New("eigenvector computation did not converge")
)

// Package-level validator instance for configuration validation.
var validate = validator.New()
