package flux

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for spectrum operations.
var (
	// ErrUnknownSpecies indicates a species tag outside the allowed set.
	ErrUnknownSpecies = errors.New("flux: unknown species")

	// ErrUnknownModel indicates an unknown source, magnetosphere or rule name.
	ErrUnknownModel = errors.New("flux: unknown model")

	// ErrShapeMismatch indicates array shapes that cannot be broadcast together.
	ErrShapeMismatch = errors.New("flux: shapes cannot be broadcast")

	// ErrDimensionMismatch indicates matrix operands with incompatible dimensions.
	ErrDimensionMismatch = errors.New("flux: dimension mismatch")

	// ErrInvalidGrid indicates a grid that is empty, unsorted or not positive.
	ErrInvalidGrid = errors.New("flux: invalid grid")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("flux: parameter out of valid bounds")
)

// DomainError reports a tag that is not in the set a function accepts.
type DomainError struct {
	Kind    string
	Tag     string
	Allowed []string
	Wrapped error
}

func (e *DomainError) Error() string {
	quoted := make([]string, len(e.Allowed))
	for i, a := range e.Allowed {
		quoted[i] = "`" + a + "`"
	}
	return fmt.Sprintf("`%s` is not a valid %s, use %s", e.Tag, e.Kind, strings.Join(quoted, ", "))
}

func (e *DomainError) Unwrap() error {
	return e.Wrapped
}
