package collision

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownShapeKind indicates a shape kind outside the closed set.
	ErrUnknownShapeKind = errors.New("collision: unknown shape kind")

	// ErrInvalidShape indicates shape parameters out of range.
	ErrInvalidShape = errors.New("collision: invalid shape")

	// ErrIndexInvariant indicates the shape database lost index alignment.
	ErrIndexInvariant = errors.New("collision: shape index invariant violated")

	// ErrNilModel indicates a nil model or a model without a body.
	ErrNilModel = errors.New("collision: nil collision model")
)

// ContractError reports a corrupt shape record. It is a programming error,
// never a runtime condition callers are expected to recover from.
type ContractError struct {
	Shape   int
	Detail  string
	Wrapped error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%v: shape %d: %s", e.Wrapped, e.Shape, e.Detail)
}

func (e *ContractError) Unwrap() error {
	return e.Wrapped
}

func contractf(shape int, format string, args ...any) *ContractError {
	return &ContractError{Shape: shape, Detail: fmt.Sprintf(format, args...), Wrapped: ErrIndexInvariant}
}
