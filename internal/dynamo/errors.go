package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for operator and trajectory operations.
var (
	// ErrShape indicates an operator was applied to a vector of the wrong length.
	ErrShape = errors.New("dynamo: shape mismatch between operator and state")

	// ErrConstruction indicates malformed input to an operator or noise factory.
	ErrConstruction = errors.New("dynamo: malformed construction input")

	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates run parameters outside their valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid run configuration")
)

// ShapeError reports the operation and the dimensions that disagreed.
type ShapeError struct {
	Op   string
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("dynamo: %s: expected length %d, got %d", e.Op, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error {
	return ErrShape
}

// CheckLen returns a *ShapeError when len(x) != want.
func CheckLen(op string, want int, x State) error {
	if len(x) != want {
		return &ShapeError{Op: op, Want: want, Got: len(x)}
	}
	return nil
}

// SimulationError wraps an error with trajectory context.
type SimulationError struct {
	Row     int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("row %d (t=%.4f): %v", e.Row, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
