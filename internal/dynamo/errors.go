package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter indicates a derived plant quantity (τ, ζ, ωn) that is
	// zero, out of domain, or non-finite.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownMode indicates a plant mode name that does not parse.
	ErrUnknownMode = errors.New("dynamo: unknown plant mode")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// ParameterError names the quantity that failed validation.
type ParameterError struct {
	Name    string
	Value   float64
	Wrapped error
}

func NewParameterError(name string, value float64) *ParameterError {
	return &ParameterError{Name: name, Value: value, Wrapped: ErrInvalidParameter}
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%g", e.Wrapped.Error(), e.Name, e.Value)
}

func (e *ParameterError) Unwrap() error {
	return e.Wrapped
}
