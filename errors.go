package bkdtree

import (
	"errors"
	"fmt"
)

var (
	// ErrNilArgument is returned when a required argument (accessor,
	// sequence, query point) is nil.
	ErrNilArgument = errors.New("bkdtree: nil argument")

	// ErrOutOfRange is returned when a numeric argument is outside its valid
	// range, such as a leaf capacity below 2 or a negative radius.
	ErrOutOfRange = errors.New("bkdtree: argument out of range")

	// ErrDimensionMismatch is wrapped by DimensionMismatchError.
	ErrDimensionMismatch = errors.New("bkdtree: dimension mismatch")

	// ErrEmptyIndex is returned by NearestNeighbor on an empty tree.
	ErrEmptyIndex = errors.New("bkdtree: index is empty")
)

// DimensionMismatchError indicates a query point whose component count
// differs from the tree's dimensionality.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("bkdtree: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// checkQuery validates a query point against the tree dimensionality.
func checkQuery(name string, q []float64, dims int) error {
	if q == nil {
		return fmt.Errorf("%w: %s", ErrNilArgument, name)
	}
	if len(q) != dims {
		return &DimensionMismatchError{Expected: dims, Actual: len(q)}
	}
	return nil
}
