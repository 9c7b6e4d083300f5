package bkdtree

import (
	"fmt"
	"reflect"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Accessor reads coordinates out of points of type T. A tree reads every
// coordinate through its accessor and never inspects T directly.
//
// Coordinate must only be called with 0 <= dim < Dimensions(); the
// accessors in this package panic with an error wrapping ErrOutOfRange
// otherwise.
//
// Accessors should be small stateless value types. The tree stores the
// accessor by value as a type argument, so a value-typed accessor gets its
// own instantiation and coordinate reads in query loops are direct calls.
type Accessor[T any] interface {
	Dimensions() int
	Coordinate(p T, dim int) float64
}

// R2Accessor reads points of gonum's r2.Vec type.
type R2Accessor struct{}

func (R2Accessor) Dimensions() int { return 2 }

func (R2Accessor) Coordinate(p r2.Vec, dim int) float64 {
	switch dim {
	case 0:
		return p.X
	case 1:
		return p.Y
	}
	panic(dimensionOutOfRange(dim, 2))
}

// R3Accessor reads points of gonum's r3.Vec type.
type R3Accessor struct{}

func (R3Accessor) Dimensions() int { return 3 }

func (R3Accessor) Coordinate(p r3.Vec, dim int) float64 {
	switch dim {
	case 0:
		return p.X
	case 1:
		return p.Y
	case 2:
		return p.Z
	}
	panic(dimensionOutOfRange(dim, 3))
}

// FuncAccessor adapts a plain function into an Accessor. Coord is called
// only with dimensions in [0, Dims).
type FuncAccessor[T any] struct {
	Dims  int
	Coord func(p T, dim int) float64
}

func (f FuncAccessor[T]) Dimensions() int { return f.Dims }

func (f FuncAccessor[T]) Coordinate(p T, dim int) float64 {
	if dim < 0 || dim >= f.Dims {
		panic(dimensionOutOfRange(dim, f.Dims))
	}
	return f.Coord(p, dim)
}

func dimensionOutOfRange(dim, dims int) error {
	return fmt.Errorf("%w: dimension %d not in [0, %d)", ErrOutOfRange, dim, dims)
}

// isNilAccessor reports whether acc is a nil interface, pointer, map,
// channel or func value, or a FuncAccessor without a function.
func isNilAccessor(acc any) bool {
	if acc == nil {
		return true
	}
	if f, ok := acc.(interface{ nilFunc() bool }); ok {
		return f.nilFunc()
	}
	v := reflect.ValueOf(acc)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func (f FuncAccessor[T]) nilFunc() bool { return f.Coord == nil }
