package bkdtree

import "iter"

// RangeQuery returns the points p with min[d] <= p[d] <= max[d] on every
// axis d. The arguments are validated before the sequence is returned:
// a nil bound yields an error wrapping ErrNilArgument, a bound of the wrong
// length a *DimensionMismatchError.
func (t *Tree[T, A]) RangeQuery(min, max []float64) (iter.Seq[T], error) {
	if err := t.checkBox(min, max); err != nil {
		return nil, err
	}
	return func(yield func(T) bool) {
		t.searchBox(min, max, yield)
	}, nil
}

// DoForEachInRange calls fn for every point inside the box [min, max].
func (t *Tree[T, A]) DoForEachInRange(min, max []float64, fn func(T)) error {
	if err := t.checkBox(min, max); err != nil {
		return err
	}
	t.searchBox(min, max, func(p T) bool {
		fn(p)
		return true
	})
	return nil
}

// CountInRange returns the number of points inside the box [min, max].
func (t *Tree[T, A]) CountInRange(min, max []float64) (int64, error) {
	if err := t.checkBox(min, max); err != nil {
		return 0, err
	}
	var n int64
	t.searchBox(min, max, func(T) bool {
		n++
		return true
	})
	return n, nil
}

// TryFirstInRange returns the first point found inside the box [min, max]
// and stops searching. Which point is first is deterministic for a given
// tree shape but otherwise unspecified.
func (t *Tree[T, A]) TryFirstInRange(min, max []float64) (T, bool, error) {
	var (
		first T
		found bool
	)
	if err := t.checkBox(min, max); err != nil {
		return first, false, err
	}
	t.searchBox(min, max, func(p T) bool {
		first, found = p, true
		return false
	})
	return first, found, nil
}

func (t *Tree[T, A]) checkBox(min, max []float64) error {
	if err := checkQuery("min", min, t.dims); err != nil {
		return err
	}
	return checkQuery("max", max, t.dims)
}

// searchBox yields the points inside [min, max], left subtrees first, until
// yield returns false.
//
// The left subtree is skipped when split < min[dim], since all its points are
// at or below split; the right subtree is skipped when split >= max[dim],
// since all its points are strictly above split.
func (t *Tree[T, A]) searchBox(min, max []float64, yield func(T) bool) {
	stack := []node[T]{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch v := n.(type) {
		case *internal[T]:
			if v.split < max[v.dim] {
				stack = append(stack, v.right)
			}
			if v.split >= min[v.dim] {
				stack = append(stack, v.left)
			}
		case *leaf[T]:
			for _, p := range v.points {
				if t.inBox(p, min, max) && !yield(p) {
					return
				}
			}
		}
	}
}

func (t *Tree[T, A]) inBox(p T, min, max []float64) bool {
	for d := 0; d < t.dims; d++ {
		c := t.acc.Coordinate(p, d)
		if !(c >= min[d] && c <= max[d]) {
			return false
		}
	}
	return true
}
