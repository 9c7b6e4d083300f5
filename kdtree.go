package bkdtree

import (
	"fmt"
	"iter"
	"slices"
)

// Tree is a bucket-leaf k-d tree over points of type T whose coordinates are
// read through the accessor A.
//
// The tree is a multiset: equal points may be stored more than once.
// Leaves hold up to LeafCapacity points; an overflowing leaf is split at the
// rank median of its points along an axis that rotates with depth.
//
// A Tree is not safe for concurrent use. Concurrent reads are safe only when
// no mutation runs at the same time.
type Tree[T comparable, A Accessor[T]] struct {
	root    node[T]
	count   int64
	dims    int
	leafCap int
	workers int
	acc     A
	log     *Logger
}

// New creates an empty tree reading coordinates through acc.
//
// Zero-valued fields of cfg take their defaults, so Config{} is valid.
// Returns an error wrapping ErrNilArgument if acc is nil, and one wrapping
// ErrOutOfRange if acc reports fewer than one dimension or cfg is invalid.
func New[T comparable, A Accessor[T]](acc A, cfg Config) (*Tree[T, A], error) {
	if isNilAccessor(acc) {
		return nil, fmt.Errorf("%w: accessor", ErrNilArgument)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	dims := acc.Dimensions()
	if dims < 1 {
		return nil, fmt.Errorf("%w: accessor must report >= 1 dimension, got %d", ErrOutOfRange, dims)
	}

	return &Tree[T, A]{
		root:    newLeaf[T](0, cfg.LeafCapacity),
		dims:    dims,
		leafCap: cfg.LeafCapacity,
		workers: cfg.BuildWorkers,
		acc:     acc,
		log:     cfg.Logger,
	}, nil
}

// Count returns the number of stored points.
func (t *Tree[T, A]) Count() int64 { return t.count }

// Dimensions returns the dimensionality reported by the accessor.
func (t *Tree[T, A]) Dimensions() int { return t.dims }

// LeafCapacity returns the maximum number of points per leaf.
func (t *Tree[T, A]) LeafCapacity() int { return t.leafCap }

// Add inserts p, splitting the receiving leaf if it overflows.
func (t *Tree[T, A]) Add(p T) {
	slot := &t.root
	depth := 0
	for {
		switch n := (*slot).(type) {
		case *internal[T]:
			slot = n.childSlot(t.acc.Coordinate(p, n.dim))
			depth++
		case *leaf[T]:
			if n.stuck {
				if len(n.points) > 0 && t.samePosition(p, n.points[0]) {
					n.points = append(n.points, p)
					t.count++
					return
				}
				n.stuck = false
			}
			n.points = append(n.points, p)
			t.count++
			if len(n.points) > t.leafCap {
				t.splitLeaf(slot, n, depth)
			}
			return
		}
	}
}

// splitLeaf replaces the leaf in slot with an internal node over two new
// leaves. A leaf whose points are all coordinate-identical is marked stuck
// and left as is.
func (t *Tree[T, A]) splitLeaf(slot *node[T], n *leaf[T], depth int) {
	b := bucket[T](n.points)
	pivot, dim, split, ok := t.splitRange(b, 0, int64(len(b)), depth)
	if !ok {
		n.stuck = true
		return
	}
	*slot = &internal[T]{
		dim:   dim,
		split: split,
		left:  leafWith(n.points[:pivot], t.leafCap),
		right: leafWith(n.points[pivot:], t.leafCap),
	}
}

// AddRange inserts every point produced by seq, one at a time.
// Returns an error wrapping ErrNilArgument if seq is nil.
func (t *Tree[T, A]) AddRange(seq iter.Seq[T]) error {
	if seq == nil {
		return fmt.Errorf("%w: sequence", ErrNilArgument)
	}
	for p := range seq {
		t.Add(p)
	}
	return nil
}

// AddSlice inserts every point in points, one at a time.
func (t *Tree[T, A]) AddSlice(points []T) {
	for _, p := range points {
		t.Add(p)
	}
}

// samePosition reports whether a and b have equal coordinates on every axis.
func (t *Tree[T, A]) samePosition(a, b T) bool {
	for d := 0; d < t.dims; d++ {
		if t.acc.Coordinate(a, d) != t.acc.Coordinate(b, d) {
			return false
		}
	}
	return true
}

// findLeaf returns the only leaf that can hold a point equal to p.
func (t *Tree[T, A]) findLeaf(p T) *leaf[T] {
	n := t.root
	for {
		switch v := n.(type) {
		case *internal[T]:
			n = v.child(t.acc.Coordinate(p, v.dim))
		case *leaf[T]:
			return v
		}
	}
}

// Contains reports whether a point equal to p is stored.
func (t *Tree[T, A]) Contains(p T) bool {
	return slices.Contains(t.findLeaf(p).points, p)
}

// Remove deletes one point equal to p and reports whether one was found.
// Leaves are never merged; an emptied leaf stays in the tree.
func (t *Tree[T, A]) Remove(p T) bool {
	_, ok := t.RemoveAndGet(p)
	return ok
}

// RemoveAndGet deletes one point equal to p and returns the stored value.
func (t *Tree[T, A]) RemoveAndGet(p T) (T, bool) {
	l := t.findLeaf(p)
	i := slices.Index(l.points, p)
	if i < 0 {
		var zero T
		return zero, false
	}
	removed := l.points[i]
	last := len(l.points) - 1
	l.points[i] = l.points[last]
	var zero T
	l.points[last] = zero
	l.points = l.points[:last]
	t.count--
	return removed, true
}

// Clear removes every point and resets the tree to a single empty leaf.
func (t *Tree[T, A]) Clear() {
	discarded := t.count
	t.root = newLeaf[T](0, t.leafCap)
	t.count = 0
	t.log.logClear(discarded)
}

// All returns a sequence over every stored point. The order follows the
// tree layout and may change after any mutation. The sequence can be
// iterated more than once.
func (t *Tree[T, A]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		walkLeaves(t.root, func(l *leaf[T]) bool {
			for _, p := range l.points {
				if !yield(p) {
					return false
				}
			}
			return true
		})
	}
}

// DoForEach calls fn for every stored point.
func (t *Tree[T, A]) DoForEach(fn func(T)) {
	walkLeaves(t.root, func(l *leaf[T]) bool {
		for _, p := range l.points {
			fn(p)
		}
		return true
	})
}

// walkLeaves visits every leaf left to right until fn returns false.
func walkLeaves[T any](root node[T], fn func(*leaf[T]) bool) {
	stack := []node[T]{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch v := n.(type) {
		case *internal[T]:
			stack = append(stack, v.right, v.left)
		case *leaf[T]:
			if !fn(v) {
				return
			}
		}
	}
}
