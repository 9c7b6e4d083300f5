package bkdtree

// node is a tree node: either a *leaf or an *internal. The unexported
// method closes the set of variants.
type node[T any] interface {
	isNode()
}

// leaf holds an unordered bucket of points.
//
// stuck is set when a split found every point coordinate-identical. While it
// is set the bucket holds only copies of one position and may exceed the
// leaf capacity.
type leaf[T any] struct {
	points []T
	stuck  bool
}

// internal partitions its points on one axis: the left subtree holds points
// with coordinate[dim] <= split, the right subtree points with
// coordinate[dim] > split. Children are owned exclusively.
type internal[T any] struct {
	dim         int
	split       float64
	left, right node[T]
}

func (*leaf[T]) isNode()     {}
func (*internal[T]) isNode() {}

// newLeaf allocates an empty leaf with room for size points, and at least
// a full bucket plus the point that triggers a split.
func newLeaf[T any](size, leafCap int) *leaf[T] {
	return &leaf[T]{points: make([]T, 0, max(size, leafCap+1))}
}

// leafWith returns a new leaf holding a copy of points.
func leafWith[T any](points []T, leafCap int) *leaf[T] {
	l := newLeaf[T](len(points), leafCap)
	l.points = append(l.points, points...)
	return l
}

// child returns the subtree a coordinate value descends into.
func (n *internal[T]) child(c float64) node[T] {
	if c <= n.split {
		return n.left
	}
	return n.right
}

// childSlot is like child but returns the owning field so the subtree can be
// replaced in place.
func (n *internal[T]) childSlot(c float64) *node[T] {
	if c <= n.split {
		return &n.left
	}
	return &n.right
}
