package bkdtree

// Visitor receives points during a traversal. Pass a pointer to a struct so
// that state accumulated by Visit stays in the caller's value.
type Visitor[T any] interface {
	Visit(p T)
}

// VisitAll calls v.Visit for every point in t.
func VisitAll[T comparable, A Accessor[T], V Visitor[T]](t *Tree[T, A], v V) {
	walkLeaves(t.root, func(l *leaf[T]) bool {
		for _, p := range l.points {
			v.Visit(p)
		}
		return true
	})
}

// VisitRange calls v.Visit for every point inside the box [min, max]
// (inclusive on both ends). The arguments are validated as for RangeQuery.
func VisitRange[T comparable, A Accessor[T], V Visitor[T]](t *Tree[T, A], min, max []float64, v V) error {
	if err := t.checkBox(min, max); err != nil {
		return err
	}
	t.searchBox(min, max, func(p T) bool {
		v.Visit(p)
		return true
	})
	return nil
}
