package bkdtree

// swapper is the in-place view the split planner works on. A leaf bucket
// and the bulk-build buffer both satisfy it.
type swapper[T any] interface {
	At(i int64) T
	Swap(i, j int64)
}

// bucket adapts a leaf's slice to swapper.
type bucket[T any] []T

func (b bucket[T]) At(i int64) T    { return b[i] }
func (b bucket[T]) Swap(i, j int64) { b[i], b[j] = b[j], b[i] }

// splitRange reorders s[lo:hi) so that s[lo:pivot) lies at or below value on
// axis dim and s[pivot:hi) lies strictly above it, with both sides non-empty.
//
// The axis is depth mod Dimensions. If every point in the range shares its
// coordinate on that axis, the following axes are tried in turn. ok is false
// only when the points are coordinate-identical on every axis.
func (t *Tree[T, A]) splitRange(s swapper[T], lo, hi int64, depth int) (pivot int64, dim int, value float64, ok bool) {
	for i := 0; i < t.dims; i++ {
		dim = (depth + i) % t.dims
		if pivot, value, ok = t.splitAxis(s, lo, hi, dim); ok {
			return pivot, dim, value, true
		}
	}
	return 0, 0, 0, false
}

// splitAxis partitions s[lo:hi) around its rank median on one axis.
func (t *Tree[T, A]) splitAxis(s swapper[T], lo, hi int64, dim int) (int64, float64, bool) {
	key := func(i int64) float64 { return t.acc.Coordinate(s.At(i), dim) }

	k := lo + (hi-lo-1)/2
	selectNth(s, lo, hi, k, key)
	v := key(k)

	// Everything after k is >= v. Pull the ties down next to the median so
	// the upper side is strictly greater.
	p := partitionBy(s, k+1, hi, key, func(c float64) bool { return c <= v })
	if p < hi {
		return p, v, true
	}

	// The median is the maximum. Split below it instead: everything strictly
	// less than v goes left, and the split value is the largest of those.
	q := partitionBy(s, lo, k, key, func(c float64) bool { return c < v })
	if q == lo {
		return 0, 0, false
	}
	split := key(lo)
	for i := lo + 1; i < q; i++ {
		split = max(split, key(i))
	}
	return q, split, true
}

// selectNth reorders s[lo:hi) so that s[k] holds the element of rank k-lo by
// key, everything before it is <= and everything after it is >=.
// It is an iterative quickselect with a three-way partition, so runs of
// equal keys do not degrade it.
func selectNth[T any](s swapper[T], lo, hi, k int64, key func(int64) float64) {
	for hi-lo > 1 {
		pv := median3(key(lo), key(lo+(hi-lo)/2), key(hi-1))

		// [lo,lt) < pv, [lt,i) == pv, [gt,hi) > pv
		lt, i, gt := lo, lo, hi
		for i < gt {
			c := key(i)
			switch {
			case c < pv:
				s.Swap(lt, i)
				lt++
				i++
			case c > pv:
				gt--
				s.Swap(i, gt)
			default:
				i++
			}
		}

		switch {
		case k < lt:
			hi = lt
		case k >= gt:
			lo = gt
		default:
			return
		}
	}
}

// partitionBy moves the elements of s[lo:hi) whose key satisfies keep to the
// front and returns the index of the first element that does not.
func partitionBy[T any](s swapper[T], lo, hi int64, key func(int64) float64, keep func(float64) bool) int64 {
	j := lo
	for i := lo; i < hi; i++ {
		if keep(key(i)) {
			if i != j {
				s.Swap(i, j)
			}
			j++
		}
	}
	return j
}

func median3(a, b, c float64) float64 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		b = a
	}
	return b
}
