package bkdtree

// SquaredEuclidean returns the squared Euclidean distance between a and b,
// which must have the same length. Queries compare squared distances
// throughout and never take a square root.
func SquaredEuclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// squaredDistance returns the squared Euclidean distance from stored point p
// to query coordinates q.
func (t *Tree[T, A]) squaredDistance(p T, q []float64) float64 {
	var sum float64
	for d := 0; d < t.dims; d++ {
		diff := t.acc.Coordinate(p, d) - q[d]
		sum += diff * diff
	}
	return sum
}

// planeBound returns the lower bound on squared distance from q to the far
// side of n's split plane, tightening the bound inherited from the parent.
func planeBound[T any](n *internal[T], q []float64, parent float64) float64 {
	d := q[n.dim] - n.split
	return max(parent, d*d)
}

// nearFar orders n's children by which side of the split q falls on.
func nearFar[T any](n *internal[T], q []float64) (near, far node[T]) {
	if q[n.dim] <= n.split {
		return n.left, n.right
	}
	return n.right, n.left
}
