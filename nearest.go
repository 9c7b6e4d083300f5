package bkdtree

import (
	"cmp"
	"container/heap"
	"fmt"
	"iter"
	"math"
	"slices"
)

// Neighbor is a point paired with its squared distance to a query.
type Neighbor[T any] struct {
	Point           T
	SquaredDistance float64
}

// frame is a pending subtree in a branch-and-bound search, with a lower bound
// on the squared distance from the query to any point in it.
type frame[T any] struct {
	n     node[T]
	bound float64
}

// NearestNeighbor returns a stored point closest to q by Euclidean distance.
// Ties are broken arbitrarily. Returns ErrEmptyIndex if the tree is empty.
func (t *Tree[T, A]) NearestNeighbor(q []float64) (T, error) {
	p, _, found, err := t.TryNearestNeighborWithDistance(q)
	if err != nil {
		return p, err
	}
	if !found {
		return p, ErrEmptyIndex
	}
	return p, nil
}

// TryNearestNeighbor is like NearestNeighbor but reports an empty tree with
// found == false instead of an error.
func (t *Tree[T, A]) TryNearestNeighbor(q []float64) (T, bool, error) {
	p, _, found, err := t.TryNearestNeighborWithDistance(q)
	return p, found, err
}

// TryNearestNeighborWithDistance is like TryNearestNeighbor and also returns
// the squared distance from q to the point found.
func (t *Tree[T, A]) TryNearestNeighborWithDistance(q []float64) (p T, squaredDistance float64, found bool, err error) {
	if err = checkQuery("query", q, t.dims); err != nil {
		return p, 0, false, err
	}
	if t.count == 0 {
		return p, 0, false, nil
	}
	p, squaredDistance, found = t.nearest(q)
	return p, squaredDistance, found, nil
}

// nearest runs a depth-first branch-and-bound search, visiting the child on
// the query's side of each split first. A far child is visited only while its
// bound is below the best squared distance found so far.
func (t *Tree[T, A]) nearest(q []float64) (best T, bestDist float64, found bool) {
	bestDist = math.Inf(1)
	stack := []frame[T]{{n: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if found && f.bound >= bestDist {
			continue
		}
		switch v := f.n.(type) {
		case *internal[T]:
			near, far := nearFar(v, q)
			stack = append(stack,
				frame[T]{n: far, bound: planeBound(v, q, f.bound)},
				frame[T]{n: near, bound: f.bound},
			)
		case *leaf[T]:
			for _, p := range v.points {
				if d := t.squaredDistance(p, q); !found || d < bestDist {
					best, bestDist, found = p, d, true
				}
			}
		}
	}
	return best, bestDist, found
}

// FindPointsWithinDistance returns the points whose Euclidean distance to q
// is at most maxDistance. maxDistance 0 matches points with exactly q's
// coordinates. A negative maxDistance yields an error wrapping
// ErrOutOfRange; q is validated as for NearestNeighbor.
func (t *Tree[T, A]) FindPointsWithinDistance(q []float64, maxDistance float64) (iter.Seq[T], error) {
	if err := checkQuery("query", q, t.dims); err != nil {
		return nil, err
	}
	if !(maxDistance >= 0) {
		return nil, fmt.Errorf("%w: maxDistance must be >= 0, got %v", ErrOutOfRange, maxDistance)
	}
	r2 := maxDistance * maxDistance
	return func(yield func(T) bool) {
		t.searchRadius(q, r2, yield)
	}, nil
}

// searchRadius yields every point within squared distance r2 of q. Subtrees
// whose bound exceeds r2 are pruned.
func (t *Tree[T, A]) searchRadius(q []float64, r2 float64, yield func(T) bool) {
	stack := []frame[T]{{n: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.bound > r2 {
			continue
		}
		switch v := f.n.(type) {
		case *internal[T]:
			near, far := nearFar(v, q)
			stack = append(stack,
				frame[T]{n: far, bound: planeBound(v, q, f.bound)},
				frame[T]{n: near, bound: f.bound},
			)
		case *leaf[T]:
			for _, p := range v.points {
				if t.squaredDistance(p, q) <= r2 && !yield(p) {
					return
				}
			}
		}
	}
}

// KNearestNeighbors returns up to k stored points closest to q, sorted by
// ascending squared distance. Returns an error wrapping ErrOutOfRange if
// k < 1.
func (t *Tree[T, A]) KNearestNeighbors(q []float64, k int) ([]Neighbor[T], error) {
	if err := checkQuery("query", q, t.dims); err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1, got %d", ErrOutOfRange, k)
	}
	if t.count == 0 {
		return nil, nil
	}
	if int64(k) > t.count {
		k = int(t.count)
	}

	h := &knnHeap[T]{}
	stack := []frame[T]{{n: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		// Prune once k candidates are held and this subtree cannot beat the worst.
		if h.Len() == k && f.bound >= (*h)[0].SquaredDistance {
			continue
		}
		switch v := f.n.(type) {
		case *internal[T]:
			near, far := nearFar(v, q)
			stack = append(stack,
				frame[T]{n: far, bound: planeBound(v, q, f.bound)},
				frame[T]{n: near, bound: f.bound},
			)
		case *leaf[T]:
			for _, p := range v.points {
				d := t.squaredDistance(p, q)
				if h.Len() < k {
					heap.Push(h, Neighbor[T]{Point: p, SquaredDistance: d})
				} else if d < (*h)[0].SquaredDistance {
					(*h)[0] = Neighbor[T]{Point: p, SquaredDistance: d}
					heap.Fix(h, 0)
				}
			}
		}
	}

	out := slices.Clone(*h)
	slices.SortStableFunc(out, func(a, b Neighbor[T]) int {
		return cmp.Compare(a.SquaredDistance, b.SquaredDistance)
	})
	return out, nil
}

// knnHeap is a max-heap of neighbors (largest distance on top) used as a
// bounded priority queue for k-nearest-neighbor queries.
type knnHeap[T any] []Neighbor[T]

func (h knnHeap[T]) Len() int           { return len(h) }
func (h knnHeap[T]) Less(i, j int) bool { return h[i].SquaredDistance > h[j].SquaredDistance }
func (h knnHeap[T]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *knnHeap[T]) Push(x any)        { *h = append(*h, x.(Neighbor[T])) }
func (h *knnHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
