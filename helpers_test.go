package bkdtree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

// vec4 is a 4-dimensional test point with a value-typed accessor.
type vec4 [4]float64

type vec4Accessor struct{}

func (vec4Accessor) Dimensions() int                    { return 4 }
func (vec4Accessor) Coordinate(p vec4, dim int) float64 { return p[dim] }

// tagged is a point carrying a payload that does not take part in the
// coordinates, so distinct values can share a position.
type tagged struct {
	X, Y float64
	ID   int
}

var taggedAccessor = FuncAccessor[tagged]{
	Dims: 2,
	Coord: func(p tagged, dim int) float64 {
		if dim == 0 {
			return p.X
		}
		return p.Y
	},
}

func newR2Tree(t testing.TB, leafCap int) *Tree[r2.Vec, R2Accessor] {
	t.Helper()
	cfg := DefaultConfig()
	cfg.LeafCapacity = leafCap
	tree, err := New[r2.Vec](R2Accessor{}, cfg)
	require.NoError(t, err)
	return tree
}

func v2(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }

func coords(p r2.Vec) []float64 { return []float64{p.X, p.Y} }

// randomR2 returns n points uniform in [0, scale)².
func randomR2(rng *rand.Rand, n int, scale float64) []r2.Vec {
	pts := make([]r2.Vec, n)
	for i := range pts {
		pts[i] = v2(rng.Float64()*scale, rng.Float64()*scale)
	}
	return pts
}

// gridR2 returns n points with small integer coordinates, so many points
// share coordinates and land exactly on split values.
func gridR2(rng *rand.Rand, n, side int) []r2.Vec {
	pts := make([]r2.Vec, n)
	for i := range pts {
		pts[i] = v2(float64(rng.Intn(side)), float64(rng.Intn(side)))
	}
	return pts
}

func randomVec4(rng *rand.Rand, n int) []vec4 {
	pts := make([]vec4, n)
	for i := range pts {
		for d := range pts[i] {
			pts[i][d] = rng.Float64()*200 - 100
		}
	}
	return pts
}

func bruteRange(points []r2.Vec, min, max []float64) []r2.Vec {
	var out []r2.Vec
	for _, p := range points {
		if p.X >= min[0] && p.X <= max[0] && p.Y >= min[1] && p.Y <= max[1] {
			out = append(out, p)
		}
	}
	return out
}

func bruteNearestDist(points []r2.Vec, q []float64) float64 {
	best := math.Inf(1)
	for _, p := range points {
		best = min(best, SquaredEuclidean(coords(p), q))
	}
	return best
}

func bruteWithin(points []r2.Vec, q []float64, r float64) []r2.Vec {
	var out []r2.Vec
	for _, p := range points {
		if SquaredEuclidean(coords(p), q) <= r*r {
			out = append(out, p)
		}
	}
	return out
}

// checkInvariants verifies the split invariant for every internal node and
// that the leaf buckets add up to Count.
func checkInvariants[T comparable, A Accessor[T]](t *testing.T, tree *Tree[T, A]) {
	t.Helper()
	lo := make([]float64, tree.dims)
	hi := make([]float64, tree.dims)
	for d := range lo {
		lo[d] = math.Inf(-1)
		hi[d] = math.Inf(1)
	}
	total := checkNode(t, tree, tree.root, lo, hi)
	require.Equal(t, tree.Count(), total, "leaf sizes must sum to Count")
}

// checkNode requires every point under n to satisfy lo[d] < c <= hi[d] and
// returns the number of points.
func checkNode[T comparable, A Accessor[T]](t *testing.T, tree *Tree[T, A], n node[T], lo, hi []float64) int64 {
	t.Helper()
	switch v := n.(type) {
	case *leaf[T]:
		for _, p := range v.points {
			for d := 0; d < tree.dims; d++ {
				c := tree.acc.Coordinate(p, d)
				require.Greater(t, c, lo[d], "point %v dim %d below region", p, d)
				require.LessOrEqual(t, c, hi[d], "point %v dim %d above region", p, d)
			}
		}
		return int64(len(v.points))
	case *internal[T]:
		require.GreaterOrEqual(t, v.dim, 0)
		require.Less(t, v.dim, tree.dims)
		require.NotNil(t, v.left)
		require.NotNil(t, v.right)

		leftHi := append([]float64(nil), hi...)
		leftHi[v.dim] = min(hi[v.dim], v.split)
		rightLo := append([]float64(nil), lo...)
		rightLo[v.dim] = max(lo[v.dim], v.split)

		return checkNode(t, tree, v.left, lo, leftHi) +
			checkNode(t, tree, v.right, rightLo, hi)
	}
	t.Fatalf("unexpected node type %T", n)
	return 0
}
