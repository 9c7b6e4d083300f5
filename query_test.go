package bkdtree

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestRangeQuery_Scenario(t *testing.T) {
	for _, leafCap := range []int{2, 32} {
		tree := newR2Tree(t, leafCap)
		tree.AddSlice([]r2.Vec{v2(1, 1), v2(2, 2), v2(3, 3), v2(10, 10), v2(20, 20)})

		seq, err := tree.RangeQuery([]float64{0, 0}, []float64{5, 5})
		require.NoError(t, err)
		assert.ElementsMatch(t, []r2.Vec{v2(1, 1), v2(2, 2), v2(3, 3)}, slices.Collect(seq))
	}
}

func TestRangeQuery_InclusiveBounds(t *testing.T) {
	tree := newR2Tree(t, 2)
	tree.AddSlice([]r2.Vec{v2(0, 0), v2(5, 5), v2(5, 0), v2(0, 5), v2(6, 5), v2(5, 6)})

	seq, err := tree.RangeQuery([]float64{0, 0}, []float64{5, 5})
	require.NoError(t, err)
	assert.ElementsMatch(t, []r2.Vec{v2(0, 0), v2(5, 5), v2(5, 0), v2(0, 5)}, slices.Collect(seq))

	// A degenerate box selects exactly one position.
	seq, err = tree.RangeQuery([]float64{5, 5}, []float64{5, 5})
	require.NoError(t, err)
	assert.Equal(t, []r2.Vec{v2(5, 5)}, slices.Collect(seq))

	// An inverted box is empty.
	n, err := tree.CountInRange([]float64{5, 5}, []float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestRangeQuery_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	datasets := map[string][]r2.Vec{
		"uniform": randomR2(rng, 2000, 100),
		"grid":    gridR2(rng, 2000, 12), // many points sit exactly on split values
	}
	for name, pts := range datasets {
		for _, build := range []string{"add", "bulk"} {
			t.Run(name+"/"+build, func(t *testing.T) {
				tree := newR2Tree(t, 4)
				if build == "add" {
					tree.AddSlice(pts)
				} else {
					require.NoError(t, tree.BulkAdd(slices.Values(pts)))
				}

				for i := 0; i < 200; i++ {
					var lo, hi []float64
					if name == "grid" {
						a, b := float64(rng.Intn(12)), float64(rng.Intn(12))
						c, d := float64(rng.Intn(12)), float64(rng.Intn(12))
						lo, hi = []float64{min(a, b), min(c, d)}, []float64{max(a, b), max(c, d)}
					} else {
						a, b := rng.Float64()*110-5, rng.Float64()*110-5
						c, d := rng.Float64()*110-5, rng.Float64()*110-5
						lo, hi = []float64{min(a, b), min(c, d)}, []float64{max(a, b), max(c, d)}
					}

					want := bruteRange(pts, lo, hi)
					seq, err := tree.RangeQuery(lo, hi)
					require.NoError(t, err)
					got := slices.Collect(seq)
					require.ElementsMatch(t, want, got, "box %v-%v", lo, hi)

					n, err := tree.CountInRange(lo, hi)
					require.NoError(t, err)
					require.Equal(t, int64(len(want)), n)

					first, found, err := tree.TryFirstInRange(lo, hi)
					require.NoError(t, err)
					require.Equal(t, len(want) > 0, found)
					if found {
						require.Contains(t, want, first)
					}
				}
			})
		}
	}
}

func TestRangeQuery_HigherDimensions(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	tree, err := New[vec4](vec4Accessor{}, Config{LeafCapacity: 5})
	require.NoError(t, err)
	pts := randomVec4(rng, 1000)
	tree.AddSlice(pts)

	lo := []float64{-50, -60, -20, -100}
	hi := []float64{50, 10, 80, 0}
	var want []vec4
	for _, p := range pts {
		in := true
		for d := range p {
			in = in && p[d] >= lo[d] && p[d] <= hi[d]
		}
		if in {
			want = append(want, p)
		}
	}

	seq, err := tree.RangeQuery(lo, hi)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, slices.Collect(seq))
}

func TestRangeQuery_Validation(t *testing.T) {
	tree := newR2Tree(t, 2)
	tree.AddSlice([]r2.Vec{v2(1, 1), v2(2, 2), v2(3, 3)})
	ok2 := []float64{0, 0}

	tests := []struct {
		name     string
		min, max []float64
		wantErr  error
	}{
		{"nil min", nil, ok2, ErrNilArgument},
		{"nil max", ok2, nil, ErrNilArgument},
		{"short min", []float64{0}, ok2, ErrDimensionMismatch},
		{"long max", ok2, []float64{1, 2, 3}, ErrDimensionMismatch},
		{"empty min", []float64{}, ok2, ErrDimensionMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := tree.RangeQuery(tt.min, tt.max)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, seq)

			_, err = tree.CountInRange(tt.min, tt.max)
			assert.ErrorIs(t, err, tt.wantErr)

			_, _, err = tree.TryFirstInRange(tt.min, tt.max)
			assert.ErrorIs(t, err, tt.wantErr)

			called := false
			err = tree.DoForEachInRange(tt.min, tt.max, func(r2.Vec) { called = true })
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, called, "no results before a validation failure")

			var v sumVisitor
			err = VisitRange(tree, tt.min, tt.max, &v)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, v.n)
		})
	}
}

func TestRangeQuery_Lazy(t *testing.T) {
	tree := newR2Tree(t, 2)
	pts := randomR2(rand.New(rand.NewSource(4)), 100, 10)
	tree.AddSlice(pts)

	seq, err := tree.RangeQuery([]float64{0, 0}, []float64{10, 10})
	require.NoError(t, err)

	// Restartable, and the second pass sees mutations made in between.
	assert.Len(t, slices.Collect(seq), 100)
	tree.Add(v2(5, 5))
	assert.Len(t, slices.Collect(seq), 101)

	// Stops when the consumer does.
	seen := 0
	for range seq {
		seen++
		if seen == 3 {
			break
		}
	}
	assert.Equal(t, 3, seen)
}

func TestDoForEachInRange(t *testing.T) {
	tree := newR2Tree(t, 3)
	tree.AddSlice([]r2.Vec{v2(1, 1), v2(2, 2), v2(3, 3), v2(10, 10)})

	var got []r2.Vec
	err := tree.DoForEachInRange([]float64{2, 2}, []float64{10, 10}, func(p r2.Vec) {
		got = append(got, p)
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []r2.Vec{v2(2, 2), v2(3, 3), v2(10, 10)}, got)

	var v sumVisitor
	require.NoError(t, VisitRange(tree, []float64{0, 0}, []float64{3, 3}, &v))
	assert.Equal(t, 3, v.n)
	assert.Equal(t, 6.0, v.sumX)
}

func TestTryFirstInRange_LeftBeforeRight(t *testing.T) {
	tree := newR2Tree(t, 2)
	tree.AddSlice([]r2.Vec{v2(1, 0), v2(2, 0), v2(3, 0)})
	// Root splits at x=2: left {1,2}, right {3}. Every point matches, so the
	// first match comes from the left leaf.
	first, found, err := tree.TryFirstInRange([]float64{0, -1}, []float64{10, 1})
	require.NoError(t, err)
	require.True(t, found)
	assert.LessOrEqual(t, first.X, 2.0)
}

func TestSearchBox_PruningTies(t *testing.T) {
	// Hand-built tree: split on x at 5. Left holds x <= 5, right x > 5.
	tree := newR2Tree(t, 4)
	tree.root = &internal[r2.Vec]{
		dim:   0,
		split: 5,
		left:  leafWith([]r2.Vec{v2(5, 0), v2(4, 0)}, 4),
		right: leafWith([]r2.Vec{v2(6, 0)}, 4),
	}
	tree.count = 3

	tests := []struct {
		name     string
		lo, hi   float64
		expected []r2.Vec
	}{
		{"box starts at split", 5, 9, []r2.Vec{v2(5, 0), v2(6, 0)}},
		{"box ends at split", 0, 5, []r2.Vec{v2(5, 0), v2(4, 0)}},
		{"box above split", 5.5, 9, []r2.Vec{v2(6, 0)}},
		{"box below split", 0, 4.5, []r2.Vec{v2(4, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := tree.RangeQuery([]float64{tt.lo, -1}, []float64{tt.hi, 1})
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.expected, slices.Collect(seq))
		})
	}
}
