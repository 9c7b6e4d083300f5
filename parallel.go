package bkdtree

import (
	"golang.org/x/sync/errgroup"

	"github.com/TrevorS/bkdtree/internal/chunked"
)

// parallelBuildThreshold is the smallest range handed to another goroutine
// during a parallel build. Smaller ranges are cheaper to build inline.
const parallelBuildThreshold = 1 << 14

// buildTree builds a tree over every point in buf. With BuildWorkers > 1,
// large subranges are built on up to BuildWorkers-1 extra goroutines while
// the caller keeps working; the result is returned only after all of them
// have finished. Subranges never overlap, so goroutines partition disjoint
// parts of buf and write to distinct child slots.
func (t *Tree[T, A]) buildTree(buf *chunked.List[T]) node[T] {
	var root node[T]
	task := buildTask[T]{lo: 0, hi: buf.Len(), slot: &root}

	if t.workers <= 1 || buf.Len() < 2*parallelBuildThreshold {
		t.buildRange(buf, task, nil)
		return root
	}

	var g errgroup.Group
	g.SetLimit(t.workers - 1)

	var spawn func(buildTask[T]) bool
	spawn = func(c buildTask[T]) bool {
		// TryGo rather than Go: a worker blocking on a free slot while
		// holding its own would deadlock the group.
		return g.TryGo(func() error {
			t.buildRange(buf, c, spawn)
			return nil
		})
	}

	t.buildRange(buf, task, spawn)
	g.Wait() // build tasks do not fail
	return root
}
