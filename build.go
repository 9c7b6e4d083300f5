package bkdtree

import (
	"fmt"
	"iter"
	"time"

	"github.com/TrevorS/bkdtree/internal/chunked"
)

// buildTask is a range of the build buffer waiting to become the subtree
// stored in slot.
type buildTask[T any] struct {
	lo, hi int64
	depth  int
	slot   *node[T]
}

// BulkAdd inserts every point produced by seq and rebuilds the whole tree
// balanced. The current contents and the new points are gathered into one
// buffer which is partitioned top-down at rank medians. The old tree stays
// in place until the new one is complete.
//
// Prefer BulkAdd to repeated Add for large batches: it restores the balance
// that incremental splits erode. Returns an error wrapping ErrNilArgument if
// seq is nil.
func (t *Tree[T, A]) BulkAdd(seq iter.Seq[T]) error {
	if seq == nil {
		return fmt.Errorf("%w: sequence", ErrNilArgument)
	}
	buf := chunked.New[T](t.count)
	buf.AppendSeq(t.All())
	buf.AppendSeq(seq)
	t.rebuild(buf)
	return nil
}

// Rebalance rebuilds the tree from its current contents.
func (t *Tree[T, A]) Rebalance() {
	buf := chunked.New[T](t.count)
	buf.AppendSeq(t.All())
	t.rebuild(buf)
}

func (t *Tree[T, A]) rebuild(buf *chunked.List[T]) {
	start := time.Now()
	root := t.buildTree(buf)
	t.root = root
	t.count = buf.Len()
	buf.Reset()
	if t.log.debugEnabled() {
		t.log.logBuild(t.count, t.Stats(), t.workers, time.Since(start))
	}
}

// buildRange builds the subtree for task using an explicit stack. Child
// ranges of at least parallelBuildThreshold points are offered to spawn,
// which reports false when it could not take them; spawn may be nil.
func (t *Tree[T, A]) buildRange(buf *chunked.List[T], task buildTask[T], spawn func(buildTask[T]) bool) {
	stack := []buildTask[T]{task}
	for len(stack) > 0 {
		tk := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if tk.hi-tk.lo <= int64(t.leafCap) {
			*tk.slot = t.leafRange(buf, tk.lo, tk.hi)
			continue
		}
		pivot, dim, split, ok := t.splitRange(buf, tk.lo, tk.hi, tk.depth)
		if !ok {
			// Coordinate-identical points cannot be separated.
			l := t.leafRange(buf, tk.lo, tk.hi)
			l.stuck = true
			*tk.slot = l
			continue
		}

		in := &internal[T]{dim: dim, split: split}
		*tk.slot = in
		children := [2]buildTask[T]{
			{lo: pivot, hi: tk.hi, depth: tk.depth + 1, slot: &in.right},
			{lo: tk.lo, hi: pivot, depth: tk.depth + 1, slot: &in.left},
		}
		for _, c := range children {
			if spawn != nil && c.hi-c.lo >= parallelBuildThreshold && spawn(c) {
				continue
			}
			stack = append(stack, c)
		}
	}
}

// leafRange copies buf[lo:hi) into a new leaf.
func (t *Tree[T, A]) leafRange(buf *chunked.List[T], lo, hi int64) *leaf[T] {
	l := newLeaf[T](int(hi-lo), t.leafCap)
	for p := range buf.Range(lo, hi) {
		l.points = append(l.points, p)
	}
	return l
}
