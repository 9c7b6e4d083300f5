package bkdtree

// Stats describes the shape of a tree.
type Stats struct {
	Count         int64
	Depth         int // edges on the longest root-to-leaf path
	InternalNodes int64
	Leaves        int64
	EmptyLeaves   int64
	MaxLeafSize   int
}

// Stats walks the tree and reports its shape. Depth well above
// log2(Count/LeafCapacity) suggests calling Rebalance.
func (t *Tree[T, A]) Stats() Stats {
	st := Stats{Count: t.count}
	stack := []depthItem[T]{{n: t.root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		st.Depth = max(st.Depth, it.depth)
		switch v := it.n.(type) {
		case *internal[T]:
			st.InternalNodes++
			stack = append(stack, depthItem[T]{v.left, it.depth + 1}, depthItem[T]{v.right, it.depth + 1})
		case *leaf[T]:
			st.Leaves++
			if len(v.points) == 0 {
				st.EmptyLeaves++
			}
			st.MaxLeafSize = max(st.MaxLeafSize, len(v.points))
		}
	}
	return st
}

type depthItem[T any] struct {
	n     node[T]
	depth int
}
