// Package bkdtree implements a bucket-leaf k-d tree (BKD-tree): an in-memory
// index of points of any dimensionality supporting exact-match lookups,
// axis-aligned range queries, nearest-neighbor, k-nearest-neighbor and
// radius searches.
//
// Points are values of any comparable type. Their coordinates are read
// through an Accessor supplied when the tree is created:
//
//	tree, err := bkdtree.New[r2.Vec](bkdtree.R2Accessor{}, bkdtree.DefaultConfig())
//	tree.Add(r2.Vec{X: 1, Y: 2})
//	nearest, err := tree.NearestNeighbor([]float64{0, 0})
//
// Leaves hold up to Config.LeafCapacity points. When a leaf overflows it is
// split at the rank median of its points on an axis that rotates with depth.
// Many single insertions can leave the tree unbalanced; BulkAdd and
// Rebalance rebuild it balanced from scratch:
//
//	err = tree.BulkAdd(slices.Values(points))
//
// Range and radius queries return lazy sequences (iter.Seq). All arguments
// are validated before the sequence is returned, so a query either fails up
// front or produces only valid results:
//
//	inBox, err := tree.RangeQuery([]float64{0, 0}, []float64{5, 5})
//	for p := range inBox {
//		// ...
//	}
//
// # Errors
//
// Invalid arguments yield errors wrapping ErrNilArgument, ErrOutOfRange or
// ErrDimensionMismatch. NearestNeighbor on an empty tree returns
// ErrEmptyIndex; the Try variants report absence with a false result.
//
// # Concurrency
//
// A Tree is not safe for concurrent mutation. Readers may run concurrently
// only while no Add, AddRange, AddSlice, BulkAdd, Rebalance, Remove or Clear
// is in progress. Config.BuildWorkers lets BulkAdd use several goroutines
// internally; it still returns only when the build is complete.
package bkdtree
