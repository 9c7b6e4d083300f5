// Package chunked implements a growable list indexed by int64.
//
// Elements live in fixed-size chunks, so growth never copies existing
// elements and the element count is not bounded by the size of a single
// backing array.
package chunked

import (
	"fmt"
	"iter"
)

const (
	// chunkBits determines the size of each chunk.
	// 16 bits = 65536 elements per chunk.
	chunkBits = 16
	chunkSize = 1 << chunkBits
	chunkMask = chunkSize - 1
)

// List is an append-only chunked list with random access and in-place swap.
// It is not safe for concurrent mutation. Concurrent Swap calls on
// disjoint indices are safe once the list has stopped growing.
type List[T any] struct {
	chunks [][]T
	n      int64
}

// New creates an empty List. capacityHint pre-sizes the chunk directory;
// chunks themselves are allocated on demand.
func New[T any](capacityHint int64) *List[T] {
	if capacityHint < 0 {
		capacityHint = 0
	}
	dir := (capacityHint + chunkSize - 1) >> chunkBits
	return &List[T]{chunks: make([][]T, 0, dir)}
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int64 { return l.n }

// Append adds v to the end of the list.
func (l *List[T]) Append(v T) {
	c := int(l.n >> chunkBits)
	if c == len(l.chunks) {
		l.chunks = append(l.chunks, make([]T, 0, chunkSize))
	}
	l.chunks[c] = append(l.chunks[c], v)
	l.n++
}

// AppendSeq appends every element produced by seq.
func (l *List[T]) AppendSeq(seq iter.Seq[T]) {
	for v := range seq {
		l.Append(v)
	}
}

// At returns the element at index i. It panics if i is out of range.
func (l *List[T]) At(i int64) T {
	l.check(i)
	return l.chunks[i>>chunkBits][i&chunkMask]
}

// Swap exchanges the elements at indices i and j.
func (l *List[T]) Swap(i, j int64) {
	l.check(i)
	l.check(j)
	a := &l.chunks[i>>chunkBits][i&chunkMask]
	b := &l.chunks[j>>chunkBits][j&chunkMask]
	*a, *b = *b, *a
}

// All returns a sequence over every element in index order.
func (l *List[T]) All() iter.Seq[T] {
	return l.Range(0, l.n)
}

// Range returns a sequence over the elements in [lo, hi).
// It panics if the bounds are invalid.
func (l *List[T]) Range(lo, hi int64) iter.Seq[T] {
	if lo < 0 || hi > l.n || lo > hi {
		panic(fmt.Sprintf("chunked: range [%d:%d] out of bounds with length %d", lo, hi, l.n))
	}
	return func(yield func(T) bool) {
		for i := lo; i < hi; {
			chunk := l.chunks[i>>chunkBits]
			start := i & chunkMask
			end := int64(len(chunk))
			if rem := hi - i; rem < end-start {
				end = start + rem
			}
			for _, v := range chunk[start:end] {
				if !yield(v) {
					return
				}
			}
			i += end - start
		}
	}
}

// Reset empties the list and releases its chunks.
func (l *List[T]) Reset() {
	clear(l.chunks)
	l.chunks = l.chunks[:0]
	l.n = 0
}

func (l *List[T]) check(i int64) {
	if i < 0 || i >= l.n {
		panic(fmt.Sprintf("chunked: index %d out of range with length %d", i, l.n))
	}
}
