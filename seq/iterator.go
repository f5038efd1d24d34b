package seq

import "reflect"

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value, or (zero, false) once exhausted.
	Next() (T, bool)
}

// Iterable is anything that can start a traversal over its values.
type Iterable[T any] interface {
	Iter() Iterator[T]
}

// Enumerable is the type-erased form of Iterable. Every Seq and every source
// in this package implements it, so a sequence of any element type nested
// inside dynamic values is recognized by Flat and FlatMapAny. Iterable[T]
// implementations with T other than any should implement it too; otherwise
// they are treated as leaves.
type Enumerable interface {
	Enumerate() Iterator[any]
}

// IteratorFunc adapts a plain function to the Iterator interface.
type IteratorFunc[T any] func() (T, bool)

// Next calls f.
func (f IteratorFunc[T]) Next() (T, bool) { return f() }

// --- Restartable sources ---

// Slice is a restartable source over a slice.
type Slice[T any] []T

// Iter starts a new traversal over the slice.
func (s Slice[T]) Iter() Iterator[T] { return &sliceIter[T]{items: s} }

// Enumerate starts a new type-erased traversal over the slice.
func (s Slice[T]) Enumerate() Iterator[any] { return &boxIter[T]{source: s.Iter()} }

type rangeIterable struct {
	start, end, step int
}

// Range returns a restartable source over [start, end) advancing by step.
// A zero step yields nothing; a negative step counts down.
func Range(start, end, step int) Iterable[int] {
	return rangeIterable{start: start, end: end, step: step}
}

func (r rangeIterable) Iter() Iterator[int] {
	next := r.start
	return IteratorFunc[int](func() (int, bool) {
		if r.step == 0 || (r.step > 0 && next >= r.end) || (r.step < 0 && next <= r.end) {
			return 0, false
		}
		v := next
		next += r.step
		return v, true
	})
}

func (r rangeIterable) Enumerate() Iterator[any] { return &boxIter[int]{source: r.Iter()} }

type generateIterable[T any] struct {
	fn func(int) T
}

// Generate returns an infinite restartable source yielding fn(0), fn(1), ...
func Generate[T any](fn func(i int) T) Iterable[T] {
	return generateIterable[T]{fn: fn}
}

func (g generateIterable[T]) Iter() Iterator[T] {
	i := 0
	return IteratorFunc[T](func() (T, bool) {
		v := g.fn(i)
		i++
		return v, true
	})
}

func (g generateIterable[T]) Enumerate() Iterator[any] { return &boxIter[T]{source: g.Iter()} }

// Repeat returns an infinite source yielding v forever.
func Repeat[T any](v T) Iterable[T] {
	return Generate(func(int) T { return v })
}

// --- Internal iterators ---

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next() (T, bool) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false
	}
	val := it.items[it.index]
	it.index++
	return val, true
}

// reflectIter walks a slice or array of any element type.
type reflectIter struct {
	v     reflect.Value
	index int
}

func (it *reflectIter) Next() (any, bool) {
	if it.index >= it.v.Len() {
		return nil, false
	}
	val := it.v.Index(it.index).Interface()
	it.index++
	return val, true
}

// boxIter erases the element type of an iterator.
type boxIter[T any] struct {
	source Iterator[T]
}

func (it *boxIter[T]) Next() (any, bool) {
	v, ok := it.source.Next()
	if !ok {
		return nil, false
	}
	return v, true
}
