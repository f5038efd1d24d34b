package seq

import (
	"iter"

	"github.com/kbukum/seqkit/errors"
)

// Seq is a single traversal over a lazy sequence.
//
// Exhaustion is permanent: once the underlying cursor reports exhaustion,
// Seq drops it and reports exhaustion on every later call without pulling
// again, even if the cursor would have produced more values.
type Seq[T any] struct {
	source Iterator[T]
}

// --- Constructors ---

// New starts a traversal over src.
func New[T any](src Iterable[T]) *Seq[T] {
	return FromIterator(src.Iter())
}

// FromIterator wraps an existing cursor. The Seq takes ownership of it.
func FromIterator[T any](it Iterator[T]) *Seq[T] {
	return &Seq[T]{source: it}
}

// FromSlice creates a sequence over the items of a slice.
func FromSlice[T any](items []T) *Seq[T] {
	return FromIterator[T](&sliceIter[T]{items: items})
}

// Of creates a sequence over the given values.
func Of[T any](values ...T) *Seq[T] {
	return FromSlice(values)
}

// FromFunc creates a sequence that calls fn for every value.
func FromFunc[T any](fn func() (T, bool)) *Seq[T] {
	return FromIterator[T](IteratorFunc[T](fn))
}

// FromStd adapts a standard library push iterator. The returned stop
// function releases the iterator early when the traversal is abandoned;
// it is called automatically on exhaustion.
func FromStd[T any](s iter.Seq[T]) (*Seq[T], func()) {
	next, stop := iter.Pull(s)
	return FromFunc(func() (T, bool) {
		v, ok := next()
		if !ok {
			stop()
		}
		return v, ok
	}), stop
}

// Wrap starts a traversal over a dynamic value. It fails immediately with a
// NOT_ENUMERABLE error when src is not a nested sequence (see Classify).
func Wrap(src any) (*Seq[any], error) {
	it, kind := Classify(src)
	if kind != Nested {
		return nil, errors.NotEnumerable(src)
	}
	if s, ok := it.(*Seq[any]); ok {
		return s, nil
	}
	return FromIterator(it), nil
}

// MustWrap is like Wrap but panics on error.
func MustWrap(src any) *Seq[any] {
	s, err := Wrap(src)
	if err != nil {
		panic(err)
	}
	return s
}

// --- Pull protocol ---

// Next pulls the next value.
func (s *Seq[T]) Next() (T, bool) {
	if s.source == nil {
		var zero T
		return zero, false
	}
	v, ok := s.source.Next()
	if !ok {
		s.source = nil
		var zero T
		return zero, false
	}
	return v, true
}

// Iter returns the sequence itself, so a Seq can be passed wherever an
// Iterable is accepted. It does not restart the traversal.
func (s *Seq[T]) Iter() Iterator[T] { return s }

// Enumerate returns the sequence as a type-erased cursor.
func (s *Seq[T]) Enumerate() Iterator[any] { return &boxIter[T]{source: s} }

// All returns a standard library iterator over the remaining values, for
// use with range loops. Breaking out of the loop leaves the rest unpulled.
func (s *Seq[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := s.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Exhausted reports whether the sequence has already signalled exhaustion.
func (s *Seq[T]) Exhausted() bool { return s.source == nil }
