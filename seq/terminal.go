package seq

import (
	"reflect"

	"github.com/kbukum/seqkit/errors"
)

// --- Terminals ---

// ForEach calls fn for every remaining value.
func (s *Seq[T]) ForEach(fn func(T)) {
	for {
		v, ok := s.Next()
		if !ok {
			return
		}
		fn(v)
	}
}

// Each is an alias of ForEach.
func (s *Seq[T]) Each(fn func(T)) { s.ForEach(fn) }

// Every reports whether pred holds for every remaining value. It stops at
// the first failing value.
func (s *Seq[T]) Every(pred func(T) bool) bool {
	for {
		v, ok := s.Next()
		if !ok {
			return true
		}
		if !pred(v) {
			return false
		}
	}
}

// Some reports whether pred holds for at least one remaining value. It
// stops at the first satisfying value.
func (s *Seq[T]) Some(pred func(T) bool) bool {
	for {
		v, ok := s.Next()
		if !ok {
			return false
		}
		if pred(v) {
			return true
		}
	}
}

// SomeCount reports whether pred holds for at least n remaining values. It
// stops as soon as the n-th satisfying value is seen. n <= 0 is true
// without pulling.
func (s *Seq[T]) SomeCount(pred func(T) bool, n int) bool {
	if n <= 0 {
		return true
	}
	count := 0
	for {
		v, ok := s.Next()
		if !ok {
			return false
		}
		if pred(v) {
			count++
			if count == n {
				return true
			}
		}
	}
}

// Find returns the first remaining value satisfying pred.
func (s *Seq[T]) Find(pred func(T) bool) (T, bool) {
	for {
		v, ok := s.Next()
		if !ok || pred(v) {
			return v, ok
		}
	}
}

// Reduce folds the remaining values with fn. Without an initial value the
// first pulled value seeds the accumulator, and an already exhausted
// sequence returns an EMPTY_REDUCE error. Only the first initial value is
// used.
func (s *Seq[T]) Reduce(fn func(acc, v T) T, initial ...T) (T, error) {
	var acc T
	if len(initial) > 0 {
		acc = initial[0]
	} else {
		v, ok := s.Next()
		if !ok {
			return acc, errors.EmptyReduce()
		}
		acc = v
	}
	for {
		v, ok := s.Next()
		if !ok {
			return acc, nil
		}
		acc = fn(acc, v)
	}
}

// ToSlice collects the remaining values into a slice.
func (s *Seq[T]) ToSlice() []T {
	result := []T{}
	for {
		v, ok := s.Next()
		if !ok {
			return result
		}
		result = append(result, v)
	}
}

// Count drains the sequence and returns the number of values pulled.
func (s *Seq[T]) Count() int {
	n := 0
	for {
		if _, ok := s.Next(); !ok {
			return n
		}
		n++
	}
}

// First pulls a single value.
func (s *Seq[T]) First() (T, bool) {
	return s.Next()
}

// Last drains the sequence and returns the final value.
func (s *Seq[T]) Last() (T, bool) {
	var last T
	found := false
	for {
		v, ok := s.Next()
		if !ok {
			return last, found
		}
		last, found = v, true
	}
}

// Skip eagerly discards the next n values and returns the receiver. It
// stops early, without error, if the sequence exhausts first.
func (s *Seq[T]) Skip(n int) *Seq[T] {
	for i := 0; i < n; i++ {
		if _, ok := s.Next(); !ok {
			break
		}
	}
	return s
}

// Includes reports whether x is among the remaining values. Two NaN values
// are considered equal. For interface element types, values whose dynamic
// type differs from x or cannot be compared never match.
func Includes[T comparable](s *Seq[T], x T) bool {
	if reflect.TypeFor[T]().Kind() == reflect.Interface {
		return s.Some(func(v T) bool { return dynamicEqual(v, x) })
	}
	xNaN := x != x
	return s.Some(func(v T) bool {
		return v == x || (xNaN && v != v)
	})
}

func dynamicEqual(v, x any) bool {
	if v == nil || x == nil {
		return v == nil && x == nil
	}
	if reflect.TypeOf(v) != reflect.TypeOf(x) {
		return false
	}
	if !reflect.ValueOf(v).Comparable() || !reflect.ValueOf(x).Comparable() {
		return false
	}
	return v == x || (x != x && v != v)
}

// Fold folds the remaining values into an accumulator of a different type.
func Fold[T, R any](s *Seq[T], initial R, fn func(R, T) R) R {
	acc := initial
	s.ForEach(func(v T) { acc = fn(acc, v) })
	return acc
}

// CollectTo passes the remaining sequence to a container constructor.
func CollectTo[T, C any](s *Seq[T], ctor func(*Seq[T]) C) C {
	return ctor(s)
}

// CollectWith calls fn(target, v) for every remaining value.
func CollectWith[T, C any](s *Seq[T], target C, fn func(C, T)) {
	s.ForEach(func(v T) { fn(target, v) })
}
