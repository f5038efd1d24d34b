package seq

import "slices"

// Map transforms each value using fn.
func Map[T, R any](s *Seq[T], fn func(T) R) *Seq[R] {
	return FromIterator[R](&mapIter[T, R]{source: s, fn: fn})
}

// Filter keeps only values that satisfy the predicate.
func (s *Seq[T]) Filter(pred func(T) bool) *Seq[T] {
	return FromIterator[T](&filterIter[T]{source: s, fn: pred})
}

// Tap calls fn as a side-effect for each value, then passes the value
// through unchanged.
func (s *Seq[T]) Tap(fn func(T)) *Seq[T] {
	return FromIterator[T](&tapIter[T]{source: s, fn: fn})
}

// Take yields at most n values. Once n pulls have been attempted the
// upstream is never touched again; Take(0) never pulls at all.
func (s *Seq[T]) Take(n int) *Seq[T] {
	return FromIterator[T](&takeIter[T]{source: s, n: n})
}

// TakeWhile yields values while pred holds. The first failing value is
// discarded and the sequence stays exhausted from then on.
func (s *Seq[T]) TakeWhile(pred func(T) bool) *Seq[T] {
	return FromIterator[T](&takeWhileIter[T]{source: s, fn: pred})
}

// Join concatenates the sequence with others. Each of the others is only
// started once everything before it has been drained.
func (s *Seq[T]) Join(others ...Iterable[T]) *Seq[T] {
	return FromIterator[T](&joinIter[T]{current: s, queue: slices.Clone(others)})
}

// Zip advances the sequence and others in lock-step, yielding one slice per
// step with the values in declared order (the receiver first). It ends as
// soon as any input is exhausted, without draining the rest.
func Zip[T any](s *Seq[T], others ...Iterable[T]) *Seq[[]T] {
	cursors := make([]Iterator[T], 0, len(others)+1)
	cursors = append(cursors, s)
	for _, o := range others {
		cursors = append(cursors, o.Iter())
	}
	return FromIterator[[]T](&zipIter[T]{cursors: cursors})
}

// --- Iterator implementations ---

type mapIter[T, R any] struct {
	source Iterator[T]
	fn     func(T) R
}

func (it *mapIter[T, R]) Next() (R, bool) {
	val, ok := it.source.Next()
	if !ok {
		var zero R
		return zero, false
	}
	return it.fn(val), true
}

type filterIter[T any] struct {
	source Iterator[T]
	fn     func(T) bool
}

func (it *filterIter[T]) Next() (T, bool) {
	for {
		val, ok := it.source.Next()
		if !ok || it.fn(val) {
			return val, ok
		}
	}
}

type tapIter[T any] struct {
	source Iterator[T]
	fn     func(T)
}

func (it *tapIter[T]) Next() (T, bool) {
	val, ok := it.source.Next()
	if ok {
		it.fn(val)
	}
	return val, ok
}

type takeIter[T any] struct {
	source Iterator[T]
	n      int
	count  int
}

// Next counts attempts, not values: an upstream that exhausts early is
// reported faithfully and the counter still stops further pulls.
func (it *takeIter[T]) Next() (T, bool) {
	if it.count >= it.n {
		var zero T
		return zero, false
	}
	it.count++
	return it.source.Next()
}

type takeWhileIter[T any] struct {
	source   Iterator[T]
	fn       func(T) bool
	finished bool
}

func (it *takeWhileIter[T]) Next() (T, bool) {
	var zero T
	if it.finished {
		return zero, false
	}
	val, ok := it.source.Next()
	if !ok || !it.fn(val) {
		it.finished = true
		return zero, false
	}
	return val, true
}

type zipIter[T any] struct {
	cursors []Iterator[T]
}

func (it *zipIter[T]) Next() ([]T, bool) {
	out := make([]T, len(it.cursors))
	for i, c := range it.cursors {
		v, ok := c.Next()
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

type joinIter[T any] struct {
	current Iterator[T]
	queue   []Iterable[T]
}

func (it *joinIter[T]) Next() (T, bool) {
	for it.current != nil {
		if val, ok := it.current.Next(); ok {
			return val, true
		}
		it.current = nil
		if len(it.queue) > 0 {
			it.current = it.queue[0].Iter()
			it.queue[0] = nil
			it.queue = it.queue[1:]
		}
	}
	var zero T
	return zero, false
}
