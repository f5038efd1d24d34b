package seq

// flatStackHint caps the initial capacity of the Flat cursor stack; deeper
// nesting grows it on demand.
const flatStackHint = 8

// Flat flattens nested values (see Classify) up to depth levels. Leaves at
// any level pass through unchanged; depth <= 0 yields the values as they
// are.
func Flat[T any](s *Seq[T], depth int) *Seq[any] {
	root := boxed(s)
	if depth <= 0 {
		return FromIterator(root)
	}
	stack := make([]Iterator[any], 1, min(depth, flatStackHint)+1)
	stack[0] = root
	return FromIterator[any](&flatIter{stack: stack, depth: depth})
}

// Expansion is the result of a FlatMap mapping function: either a single
// value or a nested sequence whose elements are spliced in.
type Expansion[R any] struct {
	value  R
	nested Iterator[R]
}

// One expands to the single value v.
func One[R any](v R) Expansion[R] {
	return Expansion[R]{value: v}
}

// Many expands to every element of src.
func Many[R any](src Iterable[R]) Expansion[R] {
	return Expansion[R]{nested: src.Iter()}
}

// ManyOf expands to the given values. ManyOf() expands to nothing.
func ManyOf[R any](values ...R) Expansion[R] {
	return Expansion[R]{nested: &sliceIter[R]{items: values}}
}

// FlatMap maps each value to an Expansion and flattens it by one level.
func FlatMap[T, R any](s *Seq[T], fn func(T) Expansion[R]) *Seq[R] {
	return FromIterator[R](&flatMapIter[T, R]{source: s, fn: fn})
}

// FlatMapAny maps each value with fn and flattens nested results by one
// level. Results that are not nested (see Classify) are yielded directly.
func FlatMapAny[T any](s *Seq[T], fn func(T) any) *Seq[any] {
	return FlatMap(s, func(v T) Expansion[any] {
		out := fn(v)
		if sub, kind := Classify(out); kind == Nested {
			return Expansion[any]{nested: sub}
		}
		return One(out)
	})
}

func boxed[T any](s *Seq[T]) Iterator[any] {
	if b, ok := any(s).(*Seq[any]); ok {
		return b
	}
	return s.Enumerate()
}

// --- Iterator implementations ---

// flatIter keeps one cursor per open nesting level; stack[0] is the
// upstream and the stack never grows past depth+1.
type flatIter struct {
	stack []Iterator[any]
	depth int
}

func (it *flatIter) Next() (any, bool) {
	for len(it.stack) > 0 {
		top := len(it.stack) - 1
		val, ok := it.stack[top].Next()
		if !ok {
			it.stack[top] = nil
			it.stack = it.stack[:top]
			continue
		}
		if top < it.depth {
			if sub, kind := Classify(val); kind == Nested {
				it.stack = append(it.stack, sub)
				continue
			}
		}
		return val, true
	}
	return nil, false
}

// flatMapIter holds at most one active sub-cursor. Runs of empty
// expansions are skipped in a loop, so stack use stays constant.
type flatMapIter[T, R any] struct {
	source  Iterator[T]
	fn      func(T) Expansion[R]
	current Iterator[R]
}

func (it *flatMapIter[T, R]) Next() (R, bool) {
	for {
		if it.current != nil {
			if val, ok := it.current.Next(); ok {
				return val, true
			}
			it.current = nil
		}
		in, ok := it.source.Next()
		if !ok {
			var zero R
			return zero, false
		}
		out := it.fn(in)
		if out.nested == nil {
			return out.value, true
		}
		it.current = out.nested
	}
}
