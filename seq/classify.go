package seq

import "reflect"

// Kind tells whether a dynamic value is a leaf or a nested sequence.
type Kind uint8

const (
	// Leaf values are passed through Flat and FlatMapAny unchanged.
	Leaf Kind = iota
	// Nested values are expanded into their elements.
	Nested
)

func (k Kind) String() string {
	if k == Nested {
		return "nested"
	}
	return "leaf"
}

// Classify decides whether v is a nested sequence and, if so, starts a
// traversal over it.
//
// Nested values are: any Enumerable (every Seq), Iterable[any], []any, and
// any other slice or array except []byte. Strings, byte slices, maps,
// scalars, structs and nil are leaves.
func Classify(v any) (Iterator[any], Kind) {
	switch x := v.(type) {
	case nil:
		return nil, Leaf
	case *Seq[any]:
		return x, Nested
	case Enumerable:
		return x.Enumerate(), Nested
	case Iterable[any]:
		return x.Iter(), Nested
	case []any:
		return &sliceIter[any]{items: x}, Nested
	case string, []byte:
		return nil, Leaf
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return &reflectIter{v: rv}, Nested
	}
	return nil, Leaf
}

// IsNested reports whether Classify would expand v.
func IsNested(v any) bool {
	switch v.(type) {
	case nil, string, []byte:
		return false
	case Enumerable, Iterable[any], []any:
		return true
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
