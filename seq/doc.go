// Package seq provides lazy, pull-based sequences and composable adaptors.
//
// A Seq owns a single cursor. Adaptors (Map, Filter, Flat, FlatMap, Zip,
// Join, Take, TakeWhile) wrap the cursor of the sequence they are built
// from and pull from it only when a value is requested downstream.
// Terminal operations (ForEach, Every, Some, Find, Reduce, ToSlice, ...)
// drive the cursor toward exhaustion and return a plain result.
//
// # Usage
//
//	s := seq.FromSlice([]int{1, 2, 3, 4, 5, 6})
//	evens := s.Filter(func(n int) bool { return n%2 == 0 })
//	squares := seq.Map(evens, func(n int) int { return n * n })
//	fmt.Println(squares.Take(2).ToSlice()) // [4 16]
//
// Nested dynamic values:
//
//	s, _ := seq.Wrap([]any{1, []any{2, []any{3}}})
//	seq.Flat(s, 1).ToSlice() // [1 2 [3]]
//
// # Ownership
//
// Each Seq is one traversal. Building an adaptor hands the upstream cursor
// to the adaptor; callers should not keep pulling from the upstream. A Seq
// is not safe for concurrent use. Terminal operations are one-shot: a second
// terminal call on the same Seq continues from wherever the cursor stopped.
// To traverse a restartable source again, build a new Seq from it.
package seq
