package seq

import (
	stderrors "errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/seqkit/errors"
)

// countingSource counts how many times Next was called.
type countingSource struct {
	items []int
	pulls int
	index int
}

func (c *countingSource) Next() (int, bool) {
	c.pulls++
	if c.index >= len(c.items) {
		return 0, false
	}
	v := c.items[c.index]
	c.index++
	return v, true
}

// resurrecting reports exhaustion once, then produces values again.
type resurrecting struct {
	calls int
}

func (r *resurrecting) Next() (int, bool) {
	r.calls++
	if r.calls == 2 {
		return 0, false
	}
	return r.calls, true
}

func TestFromSlice_ToSlice(t *testing.T) {
	got := FromSlice([]int{1, 2, 3}).ToSlice()
	if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFromSlice_Empty(t *testing.T) {
	got := FromSlice([]int{}).ToSlice()
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestSeq_ExhaustionIsPermanent(t *testing.T) {
	src := &resurrecting{}
	s := FromIterator[int](src)
	if v, ok := s.Next(); !ok || v != 1 {
		t.Fatalf("expected 1, got %v %v", v, ok)
	}
	if _, ok := s.Next(); ok {
		t.Fatal("expected exhaustion")
	}
	for i := 0; i < 3; i++ {
		if _, ok := s.Next(); ok {
			t.Fatal("expected exhaustion to stick")
		}
	}
	if src.calls != 2 {
		t.Errorf("expected upstream to be pulled twice, got %d", src.calls)
	}
	if !s.Exhausted() {
		t.Error("expected Exhausted() to be true")
	}
}

func TestSeq_IterReturnsItself(t *testing.T) {
	s := Of(1, 2, 3)
	if s.Iter() != Iterator[int](s) {
		t.Error("expected Iter to return the sequence itself")
	}
	s.Next()
	got := New[int](s).ToSlice()
	if diff := cmp.Diff([]int{2, 3}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSeq_All_RangeLoop(t *testing.T) {
	s := Of("a", "b", "c")
	var got []string
	for v := range s.All() {
		got = append(got, v)
		if v == "b" {
			break
		}
	}
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if rest := s.ToSlice(); !slices.Equal(rest, []string{"c"}) {
		t.Errorf("expected [c] left, got %v", rest)
	}
}

func TestFromStd(t *testing.T) {
	s, stop := FromStd(slices.Values([]int{4, 5, 6}))
	defer stop()
	got := s.Take(2).ToSlice()
	if diff := cmp.Diff([]int{4, 5}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		name             string
		start, end, step int
		want             []int
	}{
		{"ascending", 0, 5, 2, []int{0, 2, 4}},
		{"descending", 3, 0, -1, []int{3, 2, 1}},
		{"zero step", 0, 5, 0, []int{}},
		{"empty", 5, 5, 1, []int{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := New(Range(tc.start, tc.end, tc.step)).ToSlice()
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRange_Restartable(t *testing.T) {
	src := Range(0, 3, 1)
	first := New(src)
	first.Next()
	first.Next()
	// Abandon first; a fresh traversal sees nothing of it.
	got := New(src).ToSlice()
	if diff := cmp.Diff([]int{0, 1, 2}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestIndependentTraversals_NoLeakage(t *testing.T) {
	src := Slice[int]{1, 2, 3, 4, 5, 6}
	chain := func() *Seq[int] {
		evens := New[int](src).Filter(func(n int) bool { return n%2 == 0 })
		return Map(evens, func(n int) int { return n * 10 })
	}

	abandoned := chain()
	if v, _ := abandoned.Next(); v != 20 {
		t.Fatalf("expected 20, got %d", v)
	}

	got := chain().ToSlice()
	if diff := cmp.Diff([]int{20, 40, 60}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestWrap(t *testing.T) {
	t.Run("slice of any", func(t *testing.T) {
		s, err := Wrap([]any{1, "a"})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]any{1, "a"}, s.ToSlice()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("typed slice", func(t *testing.T) {
		s, err := Wrap([]int{7, 8})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]any{7, 8}, s.ToSlice()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("typed seq", func(t *testing.T) {
		s, err := Wrap(Of(1, 2))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]any{1, 2}, s.ToSlice()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("range source", func(t *testing.T) {
		s, err := Wrap(Range(0, 3, 1))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]any{0, 1, 2}, s.ToSlice()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("generated source", func(t *testing.T) {
		s, err := Wrap(Generate(func(i int) string { return strings.Repeat("a", i) }))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]any{"", "a", "aa"}, s.Take(3).ToSlice()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("seq of any is reused", func(t *testing.T) {
		orig := Of[any](1)
		s, err := Wrap(orig)
		if err != nil {
			t.Fatal(err)
		}
		if s != orig {
			t.Error("expected the same *Seq[any]")
		}
	})

	for _, v := range []any{42, "abc", nil, map[string]int{"a": 1}, []byte("x")} {
		if _, err := Wrap(v); !stderrors.Is(err, errors.ErrNotEnumerable) {
			t.Errorf("Wrap(%#v): expected NOT_ENUMERABLE, got %v", v, err)
		}
	}
}

func TestMustWrap_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustWrap(3.5)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want Kind
	}{
		{"int", 1, Leaf},
		{"string", "abc", Leaf},
		{"bytes", []byte("ab"), Leaf},
		{"nil", nil, Leaf},
		{"map", map[int]int{}, Leaf},
		{"any slice", []any{1}, Nested},
		{"int slice", []int{1}, Nested},
		{"array", [2]string{"a", "b"}, Nested},
		{"seq", Of(1), Nested},
		{"slice source", Slice[any]{1}, Nested},
		{"typed slice source", Slice[int]{1}, Nested},
		{"range", Range(0, 2, 1), Nested},
		{"generate", Generate(func(i int) int { return i }), Nested},
		{"repeat", Repeat("x"), Nested},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, kind := Classify(tc.v)
			if kind != tc.want {
				t.Errorf("Classify: expected %s, got %s", tc.want, kind)
			}
			if IsNested(tc.v) != (tc.want == Nested) {
				t.Errorf("IsNested disagrees with Classify for %v", tc.v)
			}
		})
	}
}

// --- Terminals ---

func TestForEach(t *testing.T) {
	var sb strings.Builder
	Of("a", "b", "c").Each(func(s string) { sb.WriteString(s) })
	if sb.String() != "abc" {
		t.Errorf("expected abc, got %q", sb.String())
	}
}

func TestEvery_ShortCircuits(t *testing.T) {
	src := &countingSource{items: []int{2, 4, 5, 6, 8}}
	if FromIterator[int](src).Every(func(n int) bool { return n%2 == 0 }) {
		t.Error("expected false")
	}
	if src.pulls != 3 {
		t.Errorf("expected 3 pulls, got %d", src.pulls)
	}
	if !Of[int]().Every(func(int) bool { return false }) {
		t.Error("expected true on empty sequence")
	}
}

func TestSome_ShortCircuits(t *testing.T) {
	src := &countingSource{items: []int{1, 3, 4, 5}}
	if !FromIterator[int](src).Some(func(n int) bool { return n%2 == 0 }) {
		t.Error("expected true")
	}
	if src.pulls != 3 {
		t.Errorf("expected 3 pulls, got %d", src.pulls)
	}
	if Of(1, 3).Some(func(n int) bool { return n%2 == 0 }) {
		t.Error("expected false")
	}
}

func TestFilter_AgreesWithDirectScan(t *testing.T) {
	input := []int{3, 8, 1, 6, 4, 9}
	isEven := func(n int) bool { return n%2 == 0 }

	if !FromSlice(input).Filter(isEven).Every(isEven) {
		t.Error("every value of filter(p) must satisfy p")
	}
	want := slices.ContainsFunc(input, isEven)
	if got := FromSlice(input).Filter(isEven).Some(isEven); got != want {
		t.Errorf("some over filter(p): expected %v, got %v", want, got)
	}
}

func TestSomeCount(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }

	src := &countingSource{items: []int{2, 1, 4, 6, 8}}
	if !FromIterator[int](src).SomeCount(even, 2) {
		t.Error("expected true after two matches")
	}
	if src.pulls != 3 {
		t.Errorf("expected 3 pulls, got %d", src.pulls)
	}
	if Of(2, 1, 3).SomeCount(even, 2) {
		t.Error("expected false when exhausted first")
	}
	if !Of[int]().SomeCount(even, 0) {
		t.Error("expected true for n=0")
	}
}

func TestSomeCount_RepeatedCallContinues(t *testing.T) {
	s := Of(2, 4, 6)
	even := func(n int) bool { return n%2 == 0 }
	if !s.SomeCount(even, 2) {
		t.Fatal("expected first call to succeed")
	}
	// Only one value is left on the cursor.
	if s.SomeCount(even, 2) {
		t.Error("expected second call to see only the remaining value")
	}
}

func TestFind(t *testing.T) {
	v, ok := Of(1, 4, 9).Find(func(n int) bool { return n > 3 })
	if !ok || v != 4 {
		t.Errorf("expected 4, got %v %v", v, ok)
	}
	if _, ok := Of(1, 2).Find(func(n int) bool { return n > 3 }); ok {
		t.Error("expected absent marker")
	}
}

func TestIncludes(t *testing.T) {
	if !Includes(Of(1, 2, 3), 2) {
		t.Error("expected 2 to be included")
	}
	if Includes(Of(1, 2, 3), 5) {
		t.Error("expected 5 to be absent")
	}
}

func TestIncludes_NaN(t *testing.T) {
	nan := math.NaN()
	if !Includes(Of(1.0, nan), math.NaN()) {
		t.Error("expected NaN to match NaN")
	}
	if Includes(Of(1.0, 2.0), nan) {
		t.Error("expected NaN to be absent")
	}
	if !Includes(Of[any]("x", nan), any(math.NaN())) {
		t.Error("expected boxed NaN to match boxed NaN")
	}
}

func TestIncludes_UncomparableValues(t *testing.T) {
	if Includes(Of[any](1, []any{2}), any([]any{2})) {
		t.Error("expected an uncomparable needle to be absent")
	}
	if !Includes(Of[any]([]int{1}, "b", 2), any(2)) {
		t.Error("expected 2 to be found past an uncomparable value")
	}
	if Includes(Of[any](int64(2)), any(2)) {
		t.Error("expected values of a different dynamic type not to match")
	}
	if !Includes(Of[any](1, nil), nil) {
		t.Error("expected nil to match nil")
	}
}

func TestReduce(t *testing.T) {
	add := func(a, b int) int { return a + b }

	got, err := Of(1, 2, 3).Reduce(add)
	if err != nil || got != 6 {
		t.Errorf("expected 6, got %v (err %v)", got, err)
	}

	got, err = Of(1, 2, 3).Reduce(add, 10)
	if err != nil || got != 16 {
		t.Errorf("expected 16, got %v (err %v)", got, err)
	}
}

func TestReduce_Empty(t *testing.T) {
	add := func(a, b int) int { return a + b }

	_, err := Of[int]().Reduce(add)
	if !stderrors.Is(err, errors.ErrEmptyReduce) {
		t.Errorf("expected EMPTY_REDUCE, got %v", err)
	}

	got, err := Of[int]().Reduce(add, 7)
	if err != nil || got != 7 {
		t.Errorf("expected initial value 7, got %v (err %v)", got, err)
	}
}

func TestFold(t *testing.T) {
	got := Fold(Of("a", "bb", "ccc"), 0, func(acc int, s string) int { return acc + len(s) })
	if got != 6 {
		t.Errorf("expected 6, got %d", got)
	}
}

func TestCollectTo(t *testing.T) {
	set := CollectTo(Of(1, 2, 2, 3), func(s *Seq[int]) map[int]bool {
		m := map[int]bool{}
		s.ForEach(func(n int) { m[n] = true })
		return m
	})
	if len(set) != 3 {
		t.Errorf("expected 3 distinct values, got %v", set)
	}
}

func TestCollectWith(t *testing.T) {
	var sb strings.Builder
	CollectWith(Of("x", "y"), &sb, func(b *strings.Builder, s string) { b.WriteString(s) })
	if sb.String() != "xy" {
		t.Errorf("expected xy, got %q", sb.String())
	}
}

func TestCountFirstLast(t *testing.T) {
	if n := Of(1, 2, 3).Count(); n != 3 {
		t.Errorf("expected 3, got %d", n)
	}
	if v, ok := Of(5, 6).First(); !ok || v != 5 {
		t.Errorf("expected 5, got %v %v", v, ok)
	}
	if v, ok := Of(5, 6).Last(); !ok || v != 6 {
		t.Errorf("expected 6, got %v %v", v, ok)
	}
	if _, ok := Of[int]().Last(); ok {
		t.Error("expected no last value")
	}
}

func TestSkip_Eager(t *testing.T) {
	src := &countingSource{items: []int{1, 2, 3, 4}}
	s := FromIterator[int](src)
	same := s.Skip(2)
	if same != s {
		t.Error("expected Skip to return the receiver")
	}
	if src.pulls != 2 {
		t.Errorf("expected 2 eager pulls, got %d", src.pulls)
	}
	if diff := cmp.Diff([]int{3, 4}, s.ToSlice()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSkip_PastEnd(t *testing.T) {
	src := &countingSource{items: []int{1, 2}}
	s := FromIterator[int](src).Skip(10)
	if src.pulls != 3 {
		t.Errorf("expected to stop at exhaustion after 3 pulls, got %d", src.pulls)
	}
	if len(s.ToSlice()) != 0 {
		t.Error("expected nothing left")
	}
}
