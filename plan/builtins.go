package plan

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/seq"
)

// DefaultRegistry returns a registry holding the built-in functions.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.RegisterMapper("identity", func(v any) (any, error) { return v, nil })
	r.RegisterMapper("double", numeric(func(x float64) float64 { return x * 2 }))
	r.RegisterMapper("square", numeric(func(x float64) float64 { return x * x }))
	r.RegisterMapper("negate", numeric(func(x float64) float64 { return -x }))
	r.RegisterMapper("string", func(v any) (any, error) { return toString(v), nil })
	r.RegisterMapper("number", func(v any) (any, error) { return parseNumber(v) })

	r.RegisterPredicate("even", numericTest(func(x float64) bool { return math.Mod(x, 2) == 0 }))
	r.RegisterPredicate("odd", numericTest(func(x float64) bool { return math.Abs(math.Mod(x, 2)) == 1 }))
	r.RegisterPredicate("positive", numericTest(func(x float64) bool { return x > 0 }))
	r.RegisterPredicate("number", func(v any) (bool, error) {
		_, ok := toFloat(v)
		return ok, nil
	})
	r.RegisterPredicate("nested", func(v any) (bool, error) { return seq.IsNested(v), nil })

	r.RegisterReducer("add", numericPair(func(a, b float64) float64 { return a + b }))
	r.RegisterReducer("mul", numericPair(func(a, b float64) float64 { return a * b }))
	r.RegisterReducer("max", numericPair(math.Max))
	r.RegisterReducer("min", numericPair(math.Min))

	r.RegisterExpander("pair", func(v any) (any, error) { return []any{v, v}, nil })
	r.RegisterExpander("repeat", func(v any) (any, error) {
		x, ok := toFloat(v)
		if !ok {
			return nil, notNumber(v)
		}
		if math.IsNaN(x) {
			return nil, notNumber(v)
		}
		return seq.New(seq.Repeat(v)).Take(repeatCount(x)), nil
	})
	r.RegisterExpander("identity", func(v any) (any, error) { return v, nil })

	return r
}

// repeatCount truncates x to a count, clamping negatives to zero and
// anything past the int range to math.MaxInt.
func repeatCount(x float64) int {
	switch {
	case x <= 0:
		return 0
	case x >= math.MaxInt:
		return math.MaxInt
	}
	return int(x)
}

func numeric(fn func(float64) float64) Mapper {
	return func(v any) (any, error) {
		x, ok := toFloat(v)
		if !ok {
			return nil, notNumber(v)
		}
		return fn(x), nil
	}
}

func numericTest(fn func(float64) bool) Predicate {
	return func(v any) (bool, error) {
		x, ok := toFloat(v)
		if !ok {
			return false, notNumber(v)
		}
		return fn(x), nil
	}
}

func numericPair(fn func(a, b float64) float64) Reducer {
	return func(acc, v any) (any, error) {
		a, ok := toFloat(acc)
		if !ok {
			return nil, notNumber(acc)
		}
		b, ok := toFloat(v)
		if !ok {
			return nil, notNumber(v)
		}
		return fn(a, b), nil
	}
}

func notNumber(v any) *errors.AppError {
	return errors.InvalidInput("value", fmt.Sprintf("%v (%T) is not a number", v, v))
}

// toFloat converts any Go numeric kind to float64.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func toString(v any) string {
	if x, ok := toFloat(v); ok {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func parseNumber(v any) (any, error) {
	if x, ok := toFloat(v); ok {
		return x, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, notNumber(v)
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, notNumber(v)
	}
	return x, nil
}

// normalize converts numbers to float64 and nested slices to []any so
// values from every source compare equal.
func normalize(v any) any {
	switch x := v.(type) {
	case nil, string, bool, float64:
		return v
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return v
}
