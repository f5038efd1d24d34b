package plan

import (
	"fmt"
	"sort"
	"sync"
)

// Mapper transforms one value.
type Mapper func(v any) (any, error)

// Predicate tests one value.
type Predicate func(v any) (bool, error)

// Reducer folds a value into an accumulator.
type Reducer func(acc, v any) (any, error)

// Expander maps one value to a leaf or to a nested sequence; nested results
// are spliced into the stream by flat_map.
type Expander func(v any) (any, error)

// Registry provides named function lookup for plan compilation.
type Registry struct {
	mu         sync.RWMutex
	mappers    map[string]Mapper
	predicates map[string]Predicate
	reducers   map[string]Reducer
	expanders  map[string]Expander
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		mappers:    make(map[string]Mapper),
		predicates: make(map[string]Predicate),
		reducers:   make(map[string]Reducer),
		expanders:  make(map[string]Expander),
	}
}

// RegisterMapper adds a mapper used by map and tap stages.
func (r *Registry) RegisterMapper(name string, fn Mapper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappers[name] = fn
}

// RegisterPredicate adds a predicate used by filter, take_while and the
// predicate terminals.
func (r *Registry) RegisterPredicate(name string, fn Predicate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predicates[name] = fn
}

// RegisterReducer adds a reducer used by the reduce terminal.
func (r *Registry) RegisterReducer(name string, fn Reducer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reducers[name] = fn
}

// RegisterExpander adds an expander used by flat_map stages.
func (r *Registry) RegisterExpander(name string, fn Expander) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expanders[name] = fn
}

// Mapper retrieves a mapper by name.
func (r *Registry) Mapper(name string) (Mapper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.mappers[name]
	return fn, ok
}

// Predicate retrieves a predicate by name.
func (r *Registry) Predicate(name string) (Predicate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.predicates[name]
	return fn, ok
}

// Reducer retrieves a reducer by name.
func (r *Registry) Reducer(name string) (Reducer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.reducers[name]
	return fn, ok
}

// Expander retrieves an expander by name.
func (r *Registry) Expander(name string) (Expander, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.expanders[name]
	return fn, ok
}

// List returns sorted "kind:name" entries of all registered functions.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.mappers)+len(r.predicates)+len(r.reducers)+len(r.expanders))
	for name := range r.mappers {
		names = append(names, fmt.Sprintf("mapper:%s", name))
	}
	for name := range r.predicates {
		names = append(names, fmt.Sprintf("predicate:%s", name))
	}
	for name := range r.reducers {
		names = append(names, fmt.Sprintf("reducer:%s", name))
	}
	for name := range r.expanders {
		names = append(names, fmt.Sprintf("expander:%s", name))
	}
	sort.Strings(names)
	return names
}
