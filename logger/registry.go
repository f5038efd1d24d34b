package logger

import (
	"slices"
	"sync"
)

// Component names of the loggers shared across seqkit packages.
const (
	ComponentPlan    = "plan"
	ComponentObserve = "observe"
	ComponentTrace   = "trace"
)

// Components is the set registered by RegisterComponents when no names are
// given.
var Components = []string{ComponentPlan, ComponentObserve, ComponentTrace}

var components = struct {
	mu     sync.RWMutex
	byName map[string]*Logger
}{byName: make(map[string]*Logger)}

// Register stores l under name, replacing any earlier logger.
func Register(name string, l *Logger) {
	components.mu.Lock()
	defer components.mu.Unlock()
	components.byName[name] = l
}

// RegisterComponents registers base tagged with each component name. A nil
// base uses the global logger.
func RegisterComponents(base *Logger, names ...string) {
	if base == nil {
		base = GetGlobalLogger()
	}
	if len(names) == 0 {
		names = Components
	}
	components.mu.Lock()
	defer components.mu.Unlock()
	for _, name := range names {
		components.byName[name] = base.WithComponent(name)
	}
}

// Lookup returns the logger registered under name.
func Lookup(name string) (*Logger, bool) {
	components.mu.RLock()
	defer components.mu.RUnlock()
	l, ok := components.byName[name]
	return l, ok
}

// Get returns the logger registered under name, or the global logger tagged
// with name when none is.
func Get(name string) *Logger {
	if l, ok := Lookup(name); ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// Registered returns the registered names, sorted.
func Registered() []string {
	components.mu.RLock()
	names := make([]string, 0, len(components.byName))
	for name := range components.byName {
		names = append(names, name)
	}
	components.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Reset drops every registered logger.
func Reset() {
	components.mu.Lock()
	defer components.mu.Unlock()
	clear(components.byName)
}
