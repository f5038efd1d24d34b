// Package plan runs declarative sequence pipelines defined in YAML.
//
// A plan names a source, a list of lazy stages and one terminal operation:
//
//	name: evens-squared
//	source:
//	  range: {start: 0, end: 10}
//	stages:
//	  - {op: filter, fn: even}
//	  - {op: map, fn: square}
//	terminal: {op: to_array}
//
// Stage and terminal functions are looked up by name in a Registry.
// DefaultRegistry provides numeric and structural built-ins.
//
// Numbers are float64 throughout, matching JSON decoding, so values from
// YAML, JSON and range sources compare equal.
package plan
