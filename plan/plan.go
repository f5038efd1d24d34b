package plan

import (
	"fmt"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/validation"
)

// Stage operations.
const (
	OpMap       = "map"
	OpFilter    = "filter"
	OpTap       = "tap"
	OpFlat      = "flat"
	OpFlatMap   = "flat_map"
	OpSkip      = "skip"
	OpTake      = "take"
	OpTakeWhile = "take_while"
	OpJoin      = "join"
	OpZip       = "zip"
)

// Terminal operations.
const (
	TermToArray   = "to_array"
	TermCount     = "count"
	TermSum       = "sum"
	TermReduce    = "reduce"
	TermEvery     = "every"
	TermSome      = "some"
	TermSomeCount = "some_count"
	TermFind      = "find"
	TermIncludes  = "includes"
	TermFirst     = "first"
	TermLast      = "last"
)

// Plan is a declarative pipeline over one source.
type Plan struct {
	Name        string   `yaml:"name" json:"name" validate:"required"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Source      Source   `yaml:"source" json:"source"`
	Stages      []Stage  `yaml:"stages" json:"stages" validate:"dive"`
	Terminal    Terminal `yaml:"terminal" json:"terminal"`
}

// Source defines where values come from. Exactly one field must be set.
type Source struct {
	Values []any      `yaml:"values,omitempty" json:"values,omitempty"`
	JSON   string     `yaml:"json,omitempty" json:"json,omitempty"`
	Range  *RangeSpec `yaml:"range,omitempty" json:"range,omitempty"`
}

// RangeSpec is a half-open integer range. Step defaults to 1.
type RangeSpec struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
	Step  int `yaml:"step,omitempty" json:"step,omitempty"`
}

// Stage is one lazy adaptor.
type Stage struct {
	Op    string `yaml:"op" json:"op" validate:"required,oneof=map filter tap flat flat_map skip take take_while join zip"`
	Fn    string `yaml:"fn,omitempty" json:"fn,omitempty" validate:"required_if=Op map,required_if=Op filter,required_if=Op tap,required_if=Op flat_map,required_if=Op take_while"`
	N     int    `yaml:"n,omitempty" json:"n,omitempty" validate:"gte=0"`
	Depth *int   `yaml:"depth,omitempty" json:"depth,omitempty" validate:"omitempty,gte=0"`
	With  []any  `yaml:"with,omitempty" json:"with,omitempty"`
}

// Terminal is the operation that consumes the compiled sequence.
type Terminal struct {
	Op      string `yaml:"op" json:"op" validate:"required,oneof=to_array count sum reduce every some some_count find includes first last"`
	Fn      string `yaml:"fn,omitempty" json:"fn,omitempty" validate:"required_if=Op reduce,required_if=Op every,required_if=Op some,required_if=Op some_count,required_if=Op find"`
	N       int    `yaml:"n,omitempty" json:"n,omitempty"`
	Value   any    `yaml:"value,omitempty" json:"value,omitempty"`
	Initial any    `yaml:"initial,omitempty" json:"initial,omitempty"`
}

// Validate checks struct tags and the rules tags cannot express.
func (p *Plan) Validate() error {
	if err := validation.Validate(p); err != nil {
		return errors.InvalidPlan(p.Name, err.Error()).WithCause(err)
	}

	v := validation.New()
	set := 0
	if p.Source.Values != nil {
		set++
	}
	if p.Source.JSON != "" {
		set++
	}
	if p.Source.Range != nil {
		set++
	}
	v.Custom(set == 1, "source", "exactly one of values, json or range is required")
	for i, st := range p.Stages {
		if st.Op == OpJoin || st.Op == OpZip {
			v.Custom(len(st.With) > 0, fmt.Sprintf("stages[%d].with", i), "is required for "+st.Op)
		}
	}
	if err := v.Err(); err != nil {
		return errors.InvalidPlan(p.Name, err.Error()).WithCause(err)
	}
	return nil
}
