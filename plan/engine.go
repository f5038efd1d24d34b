package plan

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observe"
	"github.com/kbukum/seqkit/seq"
)

// Engine compiles plans into lazy sequences and runs them.
type Engine struct {
	registry     *Registry
	metrics      *observe.Metrics
	log          *logger.Logger
	maxItems     int
	defaultDepth int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry sets the function registry. Defaults to DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithMetrics instruments every compiled stage.
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMaxItems bounds to_array results; 0 means unbounded.
func WithMaxItems(n int) Option {
	return func(e *Engine) { e.maxItems = n }
}

// WithDefaultDepth sets the depth of flat stages that omit one.
func WithDefaultDepth(d int) Option {
	return func(e *Engine) { e.defaultDepth = d }
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{defaultDepth: 1}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = DefaultRegistry()
	}
	if e.log == nil {
		e.log = logger.Get(logger.ComponentPlan)
	} else {
		e.log = e.log.WithComponent(logger.ComponentPlan)
	}
	return e
}

// Result is the outcome of one plan run.
type Result struct {
	RunID      string `json:"run_id"`
	Plan       string `json:"plan"`
	Terminal   string `json:"terminal"`
	Value      any    `json:"value"`
	Found      *bool  `json:"found,omitempty"`
	Truncated  bool   `json:"truncated,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Compiled is a compiled plan. Function errors raised while the sequence
// is consumed end it early; Err reports the first one.
type Compiled struct {
	Seq   *seq.Seq[any]
	state *runState
}

// Err returns the first error raised by a stage function, if any.
func (c *Compiled) Err() error { return c.state.err }

// runState carries the first runtime error of a compiled chain.
type runState struct {
	ctx context.Context
	err error
}

func (st *runState) fail(err error) {
	if st.err == nil {
		st.err = err
	}
}

// ok reports whether pulling may continue.
func (st *runState) ok(any) bool {
	if st.err != nil {
		return false
	}
	if err := st.ctx.Err(); err != nil {
		st.err = err
		return false
	}
	return true
}

// Compile validates p and builds its lazy stage chain. Skip stages pull
// eagerly, so they run here.
func (e *Engine) Compile(p *Plan) (*Compiled, error) {
	return e.compile(context.Background(), p)
}

func (e *Engine) compile(ctx context.Context, p *Plan) (*Compiled, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	st := &runState{ctx: ctx}

	s, err := e.source(p)
	if err != nil {
		return nil, err
	}
	s = e.instrument(s, fmt.Sprintf("%s.source", p.Name))

	for i, stage := range p.Stages {
		s, err = e.stage(p.Name, s, stage, st)
		if err != nil {
			return nil, errors.InvalidPlan(p.Name, fmt.Sprintf("stages[%d]: %v", i, err)).WithCause(err)
		}
		s = e.instrument(s, fmt.Sprintf("%s.%d.%s", p.Name, i, stage.Op)).TakeWhile(st.ok)
	}

	return &Compiled{Seq: s, state: st}, nil
}

func (e *Engine) instrument(s *seq.Seq[any], name string) *seq.Seq[any] {
	if e.metrics == nil {
		return s
	}
	return observe.Instrument(s, name, e.metrics, e.log)
}

func (e *Engine) source(p *Plan) (*seq.Seq[any], error) {
	src := p.Source
	switch {
	case src.Range != nil:
		step := src.Range.Step
		if step == 0 {
			step = 1
		}
		return seq.Map(seq.New(seq.Range(src.Range.Start, src.Range.End, step)), func(i int) any {
			return float64(i)
		}), nil
	case src.JSON != "":
		var values []any
		if err := json.Unmarshal([]byte(src.JSON), &values); err != nil {
			return nil, errors.InvalidPlan(p.Name, "json source must be an array").WithCause(err)
		}
		return seq.FromSlice(values), nil
	default:
		return seq.FromSlice(normalize(src.Values).([]any)), nil
	}
}

func (e *Engine) stage(planName string, s *seq.Seq[any], stage Stage, st *runState) (*seq.Seq[any], error) {
	switch stage.Op {
	case OpMap, OpTap:
		fn, ok := e.registry.Mapper(stage.Fn)
		if !ok {
			return nil, unknownFn("mapper", stage.Fn)
		}
		apply := func(v any) any {
			out, err := fn(v)
			if err != nil {
				st.fail(err)
			}
			return out
		}
		if stage.Op == OpTap {
			return s.Tap(func(v any) { apply(v) }), nil
		}
		return seq.Map(s, apply), nil

	case OpFilter, OpTakeWhile:
		pred, ok := e.registry.Predicate(stage.Fn)
		if !ok {
			return nil, unknownFn("predicate", stage.Fn)
		}
		test := func(v any) bool {
			ok, err := pred(v)
			if err != nil {
				st.fail(err)
				return false
			}
			return ok
		}
		if stage.Op == OpFilter {
			return s.Filter(test), nil
		}
		return s.TakeWhile(test), nil

	case OpFlat:
		depth := e.defaultDepth
		if stage.Depth != nil {
			depth = *stage.Depth
		}
		return seq.Flat(s, depth), nil

	case OpFlatMap:
		fn, ok := e.registry.Expander(stage.Fn)
		if !ok {
			return nil, unknownFn("expander", stage.Fn)
		}
		return seq.FlatMapAny(s, func(v any) any {
			out, err := fn(v)
			if err != nil {
				st.fail(err)
				return []any{}
			}
			return out
		}), nil

	case OpSkip:
		e.log.Debug("eager skip", logger.Fields(logger.FieldPlan, planName, "n", stage.N))
		return s.Skip(stage.N), nil

	case OpTake:
		return s.Take(stage.N), nil

	case OpJoin, OpZip:
		others := make([]seq.Iterable[any], 0, len(stage.With))
		for i, w := range stage.With {
			other, err := seq.Wrap(normalize(w))
			if err != nil {
				return nil, fmt.Errorf("with[%d]: %w", i, err)
			}
			others = append(others, other)
		}
		if stage.Op == OpJoin {
			return s.Join(others...), nil
		}
		return seq.Map(seq.Zip(s, others...), func(row []any) any { return row }), nil
	}
	return nil, fmt.Errorf("unknown stage op %q", stage.Op)
}

func unknownFn(kind, name string) error {
	return errors.New(errors.ErrCodeNotFound, fmt.Sprintf("%s %q is not registered", kind, name)).
		WithDetail("resource", kind).
		WithDetail("id", name)
}

// Run compiles p and applies its terminal operation.
func (e *Engine) Run(ctx context.Context, p *Plan) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	rc := observe.NewRunContext(runID, p.Name, p.Terminal.Op, e.metrics)
	ctx, finish := rc.Start(logger.ContextWithRunID(ctx, runID))
	log := e.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldPlan, p.Name,
		logger.FieldTerminal, p.Terminal.Op,
	))
	log.Info("plan run started", logger.Fields("stages", len(p.Stages)))

	result, err := e.run(ctx, p)
	finish(err)
	if err != nil {
		log.WithError(err).Error("plan run failed", logger.DurationFields("run", rc.Elapsed()))
		return nil, err
	}

	result.RunID = runID
	result.DurationMs = rc.Elapsed().Milliseconds()
	log.Info("plan run finished", logger.DurationFields("run", rc.Elapsed()))
	return result, nil
}

func (e *Engine) run(ctx context.Context, p *Plan) (*Result, error) {
	compiled, err := e.compile(ctx, p)
	if err != nil {
		return nil, err
	}
	res, err := e.terminal(compiled.Seq, p.Terminal)
	if err != nil {
		return nil, err
	}
	if err := compiled.Err(); err != nil {
		return nil, err
	}
	res.Plan = p.Name
	res.Terminal = p.Terminal.Op
	return res, nil
}

func (e *Engine) terminal(s *seq.Seq[any], t Terminal) (*Result, error) {
	res := &Result{}
	found := func(v any, ok bool) (*Result, error) {
		res.Value = v
		res.Found = &ok
		return res, nil
	}

	switch t.Op {
	case TermToArray:
		if e.maxItems > 0 {
			items := s.Take(e.maxItems + 1).ToSlice()
			if len(items) > e.maxItems {
				items = items[:e.maxItems]
				res.Truncated = true
			}
			res.Value = items
			return res, nil
		}
		res.Value = s.ToSlice()
		return res, nil

	case TermCount:
		res.Value = s.Count()
		return res, nil

	case TermSum:
		add := numericPair(func(a, b float64) float64 { return a + b })
		var sumErr error
		res.Value = seq.Fold(s, any(0.0), func(acc, v any) any {
			if sumErr != nil {
				return acc
			}
			out, err := add(acc, v)
			if err != nil {
				sumErr = err
				return acc
			}
			return out
		})
		return res, sumErr

	case TermReduce:
		fn, ok := e.registry.Reducer(t.Fn)
		if !ok {
			return nil, unknownFn("reducer", t.Fn)
		}
		var reduceErr error
		reducer := func(acc, v any) any {
			if reduceErr != nil {
				return acc
			}
			out, err := fn(acc, v)
			if err != nil {
				reduceErr = err
				return acc
			}
			return out
		}
		var (
			v   any
			err error
		)
		if t.Initial != nil {
			v, err = s.Reduce(reducer, normalize(t.Initial))
		} else {
			v, err = s.Reduce(reducer)
		}
		if err != nil {
			return nil, err
		}
		res.Value = v
		return res, reduceErr

	case TermEvery, TermSome, TermSomeCount, TermFind:
		pred, ok := e.registry.Predicate(t.Fn)
		if !ok {
			return nil, unknownFn("predicate", t.Fn)
		}
		var predErr error
		test := func(v any) bool {
			ok, err := pred(v)
			if err != nil && predErr == nil {
				predErr = err
			}
			return ok
		}
		switch t.Op {
		case TermEvery:
			res.Value = s.Every(test)
		case TermSome:
			res.Value = s.Some(test)
		case TermSomeCount:
			res.Value = s.SomeCount(test, t.N)
		default:
			v, ok := s.Find(test)
			res.Value = v
			res.Found = &ok
		}
		return res, predErr

	case TermIncludes:
		res.Value = seq.Includes(s, normalize(t.Value))
		return res, nil

	case TermFirst:
		return found(s.First())

	case TermLast:
		return found(s.Last())
	}
	return nil, errors.InvalidPlan("", fmt.Sprintf("unknown terminal op %q", t.Op))
}
