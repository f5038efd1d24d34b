package observe

import (
	"context"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/seq"
)

// Instrument returns a sequence yielding exactly the values of s while
// counting pulls and values under name. Exhaustion is logged once at debug
// level. m and log may be nil.
func Instrument[T any](s *seq.Seq[T], name string, m *Metrics, log *logger.Logger) *seq.Seq[T] {
	out, _ := Counting(s, name, m, log)
	return out
}

type instrumentIter[T any] struct {
	source  seq.Iterator[T]
	name    string
	metrics *Metrics
	log     *logger.Logger
	pulls   int64
	values  int64
}

func (it *instrumentIter[T]) Next() (T, bool) {
	v, ok := it.source.Next()
	it.pulls++
	it.metrics.RecordPull(context.Background(), it.name, ok)
	if ok {
		it.values++
		return v, true
	}
	if it.log != nil {
		it.log.Debug("sequence exhausted", logger.Fields(
			logger.FieldSequence, it.name,
			logger.FieldPulls, it.pulls,
			logger.FieldValues, it.values,
		))
	}
	return v, false
}

// Stats reports the pulls and values observed so far by an instrumented
// sequence built with Counting.
type Stats struct {
	Pulls  int64
	Values int64
}

// Counting is like Instrument but also returns a Stats snapshot function.
func Counting[T any](s *seq.Seq[T], name string, m *Metrics, log *logger.Logger) (*seq.Seq[T], func() Stats) {
	it := &instrumentIter[T]{source: s, name: name, metrics: m, log: log}
	return seq.FromIterator[T](it), func() Stats {
		return Stats{Pulls: it.pulls, Values: it.values}
	}
}
