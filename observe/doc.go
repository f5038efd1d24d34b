// Package observe provides OpenTelemetry metrics and tracing for lazy
// sequences and plan runs.
//
// Instrument wraps a sequence in a pass-through stage that counts pulls and
// produced values. It stays lazy: nothing is pulled until the consumer
// pulls.
//
//	m, _ := observe.NewMetrics(observe.Meter("seqrun"))
//	s := observe.Instrument(seq.FromSlice(values), "input", m, log)
//
// Setup installs in-process SDK providers that report through the logger
// instead of a network exporter.
package observe
