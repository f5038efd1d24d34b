// Package logger provides structured logging for seqkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	logger.RegisterComponents(base)
//	log := logger.Get(logger.ComponentPlan)
//	log.Info("run finished", logger.Fields("plan", name, "values", n))
package logger
