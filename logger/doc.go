// Package logger provides structured logging for pipekit programs using
// zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. Pipelines never log on
// their own; loggers are handed to the opt-in stage middleware in package
// transform and to the programs that build pipelines.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("checkout")
//	log.Info("pipeline assembled", logger.Fields(logger.FieldPipeline, "checkout", "stages", 3))
package logger
