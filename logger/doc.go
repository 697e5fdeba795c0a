// Package logger provides structured logging for cypherstream using zerolog.
//
// Logs go to stderr by default because stdout may be the pipeline's sink.
//
// # Configuration
//
//	logging:
//	  level: "warn"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("engine")
//	log.Warn("close failed", logger.ErrorFields("close", err))
package logger
