// Package app wires options, settings, logging and telemetry around a
// single pipeline run and maps the outcome to a process exit code.
//
// Settings come from an optional YAML file, an optional .env.cypherstream
// file and CYPHERSTREAM_* environment variables:
//
//	name: cypherstream
//	logging:
//	  level: info
//	pipeline:
//	  chunk_size: 4096
//	telemetry:
//	  enabled: true
//	  endpoint: localhost:4318
//	  insecure: true
//
// Usage:
//
//	os.Exit(app.Main(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr))
package app
