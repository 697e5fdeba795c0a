// Package errors provides the structured error taxonomy of cypherstream.
// Every failure surfaced to the caller is an *AppError carrying a
// machine-readable code, a category and the process exit code it maps to.
package errors
