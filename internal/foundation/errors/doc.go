// Package errors provides the classified error primitives used across citepage.
//
// Key features:
//   - ErrorCategory: broad classification (config, registry, render, filesystem, ...)
//   - ErrorSeverity: impact level (fatal, error, warning)
//   - RetryStrategy: whether a scheduled re-run could succeed
//   - ClassifiedError: structured error with category, severity, and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: maps classified errors to exit codes and messages
//
// Example usage:
//
//	err := errors.RegistryError("save registry").
//		WithContext("path", path).
//		WithCause(writeErr).
//		Build()
package errors
