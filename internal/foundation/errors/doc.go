// Package errors provides the classified error primitives used across readmegen.
//
// Every fatal condition raised while generating a README is reported as a
// ClassifiedError so the CLI can pick an exit code and a message without
// string matching:
//   - ErrorCategory: config, validation, render, pipeline, filesystem, task, prompt, internal
//   - ErrorSeverity: fatal, error, warning, info
//   - ErrorBuilder: fluent construction with context values and a wrapped cause
//   - CLIErrorAdapter: exit codes and user-facing formatting
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryRender, "render source template").
//		WithContext("file", ".verb.md").
//		Build()
package errors
