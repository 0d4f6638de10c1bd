// Package errors provides the classified error primitives used across bookpress.
//
// A ClassifiedError carries a broad category, a severity and structured
// context. The CLI adapter turns any error into a process exit code: errors
// that report their own exit code (a failed external tool) pass it through
// unchanged, classified errors map their category to a fixed code.
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryConfig, "read settings").
//		WithContext("path", path).
//		Build()
package errors
