// Package errors provides error handling conventions for the mcpsync CLI.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, exit code constants
// following standard Unix conventions, and re-exports of the
// cockroachdb/errors constructors used throughout the codebase.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, syncerrors.ErrNotFound) {
//	    // handle not found case
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion for CLI applications:
//
//	err := syncerrors.NewUserError(syncerrors.ErrInvalidConfig, "Check your config file")
//	var exitErr *syncerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
