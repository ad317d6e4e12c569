// Package runner executes external commands synchronously.
//
// A command runs to completion with its output buffered; a non-zero exit is
// reported as an *ExitError and is the only failure signal callers check.
package runner
