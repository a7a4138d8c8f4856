// Package result encapsulates the outcome of an operation or subprocess
// invocation. Expected domain failures (dirty tree, patch conflict, template
// out of date) travel as failed Results rather than errors so callers can
// report them without a stack trace and map them onto a process exit code.
package result

import "fmt"

// Result contains the outcome of a call: success flag, captured output,
// and an optional error for unexpected conditions.
type Result struct {
	Success bool
	Stdout  string
	Stderr  string
	Err     error
}

// ExitCode maps the result onto a process exit code: 0 on success, 1 otherwise.
func (r Result) ExitCode() int {
	if r.Success {
		return 0
	}
	return 1
}

// Ok reports whether the result was successful.
func (r Result) Ok() bool {
	return r.Success
}

// Success creates a successful result with the given stdout.
func Success(stdout string) Result {
	return Result{Success: true, Stdout: stdout}
}

// Successf creates a successful result with formatted stdout.
func Successf(format string, args ...interface{}) Result {
	return Success(fmt.Sprintf(format, args...))
}

// Failure creates a failed result with the given stderr.
func Failure(stderr string) Result {
	return Result{Success: false, Stderr: stderr}
}

// Failuref creates a failed result with formatted stderr.
func Failuref(format string, args ...interface{}) Result {
	return Failure(fmt.Sprintf(format, args...))
}

// Error creates a failed result carrying an unexpected error.
func Error(err error) Result {
	return Result{Success: false, Err: err}
}

// Inverse creates a result with the success flag flipped, preserving output.
// Used to derive "is clean" from "is dirty".
func Inverse(r Result) Result {
	return Result{
		Success: !r.Success,
		Stdout:  r.Stdout,
		Stderr:  r.Stderr,
		Err:     r.Err,
	}
}
