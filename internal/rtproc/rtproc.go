// Package rtproc wraps process execution: exit codes, captured
// stdout/stderr, command-not-found as exit 127, without inventing a
// bespoke OS abstraction beyond os/exec. OS-boundary failures are
// wrapped with github.com/pkg/errors, the same wrapping rtnet and
// rtpath use.
package rtproc

import (
	"bytes"
	"os/exec"

	"github.com/pkg/errors"
)

// CommandNotFound is the exit code reserved for "command not found".
const CommandNotFound = 127

// Result is the outcome of one process run.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Run executes name with args, capturing stdout and stderr into
// separate buffers whose relative interleaving is not preserved. A
// spawn failure (e.g. the executable does not exist) is reported via
// ExitCode 127 and a wrapped error, not a panic.
func Run(name string, args ...string) (Result, error) {
	return RunWithArgs(name, args)
}

// RunWithArgs is the slice-taking form of Run.
func RunWithArgs(name string, args []string) (Result, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return Result{ExitCode: CommandNotFound, Stdout: stdout.String(), Stderr: stderr.String()},
				errors.Wrapf(err, "rtproc: spawn %s", name)
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return Result{ExitCode: exitErr.ExitCode(), Stdout: stdout.String(), Stderr: stderr.String()}, nil
		}
		if _, ok := err.(*exec.Error); ok {
			return Result{ExitCode: CommandNotFound, Stdout: stdout.String(), Stderr: stderr.String()},
				errors.Wrapf(err, "rtproc: spawn %s", name)
		}
		return Result{ExitCode: -1, Stdout: stdout.String(), Stderr: stderr.String()},
			errors.Wrapf(err, "rtproc: run %s", name)
	}
	return Result{ExitCode: 0, Stdout: stdout.String(), Stderr: stderr.String()}, nil
}
