// Package cargoutil invokes the cargo test driver for single feature
// combinations and classifies how each child process terminated.
package cargoutil

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/YaLTeR/vapoursynth-rs/matrix"
)

// BuildArgs assembles the argument list for one combination:
// <subcommand> <extra args...> <features flag> "<features>".
// The joined feature string is always passed as a single token, even
// when empty.
func BuildArgs(subcommand string, extraArgs []string, featuresFlag, features string) []string {
	args := []string{subcommand}
	args = append(args, extraArgs...)
	args = append(args, featuresFlag, features)
	return args
}

// Runner is the exec-backed matrix.Invoker. It spawns the configured
// command once per combination and passes the child's stdout/stderr
// through unmodified.
type Runner struct {
	Command      string
	Subcommand   string
	ExtraArgs    []string
	FeaturesFlag string

	// Dir is the working directory for the child, normally the crate root.
	Dir string

	Selected Verb

	// Stdout/Stderr override the child's streams, mainly for tests.
	// Both default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Available reports whether the configured command can be located in PATH.
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.Command)
	return err == nil
}

// Invoke runs one combination to completion. Nonzero exits and signal
// terminations come back inside the Result with a nil error; an error is
// returned only when the child could not be started.
func (r *Runner) Invoke(ctx context.Context, features string) (matrix.Result, error) {
	args := BuildArgs(r.Subcommand, r.ExtraArgs, r.FeaturesFlag, features)
	if Allowed(r.Selected, V2) {
		log.Printf("%s RUN> %s %s", Prefix(V2, "HOST"), r.Command, strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return matrix.Result{}, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		res := matrix.Result{ExitCode: ee.ExitCode()}
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			res.Signal = ws.Signal().String()
		}
		return res, nil
	}
	// Launch failure (binary missing, permission denied). The exit code is
	// a sentinel; callers decide whether this is fatal.
	return matrix.Result{ExitCode: -1}, err
}
