package matrix

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
)

// Result is the structured outcome of a single external invocation.
type Result struct {
	ExitCode int
	Signal   string
}

// OK reports whether the invocation terminated normally with status 0.
func (r Result) OK() bool { return r.ExitCode == 0 && r.Signal == "" }

// Invoker runs the external test command for one feature combination and
// blocks until it exits. A returned error means the command could not be
// run at all; test failures are conveyed through the Result instead.
type Invoker interface {
	Invoke(ctx context.Context, features string) (Result, error)
}

// InvokeFunc adapts a plain function to the Invoker interface.
type InvokeFunc func(ctx context.Context, features string) (Result, error)

func (f InvokeFunc) Invoke(ctx context.Context, features string) (Result, error) {
	return f(ctx, features)
}

// RunResult records one attempted combination.
type RunResult struct {
	Features   string `json:"features"`
	ExitCode   int    `json:"exit_code"`
	Signal     string `json:"signal,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// OK reports whether the combination passed.
func (r RunResult) OK() bool { return r.ExitCode == 0 && r.Signal == "" }

// Report aggregates a full matrix run.
type Report struct {
	StartedAt  string      `json:"started_at"`
	FinishedAt string      `json:"finished_at"`
	Results    []RunResult `json:"results"`
	Passed     int         `json:"passed"`
	Failed     int         `json:"failed"`
}

// Runner walks the matrix sequentially, one child process lifetime at a
// time. A failing combination never aborts the walk unless FailFast is set;
// it is recorded once and the next combination starts.
type Runner struct {
	Config  Config
	Invoker Invoker

	// Out receives progress and failure lines. Defaults to os.Stdout.
	Out io.Writer

	// FailFast restores the historical stop-on-first-failure behavior of
	// the crate's original CI script. Off by default.
	FailFast bool

	// Timeout bounds each invocation. Zero leaves invocations unbounded,
	// so a hung child hangs the runner.
	Timeout time.Duration
}

var failCol = color.New(color.FgRed)

// Run attempts every combination in matrix order and returns the collected
// report. It only stops early when FailFast is set or ctx is done.
func (r *Runner) Run(ctx context.Context) Report {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	rep := Report{StartedAt: time.Now().UTC().Format(time.RFC3339)}
	for _, combo := range Combinations(r.Config.Groups) {
		if ctx.Err() != nil {
			break
		}
		features := combo.Features()
		fmt.Fprintf(out, "Starting tests with features: %s\n", features)

		ictx := ctx
		cancel := context.CancelFunc(func() {})
		if r.Timeout > 0 {
			ictx, cancel = context.WithTimeout(ctx, r.Timeout)
		}
		start := time.Now()
		res, err := r.Invoker.Invoke(ictx, features)
		cancel()

		rr := RunResult{
			Features:   features,
			ExitCode:   res.ExitCode,
			Signal:     res.Signal,
			DurationMS: time.Since(start).Milliseconds(),
		}
		if err != nil && rr.OK() {
			// Mid-run start failure. Folded into an ordinary combination
			// failure so the rest of the matrix still runs.
			rr.ExitCode = -1
		}
		rep.Results = append(rep.Results, rr)

		if rr.OK() {
			rep.Passed++
			continue
		}
		rep.Failed++
		fmt.Fprintln(out, failCol.Sprintf("%s failed.", features))
		if r.FailFast {
			break
		}
	}
	rep.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	return rep
}
