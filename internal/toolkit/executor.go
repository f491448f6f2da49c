package toolkit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/catalog"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/log"
)

// infoBudget bounds the best-effort informational statistics run. Kept
// short and fixed: its failure never fails the dispatch.
const infoBudget = 30 * time.Second

// Outcome captures one completed subprocess run.
type Outcome struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// ExecErrorKind classifies a failed invocation.
type ExecErrorKind int

const (
	// ExecSpawn: the process never started (binary missing, not executable).
	ExecSpawn ExecErrorKind = iota
	// ExecTimeout: the execution budget expired and the process was killed.
	ExecTimeout
	// ExecToolFailure: the tool ran and exited nonzero.
	ExecToolFailure
)

// ExecError is a classified invocation failure. Error() renders the
// caller-visible message, with stderr passed through verbatim for tool
// failures.
type ExecError struct {
	Kind   ExecErrorKind
	Op     catalog.Operation
	Stderr string
	Budget time.Duration
	Err    error
}

func (e *ExecError) Error() string {
	switch e.Kind {
	case ExecSpawn:
		return fmt.Sprintf("failed to start seqkit: %v", e.Err)
	case ExecTimeout:
		return fmt.Sprintf("seqkit %s timed out after %s", e.Op, e.Budget)
	default:
		return fmt.Sprintf("seqkit %s failed: %s", e.Op, e.Stderr)
	}
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Executor runs seqkit invocations to completion, capturing stdout,
// stderr, and exit status, and classifying failures. One Executor is
// shared across dispatches; it holds no per-invocation state.
type Executor struct {
	binPath string
	timeout time.Duration

	// runFunc performs the raw execution; replaced in tests with a spy.
	// It returns a spawn-level error only; nonzero exits come back as a
	// populated Outcome with a nil error.
	runFunc func(ctx context.Context, argv []string) (Outcome, error)
}

// NewExecutor creates an executor for the given binary path and primary
// execution budget.
func NewExecutor(binPath string, timeout time.Duration) *Executor {
	e := &Executor{binPath: binPath, timeout: timeout}
	e.runFunc = e.run
	return e
}

// Run executes a primary invocation under the configured timeout.
func (e *Executor) Run(ctx context.Context, op catalog.Operation, argv []string) (Outcome, error) {
	return e.execute(ctx, op, argv, e.timeout)
}

// RunInfo executes an informational invocation under the short fixed
// budget. Callers treat its errors as non-fatal.
func (e *Executor) RunInfo(ctx context.Context, op catalog.Operation, argv []string) (Outcome, error) {
	return e.execute(ctx, op, argv, infoBudget)
}

func (e *Executor) execute(ctx context.Context, op catalog.Operation, argv []string, budget time.Duration) (Outcome, error) {
	runCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	outcome, err := e.runFunc(runCtx, argv)

	// Deadline first: a killed process surfaces as a nonzero exit or a
	// wait error, and both must classify as a timeout. Caller
	// cancellation likewise preempts classification.
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		log.Warn(log.CatExec, "invocation timed out", "op", op, "budget", budget)
		return outcome, &ExecError{Kind: ExecTimeout, Op: op, Budget: budget, Err: context.DeadlineExceeded}
	}
	if errors.Is(runCtx.Err(), context.Canceled) {
		return outcome, runCtx.Err()
	}
	if err != nil {
		log.ErrorErr(log.CatExec, "invocation spawn failed", err, "op", op, "bin", e.binPath)
		return outcome, &ExecError{Kind: ExecSpawn, Op: op, Err: err}
	}
	if outcome.ExitCode != 0 {
		log.Warn(log.CatExec, "invocation failed", "op", op, "exit_code", outcome.ExitCode)
		return outcome, &ExecError{Kind: ExecToolFailure, Op: op, Stderr: string(outcome.Stderr)}
	}

	log.Debug(log.CatExec, "invocation completed", "op", op, "duration", outcome.Duration.Round(time.Millisecond))
	return outcome, nil
}

// run is the real runFunc: start the process, wait, capture everything.
func (e *Executor) run(ctx context.Context, argv []string) (Outcome, error) {
	cmd := exec.CommandContext(ctx, e.binPath, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	outcome := Outcome{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The tool ran and failed; that is an outcome, not an error.
			outcome.ExitCode = exitErr.ExitCode()
			return outcome, nil
		}
		return outcome, err
	}
	return outcome, nil
}
