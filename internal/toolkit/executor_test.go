package toolkit

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/catalog"
)

// newTestExecutor returns an executor whose runFunc is a spy that records
// each argv and returns the canned outcome and error.
func newTestExecutor(outcome Outcome, err error) (*Executor, *[][]string) {
	var calls [][]string
	e := NewExecutor("seqkit", 5*time.Second)
	e.runFunc = func(_ context.Context, argv []string) (Outcome, error) {
		calls = append(calls, argv)
		return outcome, err
	}
	return e, &calls
}

func TestRun_Success(t *testing.T) {
	want := Outcome{ExitCode: 0, Stdout: []byte("file\tformat\ttype\n"), Duration: 12 * time.Millisecond}
	e, calls := newTestExecutor(want, nil)

	got, err := e.Run(context.Background(), catalog.OpStats, []string{"stats", "-T", "/d/r.fa"})

	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, [][]string{{"stats", "-T", "/d/r.fa"}}, *calls)
}

func TestRun_ToolFailure(t *testing.T) {
	e, _ := newTestExecutor(Outcome{ExitCode: 255, Stderr: []byte("[ERRO] fastx: stdin not detected")}, nil)

	_, err := e.Run(context.Background(), catalog.OpGrep, []string{"grep", "-p", "x", "/d/r.fa"})

	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, ExecToolFailure, execErr.Kind)
	require.Equal(t, "seqkit grep failed: [ERRO] fastx: stdin not detected", err.Error())
}

func TestRun_SpawnError(t *testing.T) {
	spawnErr := &exec.Error{Name: "seqkit", Err: exec.ErrNotFound}
	e, _ := newTestExecutor(Outcome{}, spawnErr)

	_, err := e.Run(context.Background(), catalog.OpStats, []string{"stats", "/d/r.fa"})

	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, ExecSpawn, execErr.Kind)
	require.Contains(t, err.Error(), "failed to start seqkit")
	require.ErrorIs(t, err, exec.ErrNotFound)
}

func TestRun_Timeout(t *testing.T) {
	e := NewExecutor("seqkit", 20*time.Millisecond)
	e.runFunc = func(ctx context.Context, _ []string) (Outcome, error) {
		<-ctx.Done()
		// A killed process reports a nonzero exit; the deadline check
		// must still win over tool-failure classification.
		return Outcome{ExitCode: -1}, nil
	}

	_, err := e.Run(context.Background(), catalog.OpSort, []string{"sort", "/d/r.fa"})

	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, ExecTimeout, execErr.Kind)
	require.Equal(t, "seqkit sort timed out after 20ms", err.Error())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRun_CallerCancellation(t *testing.T) {
	e := NewExecutor("seqkit", time.Minute)
	e.runFunc = func(ctx context.Context, _ []string) (Outcome, error) {
		<-ctx.Done()
		return Outcome{ExitCode: -1}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := e.Run(ctx, catalog.OpStats, []string{"stats", "/d/r.fa"})

	require.ErrorIs(t, err, context.Canceled)
	var execErr *ExecError
	require.False(t, errors.As(err, &execErr), "cancellation is not an ExecError")
}

func TestRunInfo_UsesFixedBudget(t *testing.T) {
	e := NewExecutor("seqkit", time.Hour)
	var deadline time.Time
	e.runFunc = func(ctx context.Context, _ []string) (Outcome, error) {
		deadline, _ = ctx.Deadline()
		return Outcome{}, nil
	}

	_, err := e.RunInfo(context.Background(), catalog.OpStats, []string{"stats", "-T", "/d/out.fa"})

	require.NoError(t, err)
	require.False(t, deadline.IsZero())
	require.LessOrEqual(t, time.Until(deadline), infoBudget)
}

func TestRun_RealProcessSuccess(t *testing.T) {
	e := NewExecutor("true", 5*time.Second)

	got, err := e.Run(context.Background(), catalog.OpStats, nil)

	require.NoError(t, err)
	require.Equal(t, 0, got.ExitCode)
}

func TestRun_RealProcessFailure(t *testing.T) {
	e := NewExecutor("sh", 5*time.Second)

	_, err := e.Run(context.Background(), catalog.OpGrep, []string{"-c", "echo oops >&2; exit 3"})

	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, ExecToolFailure, execErr.Kind)
	require.Equal(t, "seqkit grep failed: oops\n", err.Error())
}

func TestRun_RealProcessMissingBinary(t *testing.T) {
	e := NewExecutor("/nonexistent/seqkit-binary", 5*time.Second)

	_, err := e.Run(context.Background(), catalog.OpStats, []string{"stats"})

	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, ExecSpawn, execErr.Kind)
}

func TestRun_RealProcessTimeout(t *testing.T) {
	e := NewExecutor("sleep", 50*time.Millisecond)

	_, err := e.Run(context.Background(), catalog.OpSample, []string{"5"})

	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, ExecTimeout, execErr.Kind)
}

func TestExecError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  *ExecError
		want string
	}{
		{
			name: "spawn",
			err:  &ExecError{Kind: ExecSpawn, Op: catalog.OpStats, Err: errors.New("permission denied")},
			want: "failed to start seqkit: permission denied",
		},
		{
			name: "timeout",
			err:  &ExecError{Kind: ExecTimeout, Op: catalog.OpConvert, Budget: 10 * time.Minute},
			want: "seqkit convert timed out after 10m0s",
		},
		{
			name: "tool failure passes stderr verbatim",
			err:  &ExecError{Kind: ExecToolFailure, Op: catalog.OpRmdup, Stderr: "[ERRO] bad input\nline two"},
			want: "seqkit rmdup failed: [ERRO] bad input\nline two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.err.Error())
		})
	}
}
