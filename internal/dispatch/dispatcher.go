// Package dispatch executes tool invocations end to end: validate the
// parameters, stage a workspace, build and run the seqkit command,
// format the narrative, release the workspace. Every failure leaves as
// an in-band failure Response; callers never see a transport fault.
package dispatch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/catalog"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/journal"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/log"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/toolkit"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/workspace"
)

// Runner executes toolkit invocations. *toolkit.Executor satisfies it.
type Runner interface {
	Run(ctx context.Context, op catalog.Operation, argv []string) (toolkit.Outcome, error)
	RunInfo(ctx context.Context, op catalog.Operation, argv []string) (toolkit.Outcome, error)
}

// Dispatcher runs operations against the toolkit. One Dispatcher serves
// all tools; per-invocation state lives in the workspace it stages.
type Dispatcher struct {
	tempDir     string
	maxFileSize int64
	exec        Runner
	journal     *journal.Journal
	tracer      trace.Tracer
}

// New creates a dispatcher. tempDir is the workspace parent ("" for the
// system default); maxFileSize caps input sizes in bytes (0 disables the
// check); j may be nil to disable journaling.
func New(tempDir string, maxFileSize int64, exec Runner, j *journal.Journal) *Dispatcher {
	return &Dispatcher{
		tempDir:     tempDir,
		maxFileSize: maxFileSize,
		exec:        exec,
		journal:     j,
		tracer:      noop.NewTracerProvider().Tracer("dispatch"),
	}
}

// SetTracer enables per-dispatch spans on the given tracer.
func (d *Dispatcher) SetTracer(t trace.Tracer) {
	d.tracer = t
}

// Dispatch executes one tool call and reports the outcome in-band.
func (d *Dispatcher) Dispatch(ctx context.Context, tool string, args map[string]any) Response {
	ctx, span := d.tracer.Start(ctx, "seqkit.dispatch",
		trace.WithAttributes(attribute.String("tool", tool)))
	defer span.End()

	resp := d.run(ctx, tool, args)
	if resp.IsError {
		span.RecordError(resp.Fault)
		span.SetAttributes(attribute.String("fault", resp.Fault.Kind.String()))
		log.Warn(log.CatDispatch, "dispatch failed", "tool", tool, "fault", resp.Fault.Kind, "msg", resp.Fault.Msg)
	} else {
		log.Info(log.CatDispatch, "dispatch completed", "tool", tool)
	}
	return resp
}

func (d *Dispatcher) run(ctx context.Context, tool string, args map[string]any) Response {
	op, ok := catalog.ParseOperation(tool)
	if !ok {
		return failure(faultf(FaultUnknownOperation, "Unknown tool: %s", tool))
	}
	spec, _ := catalog.Lookup(op)

	vals, err := catalog.Validate(spec, args)
	if err != nil {
		return failure(classify(err))
	}

	if fault := d.checkInputs(spec, vals); fault != nil {
		return failure(fault)
	}

	ws, err := workspace.Acquire(d.tempDir)
	if err != nil {
		return failure(faultf(FaultResource, "failed to stage workspace: %v", err))
	}
	defer ws.Release()

	cs, err := toolkit.Build(spec, vals, vals.Str("input_file"), ws.Dir())
	if err != nil {
		return failure(classify(err))
	}

	started := time.Now()
	outcome, runErr := d.exec.Run(ctx, op, cs.Argv)
	d.record(ctx, op, cs.Argv, started, outcome, runErr)
	if runErr != nil {
		return failure(classify(runErr))
	}

	n := narrative{
		op:         op,
		vals:       vals,
		inputPath:  cs.InputPath,
		outputPath: cs.OutputPath,
		stdout:     string(outcome.Stdout),
	}

	if spec.ProducesFile {
		if fi, err := os.Stat(cs.OutputPath); err == nil {
			n.outputSize = fi.Size()
		}
		n.stats = d.secondaryStats(ctx, op, cs.OutputPath)

		// Persist after the statistics run so the excerpt reflects the
		// file that was produced, wherever it ends up.
		if vals.Has("output_file") {
			dest := vals.Str("output_file")
			if err := persist(cs.OutputPath, dest); err != nil {
				return failure(faultf(FaultResource, "failed to persist output to %s: %v", dest, err))
			}
			n.outputPath = dest
		}
	}

	return success(format(n))
}

// checkInputs verifies every path-bearing parameter before anything is
// staged or spawned. The input file is additionally size-capped.
func (d *Dispatcher) checkInputs(spec catalog.Spec, vals catalog.Values) *Fault {
	for _, p := range spec.Params {
		if p.PathLabel == "" || !vals.Has(p.Name) {
			continue
		}
		path := vals.Str(p.Name)
		fi, err := os.Stat(path)
		if err != nil {
			return faultf(FaultInputNotFound, "%s not found: %s", p.PathLabel, path)
		}
		if p.Name == "input_file" && d.maxFileSize > 0 && fi.Size() > d.maxFileSize {
			return faultf(FaultInputTooLarge, "Input file too large: %d bytes (limit %d bytes)",
				fi.Size(), d.maxFileSize)
		}
	}
	return nil
}

// secondaryStats runs the informational stats pass over the produced
// file. Best effort: any failure yields an empty excerpt.
func (d *Dispatcher) secondaryStats(ctx context.Context, op catalog.Operation, outputPath string) string {
	info, err := d.exec.RunInfo(ctx, catalog.OpStats, toolkit.StatsArgv(outputPath))
	if err != nil {
		log.Warn(log.CatDispatch, "secondary statistics unavailable", "op", op, "error", err)
		return ""
	}
	return strings.TrimSpace(string(info.Stdout))
}

func (d *Dispatcher) record(ctx context.Context, op catalog.Operation, argv []string, started time.Time, outcome toolkit.Outcome, runErr error) {
	e := journal.Entry{
		StartedAt:  started,
		Operation:  op.String(),
		Argv:       strings.Join(argv, " "),
		ExitCode:   outcome.ExitCode,
		DurationMS: outcome.Duration.Milliseconds(),
		Outcome:    journal.OutcomeSuccess,
	}
	if runErr != nil {
		e.Outcome = journal.OutcomeFailure
		e.Error = runErr.Error()
	}
	// Journal writes survive caller cancellation; failures only log.
	if err := d.journal.Record(context.WithoutCancel(ctx), e); err != nil {
		log.ErrorErr(log.CatJournal, "failed to record invocation", err, "op", op)
	}
}

// persist moves the produced file out of the workspace. Rename first,
// then a copy for destinations on another filesystem.
func persist(src, dest string) error {
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
