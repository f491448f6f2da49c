package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/config"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/dispatch"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/journal"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/log"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/server"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/toolkit"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/workspace"
)

// staleWorkspaceAge bounds how old a leftover workspace must be before
// the startup sweep removes it.
const staleWorkspaceAge = time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio (the default action)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, cleanup, err := loadSettings()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()

	if n, err := workspace.Sweep(settings.TempDir, staleWorkspaceAge); err != nil {
		log.Warn(log.CatWorkspace, "startup sweep failed", "error", err)
	} else if n > 0 {
		log.Info(log.CatWorkspace, "swept stale workspaces", "count", n)
	}

	// Stdout belongs to the MCP stream from here on; anything meant for
	// a human goes to stderr or the log file.
	probe := toolkit.NewProbe(settings.SeqKitPath)
	if info, perr := probe.Detect(ctx); perr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", perr)
		log.Warn(log.CatProbe, "seqkit not detected at startup", "error", perr)
	} else {
		log.Info(log.CatProbe, "starting", "version", version, "seqkit", info.Version, "path", info.Path)
	}

	j, err := journal.Open(settings.Journal.Path)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer j.Close()

	tracer, shutdownTracing, err := server.SetupTracing(ctx, settings.Trace.Exporter, settings.Trace.Endpoint, version)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	exec := toolkit.NewExecutor(settings.SeqKitPath, settings.Timeout)
	d := dispatch.New(settings.TempDir, settings.MaxFileSize, exec, j)
	if tracer != nil {
		d.SetTracer(tracer)
	}

	if settings.ConfigFile != "" {
		watchCtx, stopWatch := context.WithCancel(ctx)
		defer stopWatch()
		go func() {
			werr := config.Watch(watchCtx, settings.ConfigFile, func(updated config.Settings) {
				if lvl, lerr := log.ParseLevel(updated.Log.Level); lerr == nil {
					log.SetMinLevel(lvl)
					log.Info(log.CatConfig, "log level updated", "level", updated.Log.Level)
				}
			})
			if werr != nil && !errors.Is(werr, context.Canceled) {
				log.Warn(log.CatConfig, "config watch stopped", "error", werr)
			}
		}()
	}

	return server.New(version, d).Serve()
}
