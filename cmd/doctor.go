package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/journal"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/toolkit"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/workspace"
)

// ErrChecksFailed is returned when any doctor check fails.
var ErrChecksFailed = errors.New("environment checks failed")

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check seqkit, the workspace root, and the journal",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	settings, cleanup, err := loadSettings()
	if err != nil {
		return err
	}
	defer cleanup()

	var b strings.Builder
	failed := false
	report := func(ok bool, label, detail string) {
		status := "ok"
		if !ok {
			status = "FAIL"
			failed = true
		}
		fmt.Fprintf(&b, "%-16s %-4s %s\n", label, status, detail)
	}

	if settings.ConfigFile != "" {
		report(true, "config", settings.ConfigFile)
	} else {
		report(true, "config", "defaults and environment only")
	}

	probe := toolkit.NewProbe(settings.SeqKitPath)
	if info, perr := probe.Detect(cmd.Context()); perr != nil {
		report(false, "seqkit", perr.Error())
	} else {
		report(true, "seqkit", fmt.Sprintf("%s (%s)", info.Path, info.Version))
	}

	if ws, werr := workspace.Acquire(settings.TempDir); werr != nil {
		report(false, "workspace", werr.Error())
	} else {
		report(true, "workspace", ws.Dir())
		ws.Release()
	}

	if settings.Journal.Path == "" {
		report(true, "journal", "disabled")
	} else if j, jerr := journal.Open(settings.Journal.Path); jerr != nil {
		report(false, "journal", jerr.Error())
	} else {
		report(true, "journal", settings.Journal.Path)
		j.Close()
	}

	printInfo(strings.TrimRight(b.String(), "\n"))
	if failed {
		return ErrChecksFailed
	}
	return nil
}
