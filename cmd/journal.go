package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/journal"
)

var (
	journalLimit int
	journalOp    string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent toolkit invocations",
	Long: `Show recent toolkit invocations recorded in the journal, newest first.

Journaling is off unless journal.path (or BIO_MCP_JOURNAL_PATH) points at
a database file.

Examples:
  bio-mcp-seqkit journal            # last 20 invocations
  bio-mcp-seqkit journal -n 5       # last 5
  bio-mcp-seqkit journal --op grep  # only grep invocations`,
	RunE: runJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum entries to show")
	journalCmd.Flags().StringVar(&journalOp, "op", "", "filter by operation (stats, grep, ...)")
}

func runJournal(cmd *cobra.Command, args []string) error {
	settings, cleanup, err := loadSettings()
	if err != nil {
		return err
	}
	defer cleanup()

	if settings.Journal.Path == "" {
		return errors.New("journaling is disabled; set journal.path or BIO_MCP_JOURNAL_PATH")
	}

	j, err := journal.Open(settings.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Recent(cmd.Context(), journalLimit, journalOp)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printInfo("No recorded invocations.")
		return nil
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %-8s %-7s %6dms  seqkit %s\n",
			e.StartedAt.Local().Format("2006-01-02 15:04:05"),
			e.Operation, e.Outcome, e.DurationMS, e.Argv)
		if e.Error != "" {
			fmt.Fprintf(&b, "    %s\n", firstLine(e.Error))
		}
	}
	printInfo(strings.TrimRight(b.String(), "\n"))
	return nil
}

// firstLine truncates multi-line tool stderr to its first line.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
