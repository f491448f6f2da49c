// Package cmd wires the CLI: serving MCP over stdio by default, plus
// maintenance commands for configuration, diagnostics, and the
// invocation journal.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/config"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/log"
)

// version is set via ldflags at release; "dev" for local builds.
var version = "dev"

var cfgFile string

// printInfo is the function used to print informational messages.
// It defaults to fmt.Println and can be overridden in tests.
var printInfo = func(msg string) {
	fmt.Println(msg)
}

var rootCmd = &cobra.Command{
	Use:   "bio-mcp-seqkit",
	Short: "MCP server for the seqkit sequence toolkit",
	Long: `bio-mcp-seqkit exposes seqkit operations (stats, subseq, grep, seq,
sort, rmdup, sample, convert) as MCP tools over stdio.

Running without a subcommand starts the server. Configuration comes from
a YAML file, BIO_MCP_* environment variables, or built-in defaults.

Examples:
  bio-mcp-seqkit                 # serve MCP on stdio
  bio-mcp-seqkit doctor          # check seqkit, workspace, and journal
  bio-mcp-seqkit journal -n 10   # show the last 10 invocations
  bio-mcp-seqkit config init     # write a starter config file`,
	RunE:         runServe,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	usage := "config file"
	if p, err := config.DefaultConfigPath(); err == nil {
		usage += " (default " + p + ")"
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", usage)
}

// loadSettings loads configuration and brings up file logging. The
// returned cleanup flushes and closes the log sink.
func loadSettings() (config.Settings, func(), error) {
	settings, err := config.Load(cfgFile)
	if err != nil {
		return config.Settings{}, nil, err
	}

	cleanup := func() {}
	if settings.Log.File != "" {
		c, err := log.Init(settings.Log.File)
		if err != nil {
			return config.Settings{}, nil, fmt.Errorf("initializing log: %w", err)
		}
		cleanup = c
		if lvl, err := log.ParseLevel(settings.Log.Level); err == nil {
			log.SetMinLevel(lvl)
		}
	}
	return settings, cleanup, nil
}
