package main

import (
	"os"

	"github.com/bio-mcp/bio-mcp-seqkit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
