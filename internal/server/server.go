// Package server exposes the operation catalog as MCP tools over stdio.
package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/catalog"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/dispatch"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/log"
)

const serverName = "bio-mcp-seqkit"

const instructions = `bio-mcp-seqkit bridges MCP clients to the seqkit sequence toolkit.
Tools operate on FASTA/FASTQ files readable from the server's filesystem;
pass absolute paths. File-producing tools stage their result in a private
scratch directory that is removed when the call returns: use the embedded
statistics excerpt for a summary that outlives it, or pass output_file to
keep the produced file at a path of your choosing. The seqkit binary must
be installed and reachable (PATH or the configured seqkit_path).`

// Server hosts the MCP endpoint. Every catalog operation is registered
// as one tool; all tool failures are reported in-band.
type Server struct {
	mcp        *mcpserver.MCPServer
	dispatcher *dispatch.Dispatcher
	tools      []mcp.Tool
}

// New assembles the MCP server and registers all catalog tools.
func New(version string, d *dispatch.Dispatcher) *Server {
	s := &Server{
		mcp: mcpserver.NewMCPServer(
			serverName,
			version,
			mcpserver.WithToolCapabilities(false),
			mcpserver.WithInstructions(instructions),
			mcpserver.WithRecovery(),
		),
		dispatcher: d,
	}
	for _, spec := range catalog.Specs() {
		tool := buildTool(spec)
		s.mcp.AddTool(tool, s.handler(spec.Op.ToolName()))
		s.tools = append(s.tools, tool)
	}
	return s
}

// Tools lists the registered tool definitions.
func (s *Server) Tools() []mcp.Tool {
	return s.tools
}

// Serve runs the stdio transport until the client disconnects.
func (s *Server) Serve() error {
	log.Info(log.CatMCP, "serving over stdio", "tools", len(s.tools))
	return mcpserver.ServeStdio(s.mcp)
}

func (s *Server) handler(tool string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := s.dispatcher.Dispatch(ctx, tool, request.GetArguments())
		if resp.IsError {
			return mcp.NewToolResultError(resp.Text), nil
		}
		return mcp.NewToolResultText(resp.Text), nil
	}
}

// buildTool renders one catalog spec as an MCP tool definition.
func buildTool(spec catalog.Spec) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(spec.Description)}
	for _, p := range spec.Params {
		opts = append(opts, paramOption(p))
	}
	return mcp.NewTool(spec.Op.ToolName(), opts...)
}

func paramOption(p catalog.Param) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Required {
		opts = append(opts, mcp.Required())
	}
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}

	switch p.Kind {
	case catalog.KindBool:
		if d, ok := p.Default.(bool); ok {
			opts = append(opts, mcp.DefaultBool(d))
		}
		return mcp.WithBoolean(p.Name, opts...)

	case catalog.KindInt:
		if d, ok := p.Default.(int); ok {
			opts = append(opts, mcp.DefaultNumber(float64(d)))
		}
		return mcp.WithNumber(p.Name, opts...)

	case catalog.KindFloat:
		if d, ok := p.Default.(float64); ok {
			opts = append(opts, mcp.DefaultNumber(d))
		}
		return mcp.WithNumber(p.Name, opts...)

	case catalog.KindEnum:
		opts = append(opts, mcp.Enum(p.Enum...))
		if d, ok := p.Default.(string); ok {
			opts = append(opts, mcp.DefaultString(d))
		}
		return mcp.WithString(p.Name, opts...)

	default:
		if d, ok := p.Default.(string); ok {
			opts = append(opts, mcp.DefaultString(d))
		}
		return mcp.WithString(p.Name, opts...)
	}
}
