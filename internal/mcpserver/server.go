// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes juv notebook tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/juv/internal/apperr"
	"github.com/starford/juv/internal/convert"
	"github.com/starford/juv/internal/nbservice"
	"github.com/starford/juv/internal/runtime"
	"github.com/starford/juv/internal/storage"
)

const formatsURI = "juv://formats"

// Server wraps the MCP server with juv tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *nbservice.Service
	store storage.Provider
}

// New creates a new MCP server with all juv tools registered. Paths in
// tool arguments are resolved by store.
func New(svc *nbservice.Service, store storage.Provider, version string) *Server {
	s := &Server{svc: svc, store: store}

	s.mcp = server.NewMCPServer(
		"juv",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notebooks",
		mcp.WithDescription("List the notebooks directly inside a folder."),
		mcp.WithString("folder", mcp.Description("Folder to list (empty for the root)")),
	), s.listNotebooks)

	s.mcp.AddTool(mcp.NewTool("cat_notebook",
		mcp.WithDescription("Render a notebook as text. See the juv://formats resource for both layouts."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the .ipynb file")),
		mcp.WithString("format",
			mcp.Description("Projection to render"),
			mcp.Enum(string(convert.FormatMarkdown), string(convert.FormatScript)),
		),
	), s.catNotebook)

	s.mcp.AddTool(mcp.NewTool("notebook_info",
		mcp.WithDescription("Summarize a notebook: cell counts, whether outputs are cleared, and its inline script metadata."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the .ipynb file")),
	), s.notebookInfo)

	s.mcp.AddTool(mcp.NewTool("clear_notebook",
		mcp.WithDescription("Remove all outputs and execution counts from a notebook in place."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the .ipynb file")),
	), s.clearNotebook)

	s.mcp.AddTool(mcp.NewTool("check_notebook",
		mcp.WithDescription("Report notebooks that still carry outputs. A folder checks every notebook directly inside it."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Notebook file or folder")),
	), s.checkNotebook)

	s.mcp.AddTool(mcp.NewTool("prepare_run_script",
		mcp.WithDescription("Build the Python bootstrap program that `juv run` pipes to uv to open a notebook in Jupyter."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the .ipynb file")),
		mcp.WithString("jupyter", mcp.Description("Runtime specifier, e.g. lab, notebook@7 (default lab)")),
	), s.prepareRunScript)

	s.mcp.AddTool(mcp.NewTool("get_formats",
		mcp.WithDescription("Returns the description of juv's text projections and inline metadata."),
	), s.getFormats)

	s.mcp.AddResource(
		mcp.NewResource(formatsURI, "Notebook Formats",
			mcp.WithResourceDescription("Script and Markdown projections of notebooks and the inline metadata block."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatsResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// toolError turns a service error into a tool result the model can read.
func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError("not found: " + err.Error())
	case errors.Is(err, apperr.ErrInvalidFormat):
		return mcp.NewToolResultError("not a valid notebook: " + err.Error())
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

func (s *Server) listNotebooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := req.GetString("folder", "")

	entries, err := s.store.List(folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("no notebooks found"), nil
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) catNotebook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format := convert.Format(req.GetString("format", string(convert.FormatMarkdown)))
	if format != convert.FormatMarkdown && format != convert.FormatScript {
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}

	text, err := s.svc.Render(ctx, path, format)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) notebookInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	info, err := s.svc.Info(ctx, path)
	if err != nil {
		return toolError(err), nil
	}
	out, _ := json.MarshalIndent(info, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) clearNotebook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	changed, err := s.svc.Clear(ctx, path)
	if err != nil {
		return toolError(err), nil
	}
	if !changed {
		return mcp.NewToolResultText("already cleared: " + path), nil
	}
	return mcp.NewToolResultText("cleared: " + path), nil
}

func (s *Server) checkNotebook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	paths, skipped, err := s.svc.Collect(ctx, []string{path})
	if err != nil {
		return toolError(err), nil
	}
	if len(skipped) > 0 {
		return mcp.NewToolResultError("not a notebook or folder: " + strings.Join(skipped, ", ")), nil
	}
	dirty, err := s.svc.Check(ctx, paths)
	if err != nil {
		return toolError(err), nil
	}
	if len(dirty) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("all %d notebooks are cleared", len(paths))), nil
	}
	return mcp.NewToolResultText("not cleared:\n" + strings.Join(dirty, "\n")), nil
}

func (s *Server) prepareRunScript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rt, err := runtime.Parse(req.GetString("jupyter", runtime.Default))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	script, err := s.svc.RunScript(ctx, path, rt, false, nil)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(script), nil
}

func (s *Server) getFormats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatsContract), nil
}

func (s *Server) readFormatsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatsURI,
			MIMEType: "text/markdown",
			Text:     FormatsContract,
		},
	}, nil
}
