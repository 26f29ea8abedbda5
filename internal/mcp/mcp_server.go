// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/internal/telemetry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the compute engine MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, st contract.AnalysisStore, metrics *telemetry.Metrics) *server.MCPServer {
	s := server.NewMCPServer(
		"Compute Engine Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   st,
		metrics: metrics,
	}

	// --- 1. Tool: analyze_report ---
	s.AddTool(mcp.NewTool("analyze_report",
		mcp.WithDescription("Run the computation steps over a batch report directory and persist its file sources."),
		mcp.WithString("report_dir", mcp.Description("Path to the extracted batch report."), mcp.Required()),
	), h.handleAnalyzeReport)

	// --- 2. Tool: get_store_status ---
	s.AddTool(mcp.NewTool("get_store_status",
		mcp.WithDescription("Describe the persistence store: backend, schema version and row counts."),
	), h.handleGetStoreStatus)

	// --- 3. Tool: list_file_sources ---
	s.AddTool(mcp.NewTool("list_file_sources",
		mcp.WithDescription("List the stored file sources of a project with their hashes."),
		mcp.WithString("project_uuid", mcp.Description("UUID of the project."), mcp.Required()),
		mcp.WithString("data_type", mcp.Description("Kind of payload. Defaults to 'SOURCE'."), mcp.Enum("SOURCE", "TEST")),
	), h.handleListFileSources)

	// --- 4. Tool: get_file_source ---
	s.AddTool(mcp.NewTool("get_file_source",
		mcp.WithDescription("Decode the stored lines of one file, optionally restricted to a line range."),
		mcp.WithString("file_uuid", mcp.Description("UUID of the file."), mcp.Required()),
		mcp.WithString("data_type", mcp.Description("Kind of payload. Defaults to 'SOURCE'."), mcp.Enum("SOURCE", "TEST")),
		mcp.WithNumber("from_line", mcp.Description("First line to return, starting at 1.")),
		mcp.WithNumber("to_line", mcp.Description("Last line to return, inclusive.")),
	), h.handleGetFileSource)

	return s
}

// StartMCPServer starts the compute engine MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, st contract.AnalysisStore, metrics *telemetry.Metrics) error {
	s := NewMCPServer(baseCfg, st, metrics)
	return server.ServeStdio(s)
}
