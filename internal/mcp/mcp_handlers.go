package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jblievremont/sonarqube/core"
	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/internal/source"
	"github.com/jblievremont/sonarqube/internal/telemetry"
	"github.com/jblievremont/sonarqube/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.AnalysisStore
	metrics *telemetry.Metrics
}

// fileSourceEntry is one row of list_file_sources.
type fileSourceEntry struct {
	FileUUID  string `json:"file_uuid"`
	DataHash  string `json:"data_hash"`
	SrcHash   string `json:"src_hash"`
	Lines     int    `json:"lines"`
	UpdatedAt int64  `json:"updated_at"`
}

// fileSourceView is the answer of get_file_source.
type fileSourceView struct {
	FileUUID    string        `json:"file_uuid"`
	ProjectUUID string        `json:"project_uuid"`
	DataType    string        `json:"data_type"`
	SrcHash     string        `json:"src_hash"`
	TotalLines  int           `json:"total_lines"`
	Lines       []source.Line `json:"lines"`
}

func toolResultJSON(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

func parseDataType(request mcp.CallToolRequest) (schema.DataType, error) {
	dataType := schema.DataType(request.GetString("data_type", string(schema.SourceData)))
	if dataType != schema.SourceData && dataType != schema.TestData {
		return "", fmt.Errorf("invalid data_type '%s'. must be SOURCE or TEST", dataType)
	}
	return dataType, nil
}

func (h *toolHandler) handleAnalyzeReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.ReportDir = request.GetString("report_dir", "")
	if cfg.ReportDir == "" {
		return mcp.NewToolResultError("report_dir is required"), nil
	}

	summary, err := core.RunAnalysis(core.WithSuppressHeader(ctx), cfg, h.store, h.metrics)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return toolResultJSON(summary), nil
}

func (h *toolHandler) handleGetStoreStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.store.GetStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get store status: %v", err)), nil
	}
	return toolResultJSON(status), nil
}

func (h *toolHandler) handleListFileSources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectUUID := request.GetString("project_uuid", "")
	if projectUUID == "" {
		return mcp.NewToolResultError("project_uuid is required"), nil
	}
	dataType, err := parseDataType(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	session, err := h.store.OpenSession(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open session: %v", err)), nil
	}
	defer func() { _ = session.Close() }()

	hashes, err := session.SelectHashesForProject(ctx, projectUUID, dataType)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list file sources: %v", err)), nil
	}

	entries := make([]fileSourceEntry, 0, len(hashes))
	for fileUUID, record := range hashes {
		// line hashes cannot tell a blank one-line file from an empty one
		stored, found, err := session.SelectFileSource(ctx, fileUUID, dataType)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read file source %s: %v", fileUUID, err)), nil
		}
		var lineCount int
		if found {
			lines, err := source.Decode(stored.BinaryData)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to decode file source %s: %v", fileUUID, err)), nil
			}
			lineCount = len(lines)
		}
		entries = append(entries, fileSourceEntry{
			FileUUID:  fileUUID,
			DataHash:  record.DataHash,
			SrcHash:   record.SrcHash,
			Lines:     lineCount,
			UpdatedAt: record.UpdatedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].FileUUID < entries[j].FileUUID })
	return toolResultJSON(entries), nil
}

func (h *toolHandler) handleGetFileSource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fileUUID := request.GetString("file_uuid", "")
	if fileUUID == "" {
		return mcp.NewToolResultError("file_uuid is required"), nil
	}
	dataType, err := parseDataType(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	from := request.GetInt("from_line", 1)
	to := request.GetInt("to_line", 0)
	if from < 1 || (to != 0 && to < from) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid line range [%d, %d]", from, to)), nil
	}

	session, err := h.store.OpenSession(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open session: %v", err)), nil
	}
	defer func() { _ = session.Close() }()

	record, found, err := session.SelectFileSource(ctx, fileUUID, dataType)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read file source: %v", err)), nil
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("no %s file source for %s", dataType, fileUUID)), nil
	}

	lines, err := source.Decode(record.BinaryData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode file source: %v", err)), nil
	}

	view := fileSourceView{
		FileUUID:    record.FileUUID,
		ProjectUUID: record.ProjectUUID,
		DataType:    string(record.DataType),
		SrcHash:     record.SrcHash,
		TotalLines:  len(lines),
		Lines:       selectLines(lines, from, to),
	}
	return toolResultJSON(view), nil
}

// selectLines keeps the lines numbered in [from, to]. A zero to means the last line.
func selectLines(lines []source.Line, from, to int) []source.Line {
	if to == 0 || to > len(lines) {
		to = len(lines)
	}
	if from > to {
		return []source.Line{}
	}
	return lines[from-1 : to]
}
