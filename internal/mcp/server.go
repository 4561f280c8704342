// Package mcp exposes the diff and chat pipelines as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/helixml/hackai-log/application/service"
	"github.com/helixml/hackai-log/domain/chat"
	"github.com/helixml/hackai-log/domain/diff"
	"github.com/helixml/hackai-log/infrastructure/api/v1/dto"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DiffProcessor segments and crops raw unified diffs.
type DiffProcessor interface {
	ProcessWithLimits(raw string, maxHunkLines, contextLines int) diff.Result
}

// ChatRenderer renders a formatted chat as Markdown.
type ChatRenderer interface {
	Render(c chat.FormattedChat, characterThreshold int) string
}

// RecordExtractor reads filtered records from the chat store.
type RecordExtractor interface {
	ExtractRecords(ctx context.Context, key string, opts ...chat.ExtractionOption) ([]chat.Document, error)
}

// Server wraps the MCP server with the hackai-log tools.
type Server struct {
	mcpServer *server.MCPServer
	diffs     DiffProcessor
	renderer  ChatRenderer
	records   RecordExtractor
	threshold int
	version   string
	logger    *slog.Logger
}

// NewServer creates a new MCP server. records may be nil when no chat store
// is configured, in which case extract_prompts reports an error.
func NewServer(diffs DiffProcessor, renderer ChatRenderer, records RecordExtractor, threshold int, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		diffs:     diffs,
		renderer:  renderer,
		records:   records,
		threshold: threshold,
		version:   version,
		logger:    logger,
	}

	mcpServer := server.NewMCPServer(
		"hackai-log",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(mcp.NewTool("process_diff",
		mcp.WithDescription("Split a unified diff into hunks and crop oversized hunks"),
		mcp.WithString("diff",
			mcp.Required(),
			mcp.Description("The raw unified diff"),
		),
		mcp.WithNumber("max_hunk_lines",
			mcp.Description("Maximum changed lines kept per hunk"),
		),
		mcp.WithNumber("context_lines",
			mcp.Description("Lines subtracted from the limit before halving"),
		),
	), s.handleProcessDiff)

	mcpServer.AddTool(mcp.NewTool("render_chat",
		mcp.WithDescription("Render a formatted chat as Markdown, collapsing long chats"),
		mcp.WithString("chat",
			mcp.Required(),
			mcp.Description("JSON object with id, created, name and messages"),
		),
		mcp.WithNumber("threshold",
			mcp.Description("Character count above which the chat is collapsed"),
		),
	), s.handleRenderChat)

	mcpServer.AddTool(mcp.NewTool("extract_prompts",
		mcp.WithDescription("List the prompts stored by the editor's assistant"),
		mcp.WithString("name",
			mcp.Description("Keep records whose name or text contains this string"),
		),
		mcp.WithString("composer",
			mcp.Description("Keep records from this composer"),
		),
		mcp.WithNumber("since",
			mcp.Description("Minimum timestamp in milliseconds"),
		),
		mcp.WithNumber("until",
			mcp.Description("Maximum timestamp in milliseconds"),
		),
		mcp.WithNumber("min_length",
			mcp.Description("Minimum text length in characters"),
		),
	), s.handleExtractPrompts)

	mcpServer.AddTool(mcp.NewTool("get_version",
		mcp.WithDescription("Get the hackai-log server version"),
	), s.handleGetVersion)
}

func (s *Server) handleProcessDiff(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("diff")
	if err != nil {
		return mcp.NewToolResultError("diff is required"), nil
	}

	result := s.diffs.ProcessWithLimits(raw,
		request.GetInt("max_hunk_lines", 0),
		request.GetInt("context_lines", -1),
	)
	return jsonResult(dto.NewDiffResponse(result))
}

func (s *Server) handleRenderChat(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("chat")
	if err != nil {
		return mcp.NewToolResultError("chat is required"), nil
	}

	var c chat.FormattedChat
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid chat: %v", err)), nil
	}
	threshold := request.GetInt("threshold", s.threshold)
	if threshold < 0 {
		return mcp.NewToolResultError("threshold must not be negative"), nil
	}

	return mcp.NewToolResultText(s.renderer.Render(c, threshold)), nil
}

func (s *Server) handleExtractPrompts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.records == nil {
		return mcp.NewToolResultError("chat store not configured"), nil
	}

	var opts []chat.ExtractionOption
	if v := request.GetString("name", ""); v != "" {
		opts = append(opts, chat.WithNameFilter(v))
	}
	if v := request.GetString("composer", ""); v != "" {
		opts = append(opts, chat.WithComposerID(v))
	}
	args := request.GetArguments()
	if _, ok := args["since"]; ok {
		opts = append(opts, chat.WithMinTimestamp(int64(request.GetFloat("since", 0))))
	}
	if _, ok := args["until"]; ok {
		opts = append(opts, chat.WithMaxTimestamp(int64(request.GetFloat("until", 0))))
	}
	if _, ok := args["min_length"]; ok {
		opts = append(opts, chat.WithCharacterThreshold(request.GetInt("min_length", 0)))
	}

	docs, err := s.records.ExtractRecords(ctx, service.PromptsKey, opts...)
	if err != nil {
		s.logger.ErrorContext(ctx, "extract prompts failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("extract prompts: %v", err)), nil
	}
	return jsonResult(docs)
}

func (s *Server) handleGetVersion(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.version), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
