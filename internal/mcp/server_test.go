package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/helixml/hackai-log/application/service"
	"github.com/helixml/hackai-log/domain/chat"
	"github.com/helixml/hackai-log/infrastructure/api/v1/dto"
	"github.com/helixml/hackai-log/infrastructure/markdown"
	"github.com/mark3labs/mcp-go/mcp"
)

// fakeRecords implements RecordExtractor with canned prompts.
type fakeRecords struct {
	docs []chat.Document
	err  error
	key  string
	n    int
}

func (f *fakeRecords) ExtractRecords(_ context.Context, key string, opts ...chat.ExtractionOption) ([]chat.Document, error) {
	f.key = key
	f.n = len(opts)
	if f.err != nil {
		return nil, f.err
	}
	return chat.NewExtractionOptions(opts...).Filter(f.docs), nil
}

func promptDoc(t *testing.T, text string, unixMs int64) chat.Document {
	t.Helper()
	doc, err := chat.NewDocument().With("text", text)
	if err != nil {
		t.Fatalf("build document: %v", err)
	}
	doc, err = doc.With("unixMs", unixMs)
	if err != nil {
		t.Fatalf("build document: %v", err)
	}
	return doc
}

func testServer(t *testing.T, records RecordExtractor) *Server {
	t.Helper()
	return NewServer(
		service.NewDiff(service.WithDiffLimits(20, 3)),
		markdown.NewRenderer(nil),
		records,
		1000,
		"0.1.0-test",
		nil,
	)
}

// sendMessage marshals a JSON-RPC request, sends it through HandleMessage,
// and returns the JSONRPCResponse.
func sendMessage(t *testing.T, srv *Server, method string, id int, params map[string]any) mcp.JSONRPCResponse {
	t.Helper()

	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		msg["params"] = params
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	result := srv.MCPServer().HandleMessage(context.Background(), raw)

	resp, ok := result.(mcp.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T: %+v", result, result)
	}
	return resp
}

// resultJSON re-marshals the Result field through JSON into dst.
func resultJSON(t *testing.T, resp mcp.JSONRPCResponse, dst any) {
	t.Helper()
	b, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		t.Fatalf("unmarshal result into %T: %v", dst, err)
	}
}

func initializeParams() map[string]any {
	return map[string]any{
		"protocolVersion": "2025-06-18",
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "test-client",
			"version": "0.0.1",
		},
	}
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) mcp.CallToolResult {
	t.Helper()
	sendMessage(t, srv, "initialize", 1, initializeParams())
	resp := sendMessage(t, srv, "tools/call", 2, map[string]any{
		"name":      name,
		"arguments": args,
	})
	var result mcp.CallToolResult
	resultJSON(t, resp, &result)
	return result
}

func textFromContent(t *testing.T, result mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in response")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}

func TestServer_Initialize(t *testing.T) {
	srv := testServer(t, nil)
	resp := sendMessage(t, srv, "initialize", 1, initializeParams())

	var result mcp.InitializeResult
	resultJSON(t, resp, &result)

	if result.ServerInfo.Name != "hackai-log" {
		t.Errorf("expected server name hackai-log, got %s", result.ServerInfo.Name)
	}
	if result.ServerInfo.Version != "0.1.0-test" {
		t.Errorf("expected version 0.1.0-test, got %s", result.ServerInfo.Version)
	}
	if result.Capabilities.Tools == nil {
		t.Error("expected tools capability to be present")
	}
}

func TestServer_ListTools(t *testing.T) {
	srv := testServer(t, nil)
	sendMessage(t, srv, "initialize", 1, initializeParams())

	resp := sendMessage(t, srv, "tools/list", 2, nil)

	var result mcp.ListToolsResult
	resultJSON(t, resp, &result)

	tools := map[string]mcp.Tool{}
	for _, tool := range result.Tools {
		tools[tool.Name] = tool
	}
	for _, name := range []string{"process_diff", "render_chat", "extract_prompts", "get_version"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing tool: %s", name)
		}
	}
	if len(tools["process_diff"].InputSchema.Required) != 1 {
		t.Errorf("process_diff required = %v, want [diff]", tools["process_diff"].InputSchema.Required)
	}
}

func TestServer_ProcessDiff(t *testing.T) {
	srv := testServer(t, nil)
	raw := "diff --git a/a.txt b/a.txt\n@@ -1,1 +1,1 @@\n-old\n+new\ndiff --git a/b.txt b/b.txt\n@@ -3,1 +3,2 @@\n+x\n"

	result := callTool(t, srv, "process_diff", map[string]any{"diff": raw})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}

	var got dto.DiffResponse
	if err := json.Unmarshal([]byte(textFromContent(t, result)), &got); err != nil {
		t.Fatalf("unmarshal diff: %v", err)
	}
	if got.TotalHunks != 2 {
		t.Fatalf("expected 2 hunks, got %d", got.TotalHunks)
	}
	if got.Hunks[1].StartLine != 3 {
		t.Errorf("expected second hunk to start at 3, got %d", got.Hunks[1].StartLine)
	}
}

func TestServer_ProcessDiff_MissingArgument(t *testing.T) {
	result := callTool(t, testServer(t, nil), "process_diff", map[string]any{})
	if !result.IsError {
		t.Fatal("expected an error result")
	}
}

func TestServer_RenderChat(t *testing.T) {
	c := chat.NewFormattedChat("c1", 0, "", []chat.Message{
		{Role: chat.RoleUser, Content: "hello"},
		{Role: chat.RoleAssistant, Content: "hi there"},
	})
	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal chat: %v", err)
	}

	result := callTool(t, testServer(t, nil), "render_chat", map[string]any{"chat": string(raw)})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}

	text := textFromContent(t, result)
	if !strings.Contains(text, markdown.PromptHeading) || !strings.Contains(text, "hi there") {
		t.Errorf("unexpected markdown: %q", text)
	}
}

func TestServer_RenderChat_InvalidJSON(t *testing.T) {
	result := callTool(t, testServer(t, nil), "render_chat", map[string]any{"chat": "{"})
	if !result.IsError {
		t.Fatal("expected an error result")
	}
}

func TestServer_ExtractPrompts(t *testing.T) {
	records := &fakeRecords{docs: []chat.Document{
		promptDoc(t, "early", 100),
		promptDoc(t, "late", 500),
	}}

	result := callTool(t, testServer(t, records), "extract_prompts", map[string]any{"since": 200})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}
	if records.key != service.PromptsKey {
		t.Errorf("read key %q, want %q", records.key, service.PromptsKey)
	}

	var got []map[string]any
	if err := json.Unmarshal([]byte(textFromContent(t, result)), &got); err != nil {
		t.Fatalf("unmarshal prompts: %v", err)
	}
	if len(got) != 1 || got[0]["text"] != "late" {
		t.Errorf("unexpected prompts: %v", got)
	}
}

func TestServer_ExtractPrompts_Errors(t *testing.T) {
	result := callTool(t, testServer(t, nil), "extract_prompts", map[string]any{})
	if !result.IsError {
		t.Error("expected an error without a store")
	}

	records := &fakeRecords{err: errors.New("database is locked")}
	result = callTool(t, testServer(t, records), "extract_prompts", map[string]any{})
	if !result.IsError {
		t.Error("expected an error from the store")
	}
}

func TestServer_GetVersion(t *testing.T) {
	result := callTool(t, testServer(t, nil), "get_version", map[string]any{})
	if got := textFromContent(t, result); got != "0.1.0-test" {
		t.Errorf("version = %q", got)
	}
}
