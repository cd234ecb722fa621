package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"blockchart/internal/editor"
	"blockchart/internal/graph"
	"blockchart/internal/model"

	"github.com/mark3labs/mcp-go/mcp"
)

func newTestServer() (*Server, *editor.Editor) {
	ed := editor.New(editor.Options{Placer: graph.NewFixedPlacer(model.Point{X: 400, Y: 300})})
	return NewServer(ed, "test"), ed
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestAddChild(t *testing.T) {
	s, ed := newTestServer()
	ctx := context.Background()

	res, err := s.handleAddChild(ctx, call(map[string]any{"parent_id": 0.0}))
	if err != nil || res.IsError {
		t.Fatalf("unexpected failure: %v %+v", err, res)
	}
	if got := resultText(t, res); got != "Added node 1 under 0 at (400, 300)" {
		t.Fatalf("unexpected text %q", got)
	}

	res, _ = s.handleAddChild(ctx, call(map[string]any{"parent_id": 42.0}))
	if !res.IsError {
		t.Fatalf("expected unknown parent to be reported")
	}
	res, _ = s.handleAddChild(ctx, call(map[string]any{"parent_id": 0.5}))
	if !res.IsError {
		t.Fatalf("expected fractional id to be rejected")
	}
	res, _ = s.handleAddChild(ctx, call(map[string]any{"parent_id": 1e300}))
	if !res.IsError || !strings.Contains(resultText(t, res), "out of range") {
		t.Fatalf("expected huge id to be rejected as out of range")
	}
	res, _ = s.handleAddChild(ctx, call(map[string]any{}))
	if !res.IsError {
		t.Fatalf("expected missing id to be rejected")
	}
	if ed.Len() != 2 {
		t.Fatalf("expected 2 nodes, got %d", ed.Len())
	}
}

func TestMoveAndDrag(t *testing.T) {
	s, ed := newTestServer()
	ctx := context.Background()
	ed.AddChild(0)

	res, _ := s.handleMoveNode(ctx, call(map[string]any{"id": 1.0, "x": 10.0, "y": 20.0}))
	if res.IsError {
		t.Fatalf("move failed: %s", resultText(t, res))
	}
	if n, _ := ed.Node(1); n.X != 10 || n.Y != 20 {
		t.Fatalf("expected (10,20), got (%v,%v)", n.X, n.Y)
	}

	res, _ = s.handleDragNode(ctx, call(map[string]any{"id": 1.0, "x": 100.0, "y": 50.0}))
	if got := resultText(t, res); got != "Dropped node 1 at (80, 30)" {
		t.Fatalf("unexpected drag result %q", got)
	}
	if _, ok := ed.Dragging(); ok {
		t.Fatalf("expected drag to end")
	}

	res, _ = s.handleMoveNode(ctx, call(map[string]any{"id": 9.0, "x": 1.0, "y": 1.0}))
	if !res.IsError {
		t.Fatalf("expected unknown id to be reported")
	}
	res, _ = s.handleDragNode(ctx, call(map[string]any{"id": 1.0, "x": 1.0}))
	if !res.IsError {
		t.Fatalf("expected missing y to be rejected")
	}
}

func TestListEdgesAndGraphResource(t *testing.T) {
	s, ed := newTestServer()
	ctx := context.Background()
	ed.AddChild(0)

	res, _ := s.handleListEdges(ctx, call(nil))
	var edges []edgeOut
	if err := json.Unmarshal([]byte(resultText(t, res)), &edges); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(edges) != 1 || edges[0].Path != "M220,220 C320,220 320,320 420,320" {
		t.Fatalf("unexpected edges %+v", edges)
	}

	var req mcp.ReadResourceRequest
	req.Params.URI = graphURI
	contents, err := s.handleReadGraph(ctx, req)
	if err != nil || len(contents) != 1 {
		t.Fatalf("read: %v %d", err, len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != graphURI || tc.MIMEType != "application/json" {
		t.Fatalf("unexpected resource %+v", contents[0])
	}
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(tc.Text), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Nodes) != 2 || snap.Edges[0] != (model.Edge{ParentID: 0, ChildID: 1}) {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestPrompt(t *testing.T) {
	s, _ := newTestServer()
	var req mcp.GetPromptRequest
	req.Params.Name = "blockchart-canvas"
	res, err := s.handleGetPrompt(context.Background(), req)
	if err != nil || len(res.Messages) != 1 {
		t.Fatalf("unexpected prompt %v %+v", err, res)
	}
	if tc, ok := res.Messages[0].Content.(mcp.TextContent); !ok || !strings.Contains(tc.Text, "add_child") {
		t.Fatalf("unexpected prompt content %+v", res.Messages[0].Content)
	}
	req.Params.Name = "other"
	if _, err := s.handleGetPrompt(context.Background(), req); err == nil {
		t.Fatalf("expected unknown prompt error")
	}
}
