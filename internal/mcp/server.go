package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"blockchart/internal/editor"
	"blockchart/internal/model"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const graphURI = "blockchart://graph"

// Server exposes one canvas over the Model Context Protocol.
type Server struct {
	mcpServer *server.MCPServer
	ed        *editor.Editor
}

func NewServer(ed *editor.Editor, version string) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer("blockchart", version),
		ed:        ed,
	}
	s.registerResources()
	s.registerTools()
	s.registerPrompts()
	return s
}

// Serve runs the server on stdio until stdin closes.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(
		graphURI,
		"Canvas graph",
		mcp.WithResourceDescription("Every node (id, parentId, x, y) and every parent -> child edge"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadGraph)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"add_child",
		mcp.WithDescription("Add a child node under an existing node. The child appears at a random position."),
		mcp.WithNumber("parent_id", mcp.Required(), mcp.Description("Id of the parent node (0 is the root)")),
	), s.handleAddChild)

	s.mcpServer.AddTool(mcp.NewTool(
		"move_node",
		mcp.WithDescription("Set a node's top-left corner."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Node id")),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Left edge in canvas pixels")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Top edge in canvas pixels")),
	), s.handleMoveNode)

	s.mcpServer.AddTool(mcp.NewTool(
		"drag_node",
		mcp.WithDescription("Drag a node with the pointer and drop it. The pointer holds the node 20px in from its corner."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Node id")),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Pointer x at drop")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Pointer y at drop")),
	), s.handleDragNode)

	s.mcpServer.AddTool(mcp.NewTool(
		"list_edges",
		mcp.WithDescription("List parent -> child edges with their connector paths."),
	), s.handleListEdges)
}

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt(
		"blockchart-canvas",
		mcp.WithPromptDescription("Explains the canvas model: a rooted tree of draggable nodes"),
	), s.handleGetPrompt)
}

func (s *Server) handleReadGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.ed.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graph: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// intArg reads a required whole-number argument.
func intArg(request mcp.CallToolRequest, name string) (int, error) {
	v := mcp.ParseFloat64(request, name, math.NaN())
	if math.IsNaN(v) {
		return 0, fmt.Errorf("missing %s", name)
	}
	if math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%s must be a whole number, got %v", name, v)
	}
	if math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%s out of range: %v", name, v)
	}
	return int(v), nil
}

func pointArgs(request mcp.CallToolRequest) (model.Point, error) {
	x := mcp.ParseFloat64(request, "x", math.NaN())
	y := mcp.ParseFloat64(request, "y", math.NaN())
	if math.IsNaN(x) || math.IsNaN(y) {
		return model.Point{}, fmt.Errorf("missing x/y")
	}
	return model.Point{X: x, Y: y}, nil
}

func fmtPoint(p model.Point) string {
	return "(" + strconv.FormatFloat(p.X, 'f', -1, 64) + ", " + strconv.FormatFloat(p.Y, 'f', -1, 64) + ")"
}

func (s *Server) handleAddChild(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parent, err := intArg(request, "parent_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, ok := s.ed.AddChild(parent)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("node not found: %d", parent)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added node %d under %d at %s", n.ID, parent, fmtPoint(model.Point{X: n.X, Y: n.Y}))), nil
}

func (s *Server) handleMoveNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := intArg(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := pointArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !s.ed.MoveNode(id, p.X, p.Y) {
		return mcp.NewToolResultError(fmt.Sprintf("node not found: %d", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Moved node %d to %s", id, fmtPoint(p))), nil
}

func (s *Server) handleDragNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := intArg(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := pointArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, ok := s.ed.Node(id); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("node not found: %d", id)), nil
	}
	payload := s.ed.DragStart(id)
	s.ed.DragMove(p)
	mv := s.ed.Drop(payload, p)
	return mcp.NewToolResultText(fmt.Sprintf("Dropped node %d at %s", mv.ID, fmtPoint(mv.To))), nil
}

type edgeOut struct {
	ParentID int    `json:"parentId"`
	ChildID  int    `json:"childId"`
	Path     string `json:"path"`
}

func (s *Server) handleListEdges(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sc := s.ed.Scene()
	out := make([]edgeOut, 0, len(sc.Connectors))
	for _, c := range sc.Connectors {
		out = append(out, edgeOut{ParentID: c.Edge.ParentID, ChildID: c.Edge.ChildID, Path: c.Curve.Path()})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	if request.Params.Name != "blockchart-canvas" {
		return nil, fmt.Errorf("prompt not found: %s", request.Params.Name)
	}

	promptText := `You are editing a blockchart canvas.

- The canvas is a tree. Node 0 is the root; every other node has exactly one parent.
- Nodes are 40x40 squares positioned by their top-left corner.
- Edges are dashed curves between node centres.
- Use add_child to grow the tree, move_node or drag_node to rearrange it,
  and read blockchart://graph to see the current state.
`
	return mcp.NewGetPromptResult(
		"blockchart-canvas",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(promptText)),
		},
	), nil
}
