// Package mcp exposes the temporal graph to LLM agents over the Model
// Context Protocol.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanonone/dynagraph/pkg/engine"
)

func NewMCPServer(eng *engine.Engine) *mcp.Server {
	service := NewService(eng)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "DynaGraph",
		Version: "0.3.1",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "add_interaction",
		Description: "Record that two nodes interacted, either open-ended from t or over the span [t, end).",
	}, service.AddInteraction)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "remove_interaction",
		Description: "End the presence of an interaction at timestamp t.",
	}, service.RemoveInteraction)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "graph_snapshot",
		Description: "Get the static graph (nodes and edges) active at one instant.",
	}, service.Snapshot)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "node_neighbors",
		Description: "List the neighbors of a node, at one instant or over all time.",
	}, service.Neighbors)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "find_temporal_paths",
		Description: "Enumerate time-respecting paths between two nodes (each hop departs no earlier than the previous one arrived).",
	}, service.FindPaths)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Summarize the graph: node count, interaction count, number of distinct snapshot timestamps.",
	}, service.Stats)

	return s
}
