package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanonone/dynagraph/pkg/engine"
	"github.com/sanonone/dynagraph/pkg/temporal"
)

type Service struct {
	engine *engine.Engine
}

func NewService(eng *engine.Engine) *Service {
	return &Service{engine: eng}
}

// --- Tool Handlers ---

func (s *Service) AddInteraction(ctx context.Context, req *mcp.CallToolRequest, args AddInteractionArgs) (*mcp.CallToolResult, AddInteractionResult, error) {
	var err error
	if args.End != nil {
		err = s.engine.AddInteractionSpan(args.U, args.V, args.T, *args.End)
	} else {
		err = s.engine.AddInteraction(args.U, args.V, args.T)
	}
	if err != nil {
		return nil, AddInteractionResult{}, err
	}
	return nil, AddInteractionResult{Status: "recorded"}, nil
}

func (s *Service) RemoveInteraction(ctx context.Context, req *mcp.CallToolRequest, args RemoveInteractionArgs) (*mcp.CallToolResult, RemoveInteractionResult, error) {
	if err := s.engine.RemoveInteraction(args.U, args.V, args.T); err != nil {
		return nil, RemoveInteractionResult{}, err
	}
	return nil, RemoveInteractionResult{Status: "removed"}, nil
}

func (s *Service) Snapshot(ctx context.Context, req *mcp.CallToolRequest, args SnapshotArgs) (*mcp.CallToolResult, SnapshotResult, error) {
	snap := s.engine.SnapshotAt(args.T)
	return nil, SnapshotResult{Nodes: snap.Nodes(), Edges: snap.Edges()}, nil
}

func (s *Service) Neighbors(ctx context.Context, req *mcp.CallToolRequest, args NeighborsArgs) (*mcp.CallToolResult, NeighborsResult, error) {
	if args.Node == "" {
		return nil, NeighborsResult{}, fmt.Errorf("node must not be empty")
	}
	var neighbors []string
	if args.T != nil {
		neighbors = s.engine.NeighborsAt(args.Node, *args.T)
	} else {
		neighbors = s.engine.Neighbors(args.Node)
	}
	return nil, NeighborsResult{Neighbors: neighbors}, nil
}

func (s *Service) FindPaths(ctx context.Context, req *mcp.CallToolRequest, args FindPathsArgs) (*mcp.CallToolResult, FindPathsResult, error) {
	opts := temporal.PathOptions[int64]{
		Start:   args.Start,
		End:     args.End,
		MaxWait: args.MaxWait,
		Sample:  args.Sample,
	}
	paths, err := s.engine.FindPaths(args.Source, args.Target, opts, false)
	if err != nil {
		return nil, FindPathsResult{}, err
	}

	// Render each path as a readable hop chain for the LLM.
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		var b strings.Builder
		b.WriteString(p[0].U)
		for _, h := range p {
			fmt.Fprintf(&b, " -[%d]-> %s", h.T, h.V)
		}
		out = append(out, b.String())
	}
	return nil, FindPathsResult{Paths: out}, nil
}

func (s *Service) Stats(ctx context.Context, req *mcp.CallToolRequest, args StatsArgs) (*mcp.CallToolResult, StatsResult, error) {
	st := s.engine.GraphStats(args.Detailed)
	res := StatsResult{
		Directed:     st.Directed,
		Nodes:        st.Nodes,
		Interactions: st.Interactions,
		SnapshotIDs:  st.SnapshotIDs,
	}
	if args.Detailed {
		ids := make([]int64, 0, len(st.PerSnapshot))
		for t := range st.PerSnapshot {
			ids = append(ids, t)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		parts := make([]string, 0, len(ids))
		for _, t := range ids {
			parts = append(parts, fmt.Sprintf("%d=%d", t, st.PerSnapshot[t]))
		}
		res.PerSnapshot = strings.Join(parts, ", ")
	}
	return nil, res, nil
}
