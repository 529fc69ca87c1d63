package mcp

import (
	"context"
	"testing"

	"github.com/sanonone/dynagraph/pkg/engine"
)

func testService(t *testing.T) *Service {
	t.Helper()
	eng, err := engine.Open(engine.Options{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("engine open: %v", err)
	}
	t.Cleanup(func() { eng.Close() })
	return NewService(eng)
}

func TestToolRoundTrip(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	end := int64(5)
	if _, _, err := s.AddInteraction(ctx, nil, AddInteractionArgs{U: "a", V: "b", T: 0, End: &end}); err != nil {
		t.Fatalf("add_interaction: %v", err)
	}
	if _, _, err := s.AddInteraction(ctx, nil, AddInteractionArgs{U: "b", V: "c", T: 3}); err != nil {
		t.Fatalf("add_interaction: %v", err)
	}

	_, snap, err := s.Snapshot(ctx, nil, SnapshotArgs{T: 3})
	if err != nil {
		t.Fatalf("graph_snapshot: %v", err)
	}
	if len(snap.Nodes) != 3 || len(snap.Edges) != 2 {
		t.Fatalf("snapshot at 3 = %d nodes %d edges, want 3 and 2", len(snap.Nodes), len(snap.Edges))
	}

	tt := int64(7)
	_, nb, err := s.Neighbors(ctx, nil, NeighborsArgs{Node: "b", T: &tt})
	if err != nil {
		t.Fatalf("node_neighbors: %v", err)
	}
	if len(nb.Neighbors) != 1 || nb.Neighbors[0] != "c" {
		t.Fatalf("neighbors of b at 7 = %v, want [c]", nb.Neighbors)
	}

	_, st, err := s.Stats(ctx, nil, StatsArgs{Detailed: true})
	if err != nil {
		t.Fatalf("graph_stats: %v", err)
	}
	if st.Nodes != 3 || st.Interactions != 2 {
		t.Fatalf("stats = %+v, want 3 nodes 2 interactions", st)
	}
	if st.PerSnapshot == "" {
		t.Fatalf("detailed stats missing per-snapshot counts")
	}
}

func TestFindPathsTool(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	for _, iv := range []struct {
		u, v string
		t    int64
	}{{"1", "2", 0}, {"2", "3", 1}, {"1", "3", 5}} {
		if _, _, err := s.AddInteraction(ctx, nil, AddInteractionArgs{U: iv.u, V: iv.v, T: iv.t}); err != nil {
			t.Fatalf("add_interaction: %v", err)
		}
	}

	_, res, err := s.FindPaths(ctx, nil, FindPathsArgs{Source: "1", Target: "3"})
	if err != nil {
		t.Fatalf("find_temporal_paths: %v", err)
	}
	if len(res.Paths) != 2 {
		t.Fatalf("paths = %v, want 2 renderings", res.Paths)
	}
	if res.Paths[0] != "1 -[0]-> 2 -[1]-> 3" {
		t.Fatalf("first rendered path = %q", res.Paths[0])
	}
}

func TestRemoveInteractionTool(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	if _, _, err := s.AddInteraction(ctx, nil, AddInteractionArgs{U: "a", V: "b", T: 0}); err != nil {
		t.Fatalf("add_interaction: %v", err)
	}
	if _, _, err := s.RemoveInteraction(ctx, nil, RemoveInteractionArgs{U: "a", V: "b", T: 4}); err != nil {
		t.Fatalf("remove_interaction: %v", err)
	}
	if _, _, err := s.RemoveInteraction(ctx, nil, RemoveInteractionArgs{U: "a", V: "z", T: 4}); err == nil {
		t.Fatalf("remove of unknown pair should fail")
	}
}
