package temporal

import (
	"math"
	"testing"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNodePresenceAndContribution(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 3)
	g.AddInteractionSpan(2, 3, 5, 7)
	// Snapshot ids: 0, 3, 5, 7.

	if got := g.NodePresence(1); !equalInts(got, []int{0}) {
		t.Errorf("NodePresence(1) = %v, want [0]", got)
	}
	if got := g.NodePresence(2); !equalInts(got, []int{0, 5}) {
		t.Errorf("NodePresence(2) = %v, want [0 5]", got)
	}
	if c := g.NodeContribution(2); !almost(c, 0.5) {
		t.Errorf("NodeContribution(2) = %v, want 0.5", c)
	}
	if c := g.NodeContribution(99); c != 0 {
		t.Errorf("NodeContribution of absent node = %v, want 0", c)
	}
}

func TestInteractionContributionAndCoverage(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 3)
	g.AddInteractionSpan(2, 3, 5, 7)
	// Snapshot ids: 0, 3, 5, 7. (1,2) lives at id 0 only.

	if c := g.InteractionContribution(1, 2); !almost(c, 0.25) {
		t.Errorf("InteractionContribution(1,2) = %v, want 0.25", c)
	}
	// Presences: node1 at {0}, node2 at {0,5}, node3 at {5} = 4 of 12 cells.
	if c := g.Coverage(); !almost(c, 4.0/12.0) {
		t.Errorf("Coverage = %v, want 1/3", c)
	}

	empty := NewGraph[int, int]()
	if c := empty.Coverage(); c != 0 {
		t.Errorf("empty graph coverage = %v, want 0", c)
	}
}

func TestInterEventTimeDistribution(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 3)
	g.AddInteractionSpan(2, 3, 3, 10)
	// Stream: +@0, -@3, +@3, -@10 → gaps 3, 0, 7.

	got := g.InterEventTimeDistribution()
	want := map[int]int{3: 1, 0: 1, 7: 1}
	if len(got) != len(want) {
		t.Fatalf("distribution = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("gap %d: count = %d, want %d", k, got[k], v)
		}
	}
}

func TestNodeAndInteractionInterEventTimes(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 3)
	g.AddInteractionSpan(3, 4, 1, 2)

	// Node 1 only sees the (1,2) events at 0 and 3.
	got := g.NodeInterEventTimeDistribution(1)
	if len(got) != 1 || got[3] != 1 {
		t.Errorf("node distribution = %v, want {3: 1}", got)
	}

	// Orientation is ignored on undirected graphs.
	got = g.InteractionInterEventTimeDistribution(2, 1)
	if len(got) != 1 || got[3] != 1 {
		t.Errorf("interaction distribution = %v, want {3: 1}", got)
	}
}

func TestDiGraphInterEventTimes(t *testing.T) {
	g := NewDiGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 3)
	g.AddInteractionSpan(3, 1, 1, 5)

	out := g.OutInterEventTimeDistribution(1)
	if len(out) != 1 || out[3] != 1 {
		t.Errorf("out distribution = %v, want {3: 1}", out)
	}
	in := g.InInterEventTimeDistribution(1)
	if len(in) != 1 || in[4] != 1 {
		t.Errorf("in distribution = %v, want {4: 1}", in)
	}
}

func TestBuilders(t *testing.T) {
	g := NewGraph[int, int]()
	if err := g.AddPath([]int{1, 2, 3, 4}, 0); err != nil {
		t.Fatal(err)
	}
	for _, pair := range [][2]int{{1, 2}, {2, 3}, {3, 4}} {
		if !g.HasInteractionAt(pair[0], pair[1], 0) {
			t.Errorf("path edge %v missing", pair)
		}
	}

	s := NewGraph[int, int]()
	if err := s.AddStar([]int{0, 1, 2, 3}, 5); err != nil {
		t.Fatal(err)
	}
	if s.DegreeAt(0, 5) != 3 {
		t.Errorf("star hub degree = %d, want 3", s.DegreeAt(0, 5))
	}

	c := NewGraph[int, int]()
	if err := c.AddCycle([]int{1, 2, 3}, 0); err != nil {
		t.Fatal(err)
	}
	if !c.HasInteractionAt(3, 1, 0) {
		t.Error("cycle closing edge missing")
	}
	if c.NumberOfInteractions() != 3 {
		t.Errorf("cycle interactions = %d, want 3", c.NumberOfInteractions())
	}
}
