package temporal

import (
	"errors"
	"testing"
)

func TestSnapshotAt(t *testing.T) {
	g := NewGraph[string, int]()
	g.AddInteractionSpan("a", "b", 0, 5)
	g.AddInteractionSpan("b", "c", 2, 4)
	g.AddInteractionSpan("c", "d", 10, 12)

	s := g.SnapshotAt(3)
	if s.Directed() {
		t.Fatal("snapshot of an undirected graph must be undirected")
	}
	if s.Order() != 3 {
		t.Fatalf("Order = %d, want 3", s.Order())
	}
	if !s.HasEdge("a", "b") || !s.HasEdge("b", "a") {
		t.Error("edge a-b missing at t=3")
	}
	if !s.HasEdge("b", "c") {
		t.Error("edge b-c missing at t=3")
	}
	if s.HasEdge("c", "d") {
		t.Error("edge c-d must not exist at t=3")
	}
	if len(s.Edges()) != 2 {
		t.Errorf("Edges = %v, want 2 undirected edges", s.Edges())
	}

	// The snapshot is an independent copy.
	g.RemoveInteraction("a", "b", 0)
	if !s.HasEdge("a", "b") {
		t.Error("mutating the source must not affect an existing snapshot")
	}
}

func TestSnapshotAtDirected(t *testing.T) {
	g := NewDiGraph[string, int]()
	g.AddInteractionSpan("a", "b", 0, 5)

	s := g.SnapshotAt(0)
	if !s.Directed() {
		t.Fatal("snapshot of a directed graph must be directed")
	}
	if !s.HasEdge("a", "b") {
		t.Error("forward edge missing")
	}
	if s.HasEdge("b", "a") {
		t.Error("reverse edge must not exist")
	}
}

func TestSnapshotIDMapping(t *testing.T) {
	g := NewGraph[string, int]()
	g.AddInteractionSpan("a", "b", 0, 2)
	s := g.SnapshotAt(0)

	id, ok := s.NodeID("a")
	if !ok {
		t.Fatal("NodeID for a present node failed")
	}
	label, ok := s.Label(id)
	if !ok || label != "a" {
		t.Fatalf("Label(%d) = %q, %v, want a", id, label, ok)
	}
	if _, ok := s.NodeID("zzz"); ok {
		t.Error("NodeID for an absent node must fail")
	}
}

func TestTemporalSnapshotIDs(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 3)
	g.AddInteractionSpan(2, 3, 1, 3)
	g.AddInteraction(3, 4, 7)

	got := g.TemporalSnapshotIDs()
	want := []int{0, 1, 3, 7}
	if !equalInts(got, want) {
		t.Fatalf("TemporalSnapshotIDs = %v, want %v", got, want)
	}

	// Removing the only user of a boundary retires it.
	if err := g.RemoveInteraction(2, 3, 1); err != nil {
		t.Fatal(err)
	}
	got = g.TemporalSnapshotIDs()
	want = []int{0, 3, 7}
	if !equalInts(got, want) {
		t.Fatalf("after removal, TemporalSnapshotIDs = %v, want %v", got, want)
	}
}

func TestInteractionsPerSnapshot(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 3)
	g.AddInteractionSpan(2, 3, 1, 5)

	if n := g.InteractionsPerSnapshot(1); n != 2 {
		t.Fatalf("InteractionsPerSnapshot(1) = %d, want 2", n)
	}
	m := g.InteractionsPerSnapshots()
	want := map[int]int{0: 1, 1: 2, 3: 1, 5: 0}
	if len(m) != len(want) {
		t.Fatalf("InteractionsPerSnapshots = %v, want %v", m, want)
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("snapshot %d: count = %d, want %d", k, m[k], v)
		}
	}
}

func TestTimeSliceClipsIntervals(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 10)
	g.AddInteractionSpan(2, 3, 8, 12)
	g.AddInteractionSpan(3, 4, 20, 25)

	sl, err := g.TimeSlice(2, 9)
	if err != nil {
		t.Fatalf("TimeSlice: %v", err)
	}
	if !sl.HasInteractionAt(1, 2, 2) || !sl.HasInteractionAt(1, 2, 9) {
		t.Error("clipped interval must cover the whole window")
	}
	if sl.HasInteractionAt(1, 2, 1) || sl.HasInteractionAt(1, 2, 10) {
		t.Error("clipped interval must not exceed the window")
	}
	if !sl.HasInteractionAt(2, 3, 8) || !sl.HasInteractionAt(2, 3, 9) {
		t.Error("partially overlapping interval must be clipped, not dropped")
	}
	if sl.HasNode(4) || sl.HasInteraction(3, 4) {
		t.Error("interactions outside the window must be dropped")
	}
	if !sl.HasNode(3) {
		t.Error("node with in-window presence must survive")
	}
}

func TestTimeSliceInvalidRange(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 10)
	if _, err := g.TimeSlice(9, 2); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("inverted window: got %v, want ErrInvalidRange", err)
	}
}

func TestTimeSliceIdempotent(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 10)
	g.AddInteractionSpan(2, 3, 3, 7)
	g.AddInteraction(3, 4, 5)

	once, err := g.TimeSlice(2, 8)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := once.TimeSlice(2, 8)
	if err != nil {
		t.Fatal(err)
	}

	a, b := collectEvents(once), collectEvents(twice)
	if len(a) != len(b) {
		t.Fatalf("re-slicing changed the stream: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("re-slicing changed the stream at %d: %v vs %v", i, b[i], a[i])
		}
	}
}

func TestTimeSliceOfDiGraphKeepsOrientation(t *testing.T) {
	g := NewDiGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 10)

	sl, err := g.TimeSlice(3, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !sl.Directed() {
		t.Fatal("slice of a DiGraph must be directed")
	}
	if !sl.HasInteractionAt(1, 2, 4) || sl.HasInteractionAt(2, 1, 4) {
		t.Error("slice must preserve orientation")
	}
}
