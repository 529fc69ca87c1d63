package temporal

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/graph/topo"
)

func intp(v int) *int { return &v }

func pathsEqual(a, b []Path[int, int]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// tripleGraph holds the interactions (1,2)@0, (2,3)@1, (1,3)@5, each alive
// for a single tick.
func tripleGraph() *Graph[int, int] {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 1)
	g.AddInteractionSpan(2, 3, 1, 2)
	g.AddInteractionSpan(1, 3, 5, 6)
	return g
}

func TestTimeRespectingPaths(t *testing.T) {
	g := tripleGraph()
	paths, err := TimeRespectingPaths[int, int](g, 1, 3, PathOptions[int]{})
	if err != nil {
		t.Fatalf("TimeRespectingPaths: %v", err)
	}
	want := []Path[int, int]{
		{{U: 1, V: 2, T: 0}, {U: 2, V: 3, T: 1}},
		{{U: 1, V: 3, T: 5}},
	}
	if !pathsEqual(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
}

func TestTimeRespectingPathsRequireStrictIncrease(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 1)
	g.AddInteractionSpan(2, 3, 0, 1)

	paths, err := TimeRespectingPaths[int, int](g, 1, 3, PathOptions[int]{})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 0 {
		t.Fatalf("same-instant chaining must be impossible, got %v", paths)
	}
}

func TestTimeRespectingPathsWindow(t *testing.T) {
	g := tripleGraph()
	paths, err := TimeRespectingPaths[int, int](g, 1, 3, PathOptions[int]{Start: intp(0), End: intp(2)})
	if err != nil {
		t.Fatal(err)
	}
	want := []Path[int, int]{{{U: 1, V: 2, T: 0}, {U: 2, V: 3, T: 1}}}
	if !pathsEqual(paths, want) {
		t.Fatalf("windowed paths = %v, want %v", paths, want)
	}

	if _, err := TimeRespectingPaths[int, int](g, 1, 3, PathOptions[int]{Start: intp(5), End: intp(2)}); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("inverted window: got %v, want ErrInvalidRange", err)
	}
}

func TestTimeRespectingPathsMaxWait(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 1)
	g.AddInteractionSpan(2, 3, 10, 11)

	paths, err := TimeRespectingPaths[int, int](g, 1, 3, PathOptions[int]{})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Fatalf("without a wait budget the two-hop path must exist, got %v", paths)
	}

	paths, err = TimeRespectingPaths[int, int](g, 1, 3, PathOptions[int]{MaxWait: intp(5)})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 0 {
		t.Fatalf("a 10-tick layover must exceed a 5-tick budget, got %v", paths)
	}
}

func TestTimeRespectingPathsSample(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 1)
	g.AddInteractionSpan(2, 3, 1, 2)
	g.AddInteractionSpan(1, 3, 5, 6)
	g.AddInteractionSpan(1, 3, 8, 9)

	// Sample=2 keeps the departures at 0 and 5, dropping the one at 8.
	paths, err := TimeRespectingPaths[int, int](g, 1, 3, PathOptions[int]{Sample: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("sampled paths = %v, want 2 of them", paths)
	}
	for _, p := range paths {
		if p[0].T == 8 {
			t.Fatalf("departure at 8 should have been sampled away: %v", p)
		}
	}
}

func TestTimeRespectingPathsAbsentOrUnreachable(t *testing.T) {
	g := tripleGraph()
	paths, err := TimeRespectingPaths[int, int](g, 1, 99, PathOptions[int]{})
	if err != nil || len(paths) != 0 {
		t.Fatalf("absent target: got %v, %v, want empty, nil", paths, err)
	}
	g.AddNode(42)
	paths, err = TimeRespectingPaths[int, int](g, 42, 1, PathOptions[int]{})
	if err != nil || len(paths) != 0 {
		t.Fatalf("isolated source: got %v, %v, want empty, nil", paths, err)
	}
}

func TestTimeRespectingPathsDirected(t *testing.T) {
	g := NewDiGraph[int, int]()
	g.AddInteractionSpan(3, 2, 0, 1)
	g.AddInteractionSpan(2, 1, 1, 2)

	// Arcs point away from the requested source.
	paths, err := TimeRespectingPaths[int, int](g, 1, 3, PathOptions[int]{})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 0 {
		t.Fatalf("walk against arc direction must fail, got %v", paths)
	}
	paths, err = TimeRespectingPaths[int, int](g, 3, 1, PathOptions[int]{})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Fatalf("forward walk missing, got %v", paths)
	}
}

func TestAllTimeRespectingPathsAllowsRevisits(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 1)
	g.AddInteractionSpan(2, 1, 1, 2) // same undirected edge, later tick
	g.AddInteractionSpan(1, 3, 2, 3)

	simple, err := TimeRespectingPaths[int, int](g, 1, 3, PathOptions[int]{})
	if err != nil {
		t.Fatal(err)
	}
	all, err := AllTimeRespectingPaths[int, int](g, 1, 3, PathOptions[int]{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) <= len(simple) {
		t.Fatalf("revisiting enumeration found %d paths, simple found %d", len(all), len(simple))
	}
}

func TestAnnotatePaths(t *testing.T) {
	paths := []Path[int, int]{
		{{U: 1, V: 2, T: 0}, {U: 2, V: 3, T: 4}},
	}
	ann := AnnotatePaths(paths)
	if len(ann) != 1 {
		t.Fatalf("annotated %d paths, want 1", len(ann))
	}
	if ann[0].Duration != 4 {
		t.Errorf("Duration = %d, want 4", ann[0].Duration)
	}
	if len(ann[0].Waits) != 1 || ann[0].Waits[0] != 4 {
		t.Errorf("Waits = %v, want [4]", ann[0].Waits)
	}
}

func TestClassifyPaths(t *testing.T) {
	g := tripleGraph()
	paths, err := TimeRespectingPaths[int, int](g, 1, 3, PathOptions[int]{})
	if err != nil {
		t.Fatal(err)
	}
	sum := ClassifyPaths(paths)

	direct := Path[int, int]{{U: 1, V: 3, T: 5}}
	relay := Path[int, int]{{U: 1, V: 2, T: 0}, {U: 2, V: 3, T: 1}}

	if !pathsEqual(sum.Shortest, []Path[int, int]{direct}) {
		t.Errorf("Shortest = %v, want the direct hop", sum.Shortest)
	}
	if !pathsEqual(sum.Fastest, []Path[int, int]{direct}) {
		t.Errorf("Fastest = %v, want the direct hop (zero duration)", sum.Fastest)
	}
	if !pathsEqual(sum.Foremost, []Path[int, int]{relay}) {
		t.Errorf("Foremost = %v, want the early relay", sum.Foremost)
	}
	if !pathsEqual(sum.FastestShortest, []Path[int, int]{direct}) {
		t.Errorf("FastestShortest = %v, want the direct hop", sum.FastestShortest)
	}
	if !pathsEqual(sum.ShortestFastest, []Path[int, int]{direct}) {
		t.Errorf("ShortestFastest = %v, want the direct hop", sum.ShortestFastest)
	}
}

func TestPathDurationAndLength(t *testing.T) {
	p := Path[int, int]{{U: 1, V: 2, T: 3}, {U: 2, V: 3, T: 9}}
	if PathLength(p) != 2 {
		t.Errorf("PathLength = %d, want 2", PathLength(p))
	}
	if PathDuration(p) != 6 {
		t.Errorf("PathDuration = %d, want 6", PathDuration(p))
	}
	if PathDuration(Path[int, int]{}) != 0 {
		t.Error("empty path must have zero duration")
	}
}

func TestTemporalDAGIsAcyclic(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 3)
	g.AddInteractionSpan(2, 3, 1, 4)
	g.AddInteractionSpan(3, 1, 2, 5)
	g.AddInteractionSpan(1, 3, 6, 8)

	d, err := TemporalDAG[int, int](g, PathOptions[int]{})
	if err != nil {
		t.Fatalf("TemporalDAG: %v", err)
	}
	if d.Order() == 0 {
		t.Fatal("expansion produced no occurrences")
	}
	if _, err := topo.Sort(d.Static()); err != nil {
		t.Fatalf("expansion is not acyclic: %v", err)
	}
}

func TestTemporalDAGOccurrences(t *testing.T) {
	g := NewGraph[int, int]()
	g.AddInteractionSpan(1, 2, 0, 1)
	g.AddInteractionSpan(2, 3, 4, 5)

	d, err := TemporalDAG[int, int](g, PathOptions[int]{})
	if err != nil {
		t.Fatal(err)
	}
	if !d.HasOccurrence(2) || d.HasOccurrence(99) {
		t.Error("occurrence presence wrong")
	}
	if got := d.Arrivals(2); !equalInts(got, []int{0, 4}) {
		t.Errorf("Arrivals(2) = %v, want [0 4]", got)
	}
	if got := d.Departures(2); !equalInts(got, []int{0, 4}) {
		t.Errorf("Departures(2) = %v, want [0 4]", got)
	}

	// The waiting arc lets a walk land on 2 at 0 and leave at 4.
	arr, ok := d.NodeID(Occurrence[int, int]{Node: 2, Time: 0, Kind: Arrival})
	if !ok {
		t.Fatal("arrival occurrence of 2@0 missing")
	}
	dep, ok := d.NodeID(Occurrence[int, int]{Node: 2, Time: 4, Kind: Departure})
	if !ok {
		t.Fatal("departure occurrence of 2@4 missing")
	}
	if !d.Static().HasEdgeFromTo(arr, dep) {
		t.Error("waiting arc from arrival 2@0 to departure 2@4 missing")
	}

	// MaxWait prunes the layover.
	d, err = TemporalDAG[int, int](g, PathOptions[int]{MaxWait: intp(2)})
	if err != nil {
		t.Fatal(err)
	}
	arr, aok := d.NodeID(Occurrence[int, int]{Node: 2, Time: 0, Kind: Arrival})
	dep, dok := d.NodeID(Occurrence[int, int]{Node: 2, Time: 4, Kind: Departure})
	if aok && dok && d.Static().HasEdgeFromTo(arr, dep) {
		t.Error("waiting arc must respect the MaxWait budget")
	}
}
