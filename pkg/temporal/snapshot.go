package temporal

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Snapshot is the static graph induced at a single instant. It is an
// independently owned copy: mutating it never affects the source temporal
// graph. The structural part is a gonum graph so any static algorithm can
// run on it directly; node identity is preserved through the id mapping.
type Snapshot[N comparable] struct {
	directed bool
	static   graph.Graph
	ids      map[N]int64
	labels   map[int64]N
}

// SnapshotAt derives the static graph of the interactions present at t.
// Cost is linear in the number of stored interactions.
//
// Self-loops present at t contribute their node but no static edge: the
// backing gonum simple graphs reject self-edges.
func (c *core[N, T]) SnapshotAt(t T) *Snapshot[N] {
	s := &Snapshot[N]{
		directed: c.directed,
		ids:      make(map[N]int64),
		labels:   make(map[int64]N),
	}
	var und *simple.UndirectedGraph
	var dir *simple.DirectedGraph
	if c.directed {
		dir = simple.NewDirectedGraph()
		s.static = dir
	} else {
		und = simple.NewUndirectedGraph()
		s.static = und
	}

	add := func(n N) graph.Node {
		if id, ok := s.ids[n]; ok {
			return simple.Node(id)
		}
		id := int64(len(s.ids))
		s.ids[n] = id
		s.labels[id] = n
		node := simple.Node(id)
		if c.directed {
			dir.AddNode(node)
		} else {
			und.AddNode(node)
		}
		return node
	}

	c.eachRecord(func(rec *interaction[N, T]) bool {
		if !presentAt(rec, t) {
			return true
		}
		fn := add(rec.u)
		tn := add(rec.v)
		if fn.ID() == tn.ID() {
			return true
		}
		if c.directed {
			dir.SetEdge(simple.Edge{F: fn, T: tn})
		} else {
			und.SetEdge(simple.Edge{F: fn, T: tn})
		}
		return true
	})
	return s
}

// Static exposes the underlying gonum graph.
func (s *Snapshot[N]) Static() graph.Graph { return s.static }

// Directed reports the orientation of the snapshot.
func (s *Snapshot[N]) Directed() bool { return s.directed }

// NodeID translates a node label to its gonum id.
func (s *Snapshot[N]) NodeID(n N) (int64, bool) {
	id, ok := s.ids[n]
	return id, ok
}

// Label translates a gonum id back to the node label.
func (s *Snapshot[N]) Label(id int64) (N, bool) {
	n, ok := s.labels[id]
	return n, ok
}

// Nodes returns the labels of every node in the snapshot.
func (s *Snapshot[N]) Nodes() []N {
	out := make([]N, 0, len(s.ids))
	for n := range s.ids {
		out = append(out, n)
	}
	return out
}

// Order returns the node count.
func (s *Snapshot[N]) Order() int { return len(s.ids) }

// HasEdge reports whether the snapshot contains the edge between u and v,
// respecting orientation on directed snapshots.
func (s *Snapshot[N]) HasEdge(u, v N) bool {
	ui, ok := s.ids[u]
	if !ok {
		return false
	}
	vi, ok := s.ids[v]
	if !ok {
		return false
	}
	if d, ok := s.static.(graph.Directed); ok && s.directed {
		return d.HasEdgeFromTo(ui, vi)
	}
	return s.static.HasEdgeBetween(ui, vi)
}

// Edges returns the snapshot's edges as label pairs.
func (s *Snapshot[N]) Edges() [][2]N {
	var out [][2]N
	it := s.static.Nodes()
	for it.Next() {
		from := it.Node().ID()
		to := s.static.From(from)
		for to.Next() {
			ti := to.Node().ID()
			if !s.directed && from > ti {
				continue // undirected edges reported once
			}
			out = append(out, [2]N{s.labels[from], s.labels[ti]})
		}
	}
	return out
}

// TemporalSnapshotIDs returns the distinct timestamps at which the structure
// changes: the ascending, deduplicated union of all interval boundaries.
func (c *core[N, T]) TemporalSnapshotIDs() []T {
	out := make([]T, 0, c.bounds.Len())
	c.bounds.Scan(func(b boundEntry[T]) bool {
		out = append(out, b.t)
		return true
	})
	return out
}

// InteractionsPerSnapshot counts the interactions present at t.
func (c *core[N, T]) InteractionsPerSnapshot(t T) int { return c.SizeAt(t) }

// InteractionsPerSnapshots maps every snapshot id to the number of
// interactions present at it.
func (c *core[N, T]) InteractionsPerSnapshots() map[T]int {
	out := make(map[T]int)
	for _, t := range c.TemporalSnapshotIDs() {
		out[t] = c.SizeAt(t)
	}
	return out
}

// sliceInto copies every interaction overlapping the inclusive snapshot-id
// window [from, to] into dst, with intervals clipped to the window. Intervals
// that touch the window only at an excluded point are dropped.
func (c *core[N, T]) sliceInto(dst *core[N, T], from, to T) error {
	if from > to {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, from, to)
	}
	var err error
	c.eachRecord(func(rec *interaction[N, T]) bool {
		for _, iv := range rec.ivs {
			clipped, ok := iv.clip(from, to)
			if !ok {
				continue
			}
			if e := dst.addSpan(rec.u, rec.v, clipped); e != nil {
				err = e
				return false
			}
		}
		return true
	})
	return err
}

// TimeSlice returns a new temporal graph restricted to [from, to], keeping
// every node with at least one overlapping interaction and clipping the
// retained intervals to the window. The result always permits removal,
// regardless of the source's configuration.
func (g *Graph[N, T]) TimeSlice(from, to T) (*Graph[N, T], error) {
	out := NewGraph[N, T]()
	if err := g.sliceInto(&out.core, from, to); err != nil {
		return nil, err
	}
	return out, nil
}

// TimeSlice returns a new directed temporal graph restricted to [from, to].
func (g *DiGraph[N, T]) TimeSlice(from, to T) (*DiGraph[N, T], error) {
	out := NewDiGraph[N, T]()
	if err := g.sliceInto(&out.core, from, to); err != nil {
		return nil, err
	}
	return out, nil
}
