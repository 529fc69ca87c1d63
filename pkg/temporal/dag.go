package temporal

import (
	"gonum.org/v1/gonum/graph/simple"
)

// OccurrenceKind distinguishes the two layers an occurrence is split into.
type OccurrenceKind byte

const (
	// Arrival is the layer a hop lands on.
	Arrival OccurrenceKind = iota
	// Departure is the layer a hop leaves from.
	Departure
)

// Occurrence is one vertex of the temporal DAG: a node observed at a
// timestamp, on one of the two layers.
type Occurrence[N comparable, T Timestamp] struct {
	Node N
	Time T
	Kind OccurrenceKind
}

// DAG is the static directed acyclic expansion of a temporal graph. Every
// interaction present at time t contributes a crossing arc from the
// departure occurrence of one endpoint to the arrival occurrence of the
// other; waiting arcs connect each arrival of a node to its strictly later
// departures. Splitting occurrences into arrival and departure layers keeps
// the expansion acyclic even for undirected sources, where both crossing
// directions of an interaction are materialized.
//
// A walk in the DAG is exactly a time-respecting walk in the source graph.
type DAG[N comparable, T Timestamp] struct {
	static *simple.DirectedGraph
	ids    map[Occurrence[N, T]]int64
	occ    map[int64]Occurrence[N, T]

	departures map[N][]T
	arrivals   map[N][]T
}

// TemporalDAG expands the interactions of g inside the option window. The
// Sample option is ignored: sampling is a path-search concern.
func TemporalDAG[N comparable, T Timestamp](g View[N, T], opts PathOptions[T]) (*DAG[N, T], error) {
	times, err := searchTimes(g, opts)
	if err != nil {
		return nil, err
	}

	d := &DAG[N, T]{
		static:     simple.NewDirectedGraph(),
		ids:        make(map[Occurrence[N, T]]int64),
		occ:        make(map[int64]Occurrence[N, T]),
		departures: make(map[N][]T),
		arrivals:   make(map[N][]T),
	}

	for _, t := range times {
		for _, ia := range g.InteractionsAt(t) {
			d.cross(ia.U, ia.V, t)
			if !g.Directed() && ia.U != ia.V {
				d.cross(ia.V, ia.U, t)
			}
		}
	}

	for n, arrs := range d.arrivals {
		deps := d.departures[n]
		for _, at := range arrs {
			for _, dt := range deps {
				if dt <= at {
					continue
				}
				if opts.MaxWait != nil && dt-at > *opts.MaxWait {
					break
				}
				d.static.SetEdge(simple.Edge{
					F: simple.Node(d.id(Occurrence[N, T]{Node: n, Time: at, Kind: Arrival})),
					T: simple.Node(d.id(Occurrence[N, T]{Node: n, Time: dt, Kind: Departure})),
				})
			}
		}
	}
	return d, nil
}

func (d *DAG[N, T]) cross(u, v N, t T) {
	from := d.id(Occurrence[N, T]{Node: u, Time: t, Kind: Departure})
	to := d.id(Occurrence[N, T]{Node: v, Time: t, Kind: Arrival})
	d.static.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
}

// id interns an occurrence, tracking per-node departure and arrival times in
// ascending order (callers feed timestamps ascending).
func (d *DAG[N, T]) id(o Occurrence[N, T]) int64 {
	if id, ok := d.ids[o]; ok {
		return id
	}
	id := int64(len(d.ids))
	d.ids[o] = id
	d.occ[id] = o
	d.static.AddNode(simple.Node(id))
	switch o.Kind {
	case Departure:
		d.departures[o.Node] = append(d.departures[o.Node], o.Time)
	case Arrival:
		d.arrivals[o.Node] = append(d.arrivals[o.Node], o.Time)
	}
	return id
}

// Static exposes the underlying gonum directed graph.
func (d *DAG[N, T]) Static() *simple.DirectedGraph { return d.static }

// Order returns the number of occurrences.
func (d *DAG[N, T]) Order() int { return len(d.ids) }

// Occurrence maps a gonum id back to its occurrence.
func (d *DAG[N, T]) Occurrence(id int64) (Occurrence[N, T], bool) {
	o, ok := d.occ[id]
	return o, ok
}

// NodeID maps an occurrence to its gonum id.
func (d *DAG[N, T]) NodeID(o Occurrence[N, T]) (int64, bool) {
	id, ok := d.ids[o]
	return id, ok
}

// Departures returns the times at which n can leave, ascending.
func (d *DAG[N, T]) Departures(n N) []T {
	out := make([]T, len(d.departures[n]))
	copy(out, d.departures[n])
	return out
}

// Arrivals returns the times at which a hop can land on n, ascending.
func (d *DAG[N, T]) Arrivals(n N) []T {
	out := make([]T, len(d.arrivals[n]))
	copy(out, d.arrivals[n])
	return out
}

// HasOccurrence reports whether n appears in the DAG at all.
func (d *DAG[N, T]) HasOccurrence(n N) bool {
	return len(d.departures[n]) > 0 || len(d.arrivals[n]) > 0
}
