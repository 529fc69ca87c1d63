package temporal

import "iter"

// View is the read-only surface the derived engines (snapshots, streams,
// path search, codecs) need from a temporal graph. Both Graph and DiGraph
// satisfy it.
type View[N comparable, T Timestamp] interface {
	Directed() bool
	RemovalAllowed() bool
	HasNode(n N) bool
	HasNodeAt(n N, t T) bool
	Nodes() []N
	NodesAt(t T) []N
	NeighborsAt(n N, t T) []N
	HasInteractionAt(u, v N, t T) bool
	Interactions() []Interaction[N, T]
	InteractionsAt(t T) []Interaction[N, T]
	TemporalSnapshotIDs() []T
	StreamInteractions() iter.Seq[Event[N, T]]
}

// StreamInteractions yields the chronological sequence of insertion and
// deletion events implied by the stored intervals: one insertion per interval
// start, one deletion per bounded interval end. At equal timestamps deletions
// come first, so replaying any prefix of the stream onto an empty graph
// always yields a consistent state.
//
// Every call returns a fresh cursor over the current state; a single
// iteration must not be shared across concurrent or re-entrant consumers.
func (c *core[N, T]) StreamInteractions() iter.Seq[Event[N, T]] {
	return func(yield func(Event[N, T]) bool) {
		c.events.Scan(func(e streamEntry[N, T]) bool {
			return yield(Event[N, T]{U: e.u, V: e.v, Op: e.op, T: e.t})
		})
	}
}

// Apply replays a single stream event onto the graph: an insertion opens
// presence at ev.T, a deletion ends it. It is the inverse of
// StreamInteractions and is what the interaction wire format feeds.
func (c *core[N, T]) Apply(ev Event[N, T]) error {
	switch ev.Op {
	case OpInsert:
		return c.AddInteraction(ev.U, ev.V, ev.T)
	case OpDelete:
		return c.RemoveInteraction(ev.U, ev.V, ev.T)
	default:
		return ErrUnsupportedOperation
	}
}
