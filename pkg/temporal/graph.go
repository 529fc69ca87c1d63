package temporal

import (
	"fmt"

	"github.com/tidwall/btree"
)

// Op tags a stream event as an interaction appearance or vanishing.
type Op byte

const (
	OpInsert Op = '+'
	OpDelete Op = '-'
)

// Event is one element of the chronological interaction stream.
type Event[N comparable, T Timestamp] struct {
	U, V N
	Op   Op
	T    T
}

// Interaction is the exported record of a node pair and its merged presence
// intervals. Returned slices are copies owned by the caller.
type Interaction[N comparable, T Timestamp] struct {
	U, V      N
	Intervals []Interval[T]
}

// interaction is the single record shared by both adjacency directions of a
// pair. u/v keep the endpoints in first-insertion order so iteration visits
// each record exactly once.
type interaction[N comparable, T Timestamp] struct {
	u, v N
	seq  uint64
	ivs  []Interval[T] // sorted by start, pairwise disjoint, never touching
}

// streamEntry is one element of the chronological event index. At equal
// timestamps deletions sort before insertions so that every stream prefix
// describes a consistent graph; seq breaks the remaining ties by interaction
// creation order.
type streamEntry[N comparable, T Timestamp] struct {
	t   T
	op  Op
	seq uint64
	u   N
	v   N
}

func streamLess[N comparable, T Timestamp](a, b streamEntry[N, T]) bool {
	if a.t != b.t {
		return a.t < b.t
	}
	if a.op != b.op {
		return a.op == OpDelete
	}
	return a.seq < b.seq
}

// boundEntry reference-counts one interval boundary timestamp.
type boundEntry[T Timestamp] struct {
	t    T
	refs int
}

func boundLess[T Timestamp](a, b boundEntry[T]) bool { return a.t < b.t }

// core is the temporal adjacency store shared by Graph and DiGraph. It is a
// plain single-threaded data structure: callers needing concurrency must
// serialize mutations externally.
type core[N comparable, T Timestamp] struct {
	directed bool
	removal  bool

	nodes map[N]struct{}
	// adj maps u -> v -> record. Undirected graphs mirror the same record in
	// both directions; directed graphs use adj for successors and pred for
	// predecessors.
	adj  map[N]map[N]*interaction[N, T]
	pred map[N]map[N]*interaction[N, T]

	events *btree.BTreeG[streamEntry[N, T]]
	bounds *btree.BTreeG[boundEntry[T]]
	seq    uint64
}

func newCore[N comparable, T Timestamp](directed, removal bool) core[N, T] {
	c := core[N, T]{
		directed: directed,
		removal:  removal,
		nodes:    make(map[N]struct{}),
		adj:      make(map[N]map[N]*interaction[N, T]),
		events:   btree.NewBTreeG(streamLess[N, T]),
		bounds:   btree.NewBTreeG(boundLess[T]),
	}
	if directed {
		c.pred = make(map[N]map[N]*interaction[N, T])
	}
	return c
}

// Directed reports whether interactions are ordered pairs.
func (c *core[N, T]) Directed() bool { return c.directed }

// RemovalAllowed reports whether explicit interaction removal is permitted.
func (c *core[N, T]) RemovalAllowed() bool { return c.removal }

// AddNode registers a node with no interactions. Adding an existing node is
// a no-op.
func (c *core[N, T]) AddNode(n N) {
	c.ensureNode(n)
}

func (c *core[N, T]) ensureNode(n N) {
	if _, ok := c.nodes[n]; ok {
		return
	}
	c.nodes[n] = struct{}{}
	c.adj[n] = make(map[N]*interaction[N, T])
	if c.directed {
		c.pred[n] = make(map[N]*interaction[N, T])
	}
}

func (c *core[N, T]) record(u, v N) *interaction[N, T] {
	if nbrs, ok := c.adj[u]; ok {
		if rec, ok := nbrs[v]; ok {
			return rec
		}
	}
	return nil
}

// AddInteraction records open-ended presence of {u,v} from t on. Missing
// nodes are created. The new span is coalesced with any stored interval it
// overlaps or touches.
func (c *core[N, T]) AddInteraction(u, v N, t T) error {
	return c.addSpan(u, v, NewUnboundedInterval(t))
}

// AddInteractionSpan records presence of {u,v} over [t, e). On a graph built
// without removal support bounded spans are rejected: every edit must be an
// open-ended insertion.
func (c *core[N, T]) AddInteractionSpan(u, v N, t, e T) error {
	if !c.removal {
		return fmt.Errorf("%w: bounded interval on a removal-disabled graph", ErrUnsupportedOperation)
	}
	iv, err := NewInterval(t, e)
	if err != nil {
		return err
	}
	return c.addSpan(u, v, iv)
}

func (c *core[N, T]) addSpan(u, v N, iv Interval[T]) error {
	c.ensureNode(u)
	c.ensureNode(v)

	rec := c.record(u, v)
	if rec == nil {
		c.seq++
		rec = &interaction[N, T]{u: u, v: v, seq: c.seq}
		c.adj[u][v] = rec
		if c.directed {
			c.pred[v][u] = rec
		} else {
			c.adj[v][u] = rec
		}
	} else if !c.removal {
		// Append-only graphs hold a single open interval per pair; later
		// insertions cannot change it.
		return nil
	}

	c.setIntervals(rec, insertInterval(rec.ivs, iv))
	return nil
}

// RemoveInteraction ends the presence of {u,v} at time t: the interval
// covering t is truncated to [start, t), and dropped entirely when that span
// is empty. Removing the last interval removes the interaction record; the
// nodes remain.
func (c *core[N, T]) RemoveInteraction(u, v N, t T) error {
	if !c.removal {
		return fmt.Errorf("%w: removal is disabled for this graph", ErrUnsupportedOperation)
	}
	rec := c.record(u, v)
	if rec == nil {
		return fmt.Errorf("%w: (%v, %v)", ErrNoSuchInteraction, u, v)
	}

	idx := -1
	for i, iv := range rec.ivs {
		if iv.Contains(t) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: (%v, %v) has no presence covering %v", ErrNoSuchInteraction, u, v, t)
	}

	next := make([]Interval[T], 0, len(rec.ivs))
	for i, iv := range rec.ivs {
		if i != idx {
			next = append(next, iv)
			continue
		}
		if t > iv.Start {
			next = append(next, Interval[T]{Start: iv.Start, End: t})
		}
	}

	if len(next) == 0 {
		c.setIntervals(rec, nil)
		delete(c.adj[u], v)
		if c.directed {
			delete(c.pred[v], u)
		} else {
			delete(c.adj[v], u)
		}
		return nil
	}
	c.setIntervals(rec, next)
	return nil
}

// setIntervals swaps the interval set of a record, keeping the chronological
// event index and the boundary index in sync.
func (c *core[N, T]) setIntervals(rec *interaction[N, T], next []Interval[T]) {
	for _, ev := range recordEvents(rec, rec.ivs) {
		c.events.Delete(ev)
	}
	for _, iv := range rec.ivs {
		c.releaseBound(iv.Start)
		if !iv.Unbounded {
			c.releaseBound(iv.End)
		}
	}

	rec.ivs = next

	for _, ev := range recordEvents(rec, next) {
		c.events.Set(ev)
	}
	for _, iv := range next {
		c.retainBound(iv.Start)
		if !iv.Unbounded {
			c.retainBound(iv.End)
		}
	}
}

func recordEvents[N comparable, T Timestamp](rec *interaction[N, T], ivs []Interval[T]) []streamEntry[N, T] {
	out := make([]streamEntry[N, T], 0, 2*len(ivs))
	for _, iv := range ivs {
		out = append(out, streamEntry[N, T]{t: iv.Start, op: OpInsert, seq: rec.seq, u: rec.u, v: rec.v})
		if !iv.Unbounded {
			out = append(out, streamEntry[N, T]{t: iv.End, op: OpDelete, seq: rec.seq, u: rec.u, v: rec.v})
		}
	}
	return out
}

func (c *core[N, T]) retainBound(t T) {
	cur, ok := c.bounds.Get(boundEntry[T]{t: t})
	if ok {
		cur.refs++
		c.bounds.Set(cur)
		return
	}
	c.bounds.Set(boundEntry[T]{t: t, refs: 1})
}

func (c *core[N, T]) releaseBound(t T) {
	cur, ok := c.bounds.Get(boundEntry[T]{t: t})
	if !ok {
		return
	}
	cur.refs--
	if cur.refs <= 0 {
		c.bounds.Delete(cur)
		return
	}
	c.bounds.Set(cur)
}

// eachRecord visits every interaction record exactly once.
func (c *core[N, T]) eachRecord(fn func(*interaction[N, T]) bool) {
	for u, nbrs := range c.adj {
		for v, rec := range nbrs {
			if rec.u != u || rec.v != v {
				continue // mirrored direction of the same record
			}
			if !fn(rec) {
				return
			}
		}
	}
}

// HasNode reports whether n exists in the flattened graph.
func (c *core[N, T]) HasNode(n N) bool {
	_, ok := c.nodes[n]
	return ok
}

// HasNodeAt reports whether n participates in at least one interaction
// present at t.
func (c *core[N, T]) HasNodeAt(n N, t T) bool {
	for _, rec := range c.adj[n] {
		if presentAt(rec, t) {
			return true
		}
	}
	if c.directed {
		for _, rec := range c.pred[n] {
			if presentAt(rec, t) {
				return true
			}
		}
	}
	return false
}

func presentAt[N comparable, T Timestamp](rec *interaction[N, T], t T) bool {
	for _, iv := range rec.ivs {
		if iv.Contains(t) {
			return true
		}
		if !iv.Unbounded && iv.Start > t {
			break
		}
	}
	return false
}

// Nodes returns every node of the flattened graph, in no particular order.
func (c *core[N, T]) Nodes() []N {
	out := make([]N, 0, len(c.nodes))
	for n := range c.nodes {
		out = append(out, n)
	}
	return out
}

// NodesAt returns the nodes with at least one interaction present at t.
func (c *core[N, T]) NodesAt(t T) []N {
	var out []N
	for n := range c.nodes {
		if c.HasNodeAt(n, t) {
			out = append(out, n)
		}
	}
	return out
}

// HasInteraction reports whether the pair has any recorded interval.
// Unknown nodes yield false, never an error.
func (c *core[N, T]) HasInteraction(u, v N) bool {
	return c.record(u, v) != nil
}

// HasInteractionAt reports whether the pair has an interval covering t.
func (c *core[N, T]) HasInteractionAt(u, v N, t T) bool {
	rec := c.record(u, v)
	return rec != nil && presentAt(rec, t)
}

// NeighborsAt returns the nodes reachable from n at time t. For directed
// graphs these are the successors, the only endpoints a time-respecting walk
// may continue through. Unknown nodes yield an empty result.
func (c *core[N, T]) NeighborsAt(n N, t T) []N {
	var out []N
	for m, rec := range c.adj[n] {
		if presentAt(rec, t) {
			out = append(out, m)
		}
	}
	return out
}

// Neighbors returns the nodes ever linked from n in the flattened graph.
func (c *core[N, T]) Neighbors(n N) []N {
	out := make([]N, 0, len(c.adj[n]))
	for m := range c.adj[n] {
		out = append(out, m)
	}
	return out
}

// Degree counts the interactions involving n over all time, each neighbor
// counted once. For directed graphs this is the out-degree plus in-degree.
func (c *core[N, T]) Degree(n N) int {
	d := len(c.adj[n])
	if c.directed {
		d += len(c.pred[n])
	}
	return d
}

// DegreeAt counts the interactions involving n that are present at t.
func (c *core[N, T]) DegreeAt(n N, t T) int {
	d := 0
	for _, rec := range c.adj[n] {
		if presentAt(rec, t) {
			d++
		}
	}
	if c.directed {
		for _, rec := range c.pred[n] {
			if presentAt(rec, t) {
				d++
			}
		}
	}
	return d
}

// Interactions returns a copy of every interaction record with its merged
// interval set.
func (c *core[N, T]) Interactions() []Interaction[N, T] {
	var out []Interaction[N, T]
	c.eachRecord(func(rec *interaction[N, T]) bool {
		ivs := make([]Interval[T], len(rec.ivs))
		copy(ivs, rec.ivs)
		out = append(out, Interaction[N, T]{U: rec.u, V: rec.v, Intervals: ivs})
		return true
	})
	return out
}

// InteractionsAt returns the node pairs present at t.
func (c *core[N, T]) InteractionsAt(t T) []Interaction[N, T] {
	var out []Interaction[N, T]
	c.eachRecord(func(rec *interaction[N, T]) bool {
		if presentAt(rec, t) {
			out = append(out, Interaction[N, T]{
				U: rec.u, V: rec.v,
				Intervals: []Interval[T]{{Start: t, End: t + 1}},
			})
		}
		return true
	})
	return out
}

// NumberOfInteractions counts the pairs with any recorded presence.
func (c *core[N, T]) NumberOfInteractions() int {
	n := 0
	c.eachRecord(func(*interaction[N, T]) bool { n++; return true })
	return n
}

// Size counts the interactions of the flattened graph.
func (c *core[N, T]) Size() int { return c.NumberOfInteractions() }

// SizeAt counts the interactions present at t.
func (c *core[N, T]) SizeAt(t T) int {
	n := 0
	c.eachRecord(func(rec *interaction[N, T]) bool {
		if presentAt(rec, t) {
			n++
		}
		return true
	})
	return n
}

// Order returns the number of nodes in the flattened graph.
func (c *core[N, T]) Order() int { return len(c.nodes) }

// OrderAt returns the number of nodes present at t.
func (c *core[N, T]) OrderAt(t T) int { return len(c.NodesAt(t)) }

// Graph is an undirected temporal graph. Self-loops are allowed.
type Graph[N comparable, T Timestamp] struct {
	core[N, T]
}

// NewGraph creates an empty undirected temporal graph with removal enabled.
func NewGraph[N comparable, T Timestamp]() *Graph[N, T] {
	return &Graph[N, T]{core: newCore[N, T](false, true)}
}

// NewAppendOnlyGraph creates an undirected temporal graph that rejects
// removal: every interval is open-ended and every edit is an insertion.
func NewAppendOnlyGraph[N comparable, T Timestamp]() *Graph[N, T] {
	return &Graph[N, T]{core: newCore[N, T](false, false)}
}

// DiGraph is a directed temporal graph with distinct successor and
// predecessor views.
type DiGraph[N comparable, T Timestamp] struct {
	core[N, T]
}

// NewDiGraph creates an empty directed temporal graph with removal enabled.
func NewDiGraph[N comparable, T Timestamp]() *DiGraph[N, T] {
	return &DiGraph[N, T]{core: newCore[N, T](true, true)}
}

// NewAppendOnlyDiGraph creates a directed temporal graph that rejects
// removal.
func NewAppendOnlyDiGraph[N comparable, T Timestamp]() *DiGraph[N, T] {
	return &DiGraph[N, T]{core: newCore[N, T](true, false)}
}

// Successors returns the nodes ever reachable from n along out-interactions.
func (g *DiGraph[N, T]) Successors(n N) []N { return g.Neighbors(n) }

// SuccessorsAt returns the out-neighbors of n at time t.
func (g *DiGraph[N, T]) SuccessorsAt(n N, t T) []N { return g.NeighborsAt(n, t) }

// Predecessors returns the nodes with an interaction into n, over all time.
func (g *DiGraph[N, T]) Predecessors(n N) []N {
	out := make([]N, 0, len(g.pred[n]))
	for m := range g.pred[n] {
		out = append(out, m)
	}
	return out
}

// PredecessorsAt returns the in-neighbors of n at time t.
func (g *DiGraph[N, T]) PredecessorsAt(n N, t T) []N {
	var out []N
	for m, rec := range g.pred[n] {
		if presentAt(rec, t) {
			out = append(out, m)
		}
	}
	return out
}

// HasSuccessorAt reports whether the interaction (u, v) is present at t.
func (g *DiGraph[N, T]) HasSuccessorAt(u, v N, t T) bool { return g.HasInteractionAt(u, v, t) }

// HasPredecessorAt reports whether the interaction (v, u) is present at t.
func (g *DiGraph[N, T]) HasPredecessorAt(u, v N, t T) bool { return g.HasInteractionAt(v, u, t) }

// OutDegree counts the out-interactions of n over all time.
func (g *DiGraph[N, T]) OutDegree(n N) int { return len(g.adj[n]) }

// OutDegreeAt counts the out-interactions of n present at t.
func (g *DiGraph[N, T]) OutDegreeAt(n N, t T) int {
	d := 0
	for _, rec := range g.adj[n] {
		if presentAt(rec, t) {
			d++
		}
	}
	return d
}

// InDegree counts the in-interactions of n over all time.
func (g *DiGraph[N, T]) InDegree(n N) int { return len(g.pred[n]) }

// InDegreeAt counts the in-interactions of n present at t.
func (g *DiGraph[N, T]) InDegreeAt(n N, t T) int {
	d := 0
	for _, rec := range g.pred[n] {
		if presentAt(rec, t) {
			d++
		}
	}
	return d
}
