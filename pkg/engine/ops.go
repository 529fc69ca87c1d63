// Operational methods of the Engine: every mutation is applied to the
// in-memory graph and, once accepted, appended to the log as a framed
// protocol command, so a replay reproduces exactly the accepted history.
package engine

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/sanonone/dynagraph/pkg/metrics"
	"github.com/sanonone/dynagraph/pkg/temporal"
)

func formatInt(t int64) string { return strconv.FormatInt(t, 10) }

func (e *Engine) logCommand(parts ...string) error {
	line := parts[0]
	for _, p := range parts[1:] {
		line += " " + p
	}
	if err := e.aof.WriteFrame([]byte(line)); err != nil {
		return fmt.Errorf("persistence error (aof append failed): %w", err)
	}
	if err := e.aof.Flush(); err != nil {
		return fmt.Errorf("persistence error (aof flush failed): %w", err)
	}
	atomic.AddInt64(&e.dirtyCounter, 1)
	return nil
}

func (e *Engine) syncGauges() {
	metrics.GraphNodes.Set(float64(e.g.Order()))
	metrics.GraphInteractions.Set(float64(e.g.NumberOfInteractions()))
}

// AddNode registers an isolated node.
func (e *Engine) AddNode(n string) error {
	if !validNodeID(n) {
		return ErrBadNodeID
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.g.AddNode(n)
	if err := e.logCommand("NODE", n); err != nil {
		return err
	}
	metrics.WriteOpsTotal.WithLabelValues("node").Inc()
	e.syncGauges()
	return nil
}

// AddInteraction records open-ended presence of (u, v) from t on.
func (e *Engine) AddInteraction(u, v string, t int64) error {
	if !validNodeID(u) || !validNodeID(v) {
		return ErrBadNodeID
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.g.AddInteraction(u, v, t); err != nil {
		return err
	}
	if err := e.logCommand("TADD", u, v, formatInt(t)); err != nil {
		return err
	}
	metrics.WriteOpsTotal.WithLabelValues("add").Inc()
	e.syncGauges()
	return nil
}

// AddInteractionSpan records presence of (u, v) over [t, end).
func (e *Engine) AddInteractionSpan(u, v string, t, end int64) error {
	if !validNodeID(u) || !validNodeID(v) {
		return ErrBadNodeID
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.g.AddInteractionSpan(u, v, t, end); err != nil {
		return err
	}
	if err := e.logCommand("TADD", u, v, formatInt(t), formatInt(end)); err != nil {
		return err
	}
	metrics.WriteOpsTotal.WithLabelValues("add_span").Inc()
	e.syncGauges()
	return nil
}

// RemoveInteraction ends the presence of (u, v) at t.
func (e *Engine) RemoveInteraction(u, v string, t int64) error {
	if !validNodeID(u) || !validNodeID(v) {
		return ErrBadNodeID
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.g.RemoveInteraction(u, v, t); err != nil {
		return err
	}
	if err := e.logCommand("TDEL", u, v, formatInt(t)); err != nil {
		return err
	}
	metrics.WriteOpsTotal.WithLabelValues("remove").Inc()
	e.syncGauges()
	return nil
}

// --- Read API. Plain reads take the read lock and mirror the store. ---

// HasNode reports whether n exists in the flattened graph.
func (e *Engine) HasNode(n string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.HasNode(n)
}

// HasNodeAt reports whether n is present at t.
func (e *Engine) HasNodeAt(n string, t int64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.HasNodeAt(n, t)
}

// Nodes lists every node of the flattened graph.
func (e *Engine) Nodes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.Nodes()
}

// NodesAt lists the nodes present at t.
func (e *Engine) NodesAt(t int64) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.NodesAt(t)
}

// Neighbors lists the nodes ever linked from n.
func (e *Engine) Neighbors(n string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.Neighbors(n)
}

// NeighborsAt lists the neighbors of n at t.
func (e *Engine) NeighborsAt(n string, t int64) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.NeighborsAt(n, t)
}

// Degree counts the interactions involving n over all time.
func (e *Engine) Degree(n string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.Degree(n)
}

// DegreeAt counts the interactions involving n at t.
func (e *Engine) DegreeAt(n string, t int64) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.DegreeAt(n, t)
}

// HasInteraction reports whether (u, v) has any recorded presence.
func (e *Engine) HasInteraction(u, v string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.HasInteraction(u, v)
}

// HasInteractionAt reports whether (u, v) is present at t.
func (e *Engine) HasInteractionAt(u, v string, t int64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.HasInteractionAt(u, v, t)
}

// Interactions returns every interaction with its merged intervals.
func (e *Engine) Interactions() []temporal.Interaction[string, int64] {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.Interactions()
}

// InteractionsAt returns the interactions present at t.
func (e *Engine) InteractionsAt(t int64) []temporal.Interaction[string, int64] {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.InteractionsAt(t)
}

// SnapshotAt derives the static graph at t as a list of edges.
func (e *Engine) SnapshotAt(t int64) *temporal.Snapshot[string] {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.SnapshotAt(t)
}

// SliceEvents returns the event stream of the sub-graph restricted to the
// inclusive window [from, to].
func (e *Engine) SliceEvents(from, to int64) ([]temporal.Event[string, int64], error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var view temporal.View[string, int64]
	switch g := e.g.(type) {
	case *temporal.Graph[string, int64]:
		sl, err := g.TimeSlice(from, to)
		if err != nil {
			return nil, err
		}
		view = sl
	case *temporal.DiGraph[string, int64]:
		sl, err := g.TimeSlice(from, to)
		if err != nil {
			return nil, err
		}
		view = sl
	default:
		return nil, fmt.Errorf("unsupported store type %T", e.g)
	}

	var out []temporal.Event[string, int64]
	for ev := range view.StreamInteractions() {
		out = append(out, ev)
	}
	return out, nil
}

// Events returns the full chronological event stream.
func (e *Engine) Events() []temporal.Event[string, int64] {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []temporal.Event[string, int64]
	for ev := range e.g.StreamInteractions() {
		out = append(out, ev)
	}
	return out
}

// TemporalSnapshotIDs returns the timestamps at which the structure changes.
func (e *Engine) TemporalSnapshotIDs() []int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.TemporalSnapshotIDs()
}

// FindPaths enumerates time-respecting paths between two nodes.
func (e *Engine) FindPaths(s, d string, opts temporal.PathOptions[int64], all bool) ([]temporal.Path[string, int64], error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	metrics.PathSearchesTotal.Inc()
	if all {
		return temporal.AllTimeRespectingPaths[string, int64](e.g, s, d, opts)
	}
	return temporal.TimeRespectingPaths[string, int64](e.g, s, d, opts)
}

// Stats summarizes the graph for monitoring surfaces.
type Stats struct {
	Directed     bool          `json:"directed"`
	AppendOnly   bool          `json:"append_only"`
	Nodes        int           `json:"nodes"`
	Interactions int           `json:"interactions"`
	SnapshotIDs  int           `json:"snapshot_ids"`
	PerSnapshot  map[int64]int `json:"interactions_per_snapshot,omitempty"`
}

// GraphStats returns the current graph summary. Per-snapshot counts are
// included when detailed is set.
func (e *Engine) GraphStats(detailed bool) Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st := Stats{
		Directed:     e.g.Directed(),
		AppendOnly:   !e.g.RemovalAllowed(),
		Nodes:        e.g.Order(),
		Interactions: e.g.NumberOfInteractions(),
		SnapshotIDs:  len(e.g.TemporalSnapshotIDs()),
	}
	if detailed {
		st.PerSnapshot = e.g.InteractionsPerSnapshots()
	}
	return st
}
