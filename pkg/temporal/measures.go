package temporal

// Temporal coverage and contribution measures. All of them are normalized
// against the snapshot ids of the graph, so an empty graph scores zero.

// NodePresence returns the snapshot ids at which n has at least one present
// interaction, ascending.
func (c *core[N, T]) NodePresence(n N) []T {
	var out []T
	for _, t := range c.TemporalSnapshotIDs() {
		if c.HasNodeAt(n, t) {
			out = append(out, t)
		}
	}
	return out
}

// NodeContribution returns the fraction of snapshot ids at which n is
// present.
func (c *core[N, T]) NodeContribution(n N) float64 {
	ids := c.TemporalSnapshotIDs()
	if len(ids) == 0 {
		return 0
	}
	return float64(len(c.NodePresence(n))) / float64(len(ids))
}

// InteractionContribution returns the fraction of snapshot ids at which the
// interaction (u, v) is present.
func (c *core[N, T]) InteractionContribution(u, v N) float64 {
	ids := c.TemporalSnapshotIDs()
	if len(ids) == 0 {
		return 0
	}
	present := 0
	for _, t := range ids {
		if c.HasInteractionAt(u, v, t) {
			present++
		}
	}
	return float64(present) / float64(len(ids))
}

// Coverage returns the density of the node/snapshot presence matrix: the
// mean node contribution over all nodes.
func (c *core[N, T]) Coverage() float64 {
	ids := c.TemporalSnapshotIDs()
	if len(ids) == 0 || len(c.nodes) == 0 {
		return 0
	}
	present := 0
	for n := range c.nodes {
		present += len(c.NodePresence(n))
	}
	return float64(present) / float64(len(ids)*len(c.nodes))
}

// interEventGaps folds the timestamps of the stream events accepted by keep
// into a gap histogram: for each pair of consecutive accepted events, the
// time between them, counted.
func (c *core[N, T]) interEventGaps(keep func(Event[N, T]) bool) map[T]int {
	out := make(map[T]int)
	var last T
	first := true
	for ev := range c.StreamInteractions() {
		if keep != nil && !keep(ev) {
			continue
		}
		if !first {
			out[ev.T-last]++
		}
		last = ev.T
		first = false
	}
	return out
}

// InterEventTimeDistribution returns the histogram of the time gaps between
// consecutive events of the whole stream.
func (c *core[N, T]) InterEventTimeDistribution() map[T]int {
	return c.interEventGaps(nil)
}

// NodeInterEventTimeDistribution returns the gap histogram of the events
// involving n.
func (c *core[N, T]) NodeInterEventTimeDistribution(n N) map[T]int {
	return c.interEventGaps(func(ev Event[N, T]) bool {
		return ev.U == n || ev.V == n
	})
}

// InteractionInterEventTimeDistribution returns the gap histogram of the
// events of the interaction (u, v). On undirected graphs orientation is
// ignored.
func (c *core[N, T]) InteractionInterEventTimeDistribution(u, v N) map[T]int {
	return c.interEventGaps(func(ev Event[N, T]) bool {
		if ev.U == u && ev.V == v {
			return true
		}
		return !c.directed && ev.U == v && ev.V == u
	})
}

// OutInterEventTimeDistribution returns the gap histogram of the events
// leaving n.
func (g *DiGraph[N, T]) OutInterEventTimeDistribution(n N) map[T]int {
	return g.interEventGaps(func(ev Event[N, T]) bool { return ev.U == n })
}

// InInterEventTimeDistribution returns the gap histogram of the events
// entering n.
func (g *DiGraph[N, T]) InInterEventTimeDistribution(n N) map[T]int {
	return g.interEventGaps(func(ev Event[N, T]) bool { return ev.V == n })
}

// AddPath inserts open-ended interactions chaining the given nodes at time
// t: n0-n1, n1-n2, and so on.
func (c *core[N, T]) AddPath(nodes []N, t T) error {
	for i := 1; i < len(nodes); i++ {
		if err := c.AddInteraction(nodes[i-1], nodes[i], t); err != nil {
			return err
		}
	}
	return nil
}

// AddStar inserts open-ended interactions from the first node to every other
// node at time t.
func (c *core[N, T]) AddStar(nodes []N, t T) error {
	for i := 1; i < len(nodes); i++ {
		if err := c.AddInteraction(nodes[0], nodes[i], t); err != nil {
			return err
		}
	}
	return nil
}

// AddCycle inserts a path through the given nodes at time t and closes it
// back to the first node.
func (c *core[N, T]) AddCycle(nodes []N, t T) error {
	if err := c.AddPath(nodes, t); err != nil {
		return err
	}
	if len(nodes) > 2 {
		return c.AddInteraction(nodes[len(nodes)-1], nodes[0], t)
	}
	return nil
}
