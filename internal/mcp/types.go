package mcp

// --- Tool Arguments ---

type AddInteractionArgs struct {
	U   string `json:"u" jsonschema:"First node of the interaction,required"`
	V   string `json:"v" jsonschema:"Second node of the interaction,required"`
	T   int64  `json:"t" jsonschema:"Timestamp at which the interaction starts,required"`
	End *int64 `json:"end,omitempty" jsonschema:"description=Exclusive end timestamp. Omit for an open-ended interaction."`
}

type AddInteractionResult struct {
	Status string `json:"status"`
}

type RemoveInteractionArgs struct {
	U string `json:"u" jsonschema:"First node of the interaction,required"`
	V string `json:"v" jsonschema:"Second node of the interaction,required"`
	T int64  `json:"t" jsonschema:"Timestamp at which the interaction ends,required"`
}

type RemoveInteractionResult struct {
	Status string `json:"status"`
}

type SnapshotArgs struct {
	T int64 `json:"t" jsonschema:"Timestamp of the snapshot,required"`
}

type SnapshotResult struct {
	Nodes []string    `json:"nodes"`
	Edges [][2]string `json:"edges"`
}

type NeighborsArgs struct {
	Node string `json:"node" jsonschema:"Node to inspect,required"`
	T    *int64 `json:"t,omitempty" jsonschema:"description=Timestamp to restrict to. Omit for neighbors over all time."`
}

type NeighborsResult struct {
	Neighbors []string `json:"neighbors"`
}

type FindPathsArgs struct {
	Source  string `json:"source" jsonschema:"Start node,required"`
	Target  string `json:"target" jsonschema:"Destination node,required"`
	Start   *int64 `json:"start,omitempty" jsonschema:"description=Lower bound of the search window."`
	End     *int64 `json:"end,omitempty" jsonschema:"description=Upper bound of the search window."`
	MaxWait *int64 `json:"max_wait,omitempty" jsonschema:"description=Maximum pause allowed at an intermediate node."`
	Sample  int    `json:"sample,omitempty" jsonschema:"description=Limit the search to the k earliest departure times."`
}

type FindPathsResult struct {
	Paths []string `json:"paths"` // "a -[0]-> b -[3]-> c"
}

type StatsArgs struct {
	Detailed bool `json:"detailed,omitempty" jsonschema:"description=Include per-snapshot interaction counts."`
}

type StatsResult struct {
	Directed     bool   `json:"directed"`
	Nodes        int    `json:"nodes"`
	Interactions int    `json:"interactions"`
	SnapshotIDs  int    `json:"snapshot_ids"`
	PerSnapshot  string `json:"per_snapshot,omitempty"` // "t=count, t=count, ..."
}
