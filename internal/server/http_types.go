package server

import (
	"github.com/sanonone/dynagraph/pkg/temporal"
)

// InteractionAddRequest defines the body for recording presence. With End
// unset the presence is open-ended from T on; with End set it covers [T, End).
type InteractionAddRequest struct {
	U   string `json:"u"`
	V   string `json:"v"`
	T   int64  `json:"t"`
	End *int64 `json:"end,omitempty"`
}

// InteractionRemoveRequest defines the body for ending presence at T.
type InteractionRemoveRequest struct {
	U string `json:"u"`
	V string `json:"v"`
	T int64  `json:"t"`
}

// NodeAddRequest defines the body for registering an isolated node.
type NodeAddRequest struct {
	Node string `json:"node"`
}

// PathsRequest defines the body for a time-respecting path search.
type PathsRequest struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Start   *int64 `json:"start,omitempty"`
	End     *int64 `json:"end,omitempty"`
	MaxWait *int64 `json:"max_wait,omitempty"`
	Sample  int    `json:"sample,omitempty"`
	All     bool   `json:"all,omitempty"`
}

// Options translates the request into search options.
func (r PathsRequest) Options() temporal.PathOptions[int64] {
	return temporal.PathOptions[int64]{
		Start:   r.Start,
		End:     r.End,
		MaxWait: r.MaxWait,
		Sample:  r.Sample,
	}
}

// HopDTO is one step of a returned path.
type HopDTO struct {
	U string `json:"u"`
	V string `json:"v"`
	T int64  `json:"t"`
}

// PathsResponse carries the enumerated paths plus the optimality buckets.
type PathsResponse struct {
	Paths           [][]HopDTO `json:"paths"`
	Shortest        [][]HopDTO `json:"shortest,omitempty"`
	Fastest         [][]HopDTO `json:"fastest,omitempty"`
	Foremost        [][]HopDTO `json:"foremost,omitempty"`
	FastestShortest [][]HopDTO `json:"fastest_shortest,omitempty"`
	ShortestFastest [][]HopDTO `json:"shortest_fastest,omitempty"`
}

// EventDTO is one element of a streamed or sliced event sequence.
type EventDTO struct {
	U  string `json:"u"`
	V  string `json:"v"`
	Op string `json:"op"`
	T  int64  `json:"t"`
}

// EdgeDTO is one edge of a static snapshot.
type EdgeDTO struct {
	U string `json:"u"`
	V string `json:"v"`
}

// SnapshotResponse is the static graph derived at one instant.
type SnapshotResponse struct {
	T        int64     `json:"t"`
	Directed bool      `json:"directed"`
	Nodes    []string  `json:"nodes"`
	Edges    []EdgeDTO `json:"edges"`
}

func dtoPaths(paths []temporal.Path[string, int64]) [][]HopDTO {
	out := make([][]HopDTO, 0, len(paths))
	for _, p := range paths {
		hops := make([]HopDTO, 0, len(p))
		for _, h := range p {
			hops = append(hops, HopDTO{U: h.U, V: h.V, T: h.T})
		}
		out = append(out, hops)
	}
	return out
}

func dtoEvents(evs []temporal.Event[string, int64]) []EventDTO {
	out := make([]EventDTO, 0, len(evs))
	for _, ev := range evs {
		out = append(out, EventDTO{U: ev.U, V: ev.V, Op: string(ev.Op), T: ev.T})
	}
	return out
}
