package temporal

import (
	"fmt"
	"sort"
)

// Hop is one traversed interaction of a time-respecting path: the edge
// (U, V) crossed at time T.
type Hop[N comparable, T Timestamp] struct {
	U, V N
	T    T
}

// Path is a sequence of hops with strictly increasing timestamps.
type Path[N comparable, T Timestamp] []Hop[N, T]

// PathOptions bounds a time-respecting search. Nil pointers mean
// "unconstrained"; the zero value searches the whole observation window.
type PathOptions[T Timestamp] struct {
	// Start and End restrict hops to snapshot ids inside the inclusive
	// window [Start, End].
	Start *T
	End   *T

	// MaxWait caps how long a walk may idle on a node between consecutive
	// hops: the next hop must leave at most MaxWait after the previous one.
	MaxWait *T

	// Sample keeps only the earliest Sample departure times of the source.
	// Zero or negative means all of them.
	Sample int
}

// PathLength returns the number of hops.
func PathLength[N comparable, T Timestamp](p Path[N, T]) int { return len(p) }

// PathDuration returns the time between the first and the last hop.
// Empty paths have zero duration.
func PathDuration[N comparable, T Timestamp](p Path[N, T]) T {
	if len(p) == 0 {
		var zero T
		return zero
	}
	return p[len(p)-1].T - p[0].T
}

// TimeRespectingPaths enumerates the node-simple time-respecting paths from
// s to d: each hop uses an interaction present at its timestamp, timestamps
// strictly increase along the path, and no intermediate node repeats. Paths
// stop at the first arrival on d.
//
// Unknown endpoints and unreachable targets yield an empty result, not an
// error; an inverted window yields ErrInvalidRange.
func TimeRespectingPaths[N comparable, T Timestamp](g View[N, T], s, d N, opts PathOptions[T]) ([]Path[N, T], error) {
	return collectPaths(g, s, d, opts, true)
}

// AllTimeRespectingPaths enumerates every time-respecting path from s to d,
// node revisits included. Termination is guaranteed by the strict timestamp
// increase. Paths that pass through d and arrive on it again later are
// reported once per arrival.
func AllTimeRespectingPaths[N comparable, T Timestamp](g View[N, T], s, d N, opts PathOptions[T]) ([]Path[N, T], error) {
	return collectPaths(g, s, d, opts, false)
}

func collectPaths[N comparable, T Timestamp](g View[N, T], s, d N, opts PathOptions[T], simple bool) ([]Path[N, T], error) {
	times, err := searchTimes(g, opts)
	if err != nil {
		return nil, err
	}
	if !g.HasNode(s) || !g.HasNode(d) || s == d || len(times) == 0 {
		return nil, nil
	}

	departures := sampleDepartures(g, s, times, opts.Sample)

	var out []Path[N, T]
	visited := map[N]bool{s: true}
	var cur Path[N, T]

	// walk extends cur from n, whose latest hop happened at last. first
	// restricts the next hop to exactly the chosen departure time.
	var walk func(n N, last T, exact bool)
	walk = func(n N, last T, exact bool) {
		for _, t := range times {
			if exact {
				if t != last {
					continue
				}
			} else {
				if t <= last {
					continue
				}
				if opts.MaxWait != nil && t-last > *opts.MaxWait {
					break
				}
			}
			for _, m := range g.NeighborsAt(n, t) {
				if m == d {
					hop := Hop[N, T]{U: n, V: m, T: t}
					path := make(Path[N, T], len(cur)+1)
					copy(path, cur)
					path[len(cur)] = hop
					out = append(out, path)
					if simple {
						continue
					}
				}
				if simple && visited[m] {
					continue
				}
				if simple {
					visited[m] = true
				}
				cur = append(cur, Hop[N, T]{U: n, V: m, T: t})
				walk(m, t, false)
				cur = cur[:len(cur)-1]
				if simple {
					delete(visited, m)
				}
			}
			if exact {
				break
			}
		}
	}

	for _, t0 := range departures {
		walk(s, t0, true)
	}
	sortPaths(out)
	return out, nil
}

// searchTimes returns the snapshot ids inside the option window, ascending.
func searchTimes[N comparable, T Timestamp](g View[N, T], opts PathOptions[T]) ([]T, error) {
	if opts.Start != nil && opts.End != nil && *opts.Start > *opts.End {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, *opts.Start, *opts.End)
	}
	ids := g.TemporalSnapshotIDs()
	out := ids[:0:0]
	for _, t := range ids {
		if opts.Start != nil && t < *opts.Start {
			continue
		}
		if opts.End != nil && t > *opts.End {
			break
		}
		out = append(out, t)
	}
	return out, nil
}

// sampleDepartures returns the times at which s can leave, earliest first,
// truncated to the requested sample size.
func sampleDepartures[N comparable, T Timestamp](g View[N, T], s N, times []T, sample int) []T {
	var out []T
	for _, t := range times {
		if len(g.NeighborsAt(s, t)) > 0 {
			out = append(out, t)
		}
	}
	if sample > 0 && len(out) > sample {
		out = out[:sample]
	}
	return out
}

// sortPaths orders paths by departure time, then arrival time, then length,
// so enumeration output does not depend on adjacency-map iteration order.
func sortPaths[N comparable, T Timestamp](paths []Path[N, T]) {
	sort.SliceStable(paths, func(i, j int) bool {
		a, b := paths[i], paths[j]
		if a[0].T != b[0].T {
			return a[0].T < b[0].T
		}
		if a[len(a)-1].T != b[len(b)-1].T {
			return a[len(a)-1].T < b[len(b)-1].T
		}
		return len(a) < len(b)
	})
}

// AnnotatedPath carries a path together with its derived timing: the idle
// time spent before each hop after the first, and the total duration.
type AnnotatedPath[N comparable, T Timestamp] struct {
	Path     Path[N, T]
	Waits    []T
	Duration T
}

// AnnotatePaths computes per-hop waits and total duration for each path.
func AnnotatePaths[N comparable, T Timestamp](paths []Path[N, T]) []AnnotatedPath[N, T] {
	out := make([]AnnotatedPath[N, T], 0, len(paths))
	for _, p := range paths {
		ap := AnnotatedPath[N, T]{Path: p, Duration: PathDuration(p)}
		for i := 1; i < len(p); i++ {
			ap.Waits = append(ap.Waits, p[i].T-p[i-1].T)
		}
		out = append(out, ap)
	}
	return out
}

// PathSummary buckets a path set by the classic temporal-path optimality
// criteria. A path may appear in several buckets.
type PathSummary[N comparable, T Timestamp] struct {
	// Shortest holds the minimum-hop paths.
	Shortest []Path[N, T]
	// Fastest holds the minimum-duration paths.
	Fastest []Path[N, T]
	// Foremost holds the earliest-arriving paths.
	Foremost []Path[N, T]
	// FastestShortest holds the minimum-duration paths among the shortest.
	FastestShortest []Path[N, T]
	// ShortestFastest holds the minimum-hop paths among the fastest.
	ShortestFastest []Path[N, T]
}

// ClassifyPaths summarizes a path set produced by one of the enumerators.
func ClassifyPaths[N comparable, T Timestamp](paths []Path[N, T]) PathSummary[N, T] {
	var sum PathSummary[N, T]
	if len(paths) == 0 {
		return sum
	}

	minLen := PathLength(paths[0])
	minDur := PathDuration(paths[0])
	minArr := paths[0][len(paths[0])-1].T
	for _, p := range paths[1:] {
		minLen = min(minLen, PathLength(p))
		minDur = min(minDur, PathDuration(p))
		minArr = min(minArr, p[len(p)-1].T)
	}

	var fsDur T
	var sfLen int
	for _, p := range paths {
		if PathLength(p) == minLen {
			sum.Shortest = append(sum.Shortest, p)
			if len(sum.FastestShortest) == 0 || PathDuration(p) < fsDur {
				sum.FastestShortest = sum.FastestShortest[:0]
				fsDur = PathDuration(p)
			}
			if PathDuration(p) == fsDur {
				sum.FastestShortest = append(sum.FastestShortest, p)
			}
		}
		if PathDuration(p) == minDur {
			sum.Fastest = append(sum.Fastest, p)
			if len(sum.ShortestFastest) == 0 || PathLength(p) < sfLen {
				sum.ShortestFastest = sum.ShortestFastest[:0]
				sfLen = PathLength(p)
			}
			if PathLength(p) == sfLen {
				sum.ShortestFastest = append(sum.ShortestFastest, p)
			}
		}
		if p[len(p)-1].T == minArr {
			sum.Foremost = append(sum.Foremost, p)
		}
	}
	return sum
}
