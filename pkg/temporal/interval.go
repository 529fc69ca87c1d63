// Package temporal implements a dynamic graph whose edges carry presence
// intervals instead of a plain present/absent bit.
//
// An interaction between two nodes exists over one or more half-open time
// intervals. The store keeps those intervals merged and sorted, and derives
// from them static snapshots, time slices, a chronological event stream and
// time-respecting paths.
//
// The package is parametric over the node type (anything comparable) and the
// timestamp type (any signed integer).
package temporal

import "fmt"

// Timestamp is the constraint for temporal ids: a totally ordered discrete
// value. Signed integers keep duration arithmetic well-defined.
type Timestamp interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Interval is a half-open presence span [Start, End). When Unbounded is set
// the interval has no right endpoint ("still present") and End is ignored.
type Interval[T Timestamp] struct {
	Start     T
	End       T
	Unbounded bool
}

// NewInterval builds a bounded interval [start, end).
// Zero-length and inverted intervals are rejected.
func NewInterval[T Timestamp](start, end T) (Interval[T], error) {
	if end <= start {
		return Interval[T]{}, fmt.Errorf("%w: [%v, %v)", ErrInvalidInterval, start, end)
	}
	return Interval[T]{Start: start, End: end}, nil
}

// NewUnboundedInterval builds an open interval [start, ∞).
func NewUnboundedInterval[T Timestamp](start T) Interval[T] {
	return Interval[T]{Start: start, Unbounded: true}
}

// Contains reports whether t falls inside the interval, using closed-start /
// open-end semantics.
func (iv Interval[T]) Contains(t T) bool {
	if t < iv.Start {
		return false
	}
	return iv.Unbounded || t < iv.End
}

// Overlaps reports whether the two intervals share at least one timestamp.
func (iv Interval[T]) Overlaps(o Interval[T]) bool {
	if iv.Unbounded && o.Unbounded {
		return true
	}
	if iv.Unbounded {
		return o.Unbounded || o.End > iv.Start
	}
	if o.Unbounded {
		return iv.End > o.Start
	}
	return iv.Start < o.End && o.Start < iv.End
}

// Abuts reports whether the two intervals touch without overlapping, i.e.
// one ends exactly where the other starts. Abutting intervals describe a
// single contiguous presence period.
func (iv Interval[T]) Abuts(o Interval[T]) bool {
	if !iv.Unbounded && iv.End == o.Start {
		return true
	}
	if !o.Unbounded && o.End == iv.Start {
		return true
	}
	return false
}

// Merge coalesces two overlapping or abutting intervals into one. It fails
// with ErrInvalidInterval when the inputs are separated by a gap.
func (iv Interval[T]) Merge(o Interval[T]) (Interval[T], error) {
	if !iv.Overlaps(o) && !iv.Abuts(o) {
		return Interval[T]{}, fmt.Errorf("%w: intervals are disjoint, cannot merge", ErrInvalidInterval)
	}
	out := Interval[T]{Start: min(iv.Start, o.Start)}
	if iv.Unbounded || o.Unbounded {
		out.Unbounded = true
		return out, nil
	}
	out.End = max(iv.End, o.End)
	return out, nil
}

// Duration returns End - Start. Unbounded intervals have no duration.
func (iv Interval[T]) Duration() (T, error) {
	if iv.Unbounded {
		var zero T
		return zero, fmt.Errorf("%w: unbounded interval has no duration", ErrInvalidInterval)
	}
	return iv.End - iv.Start, nil
}

// String renders the interval for logs and errors.
func (iv Interval[T]) String() string {
	if iv.Unbounded {
		return fmt.Sprintf("[%v, ∞)", iv.Start)
	}
	return fmt.Sprintf("[%v, %v)", iv.Start, iv.End)
}

// clip restricts the interval to the inclusive snapshot-id window [from, to],
// i.e. the half-open window [from, to+1). The second return is false when the
// clipped interval would be empty.
func (iv Interval[T]) clip(from, to T) (Interval[T], bool) {
	hi := to + 1
	lo := max(iv.Start, from)
	if iv.Unbounded {
		if lo >= hi {
			return Interval[T]{}, false
		}
		return Interval[T]{Start: lo, End: hi}, true
	}
	end := min(iv.End, hi)
	if lo >= end {
		return Interval[T]{}, false
	}
	return Interval[T]{Start: lo, End: end}, true
}

// insertInterval coalesces iv into a sorted, pairwise-disjoint interval
// slice, merging every stored interval that overlaps or abuts it. The result
// keeps the merged-set invariant: sorted by start, no overlap, no touching.
func insertInterval[T Timestamp](ivs []Interval[T], iv Interval[T]) []Interval[T] {
	out := make([]Interval[T], 0, len(ivs)+1)
	merged := iv
	placed := false
	for _, cur := range ivs {
		if merged.Overlaps(cur) || merged.Abuts(cur) {
			merged, _ = merged.Merge(cur)
			continue
		}
		if !placed && cur.Start > merged.Start {
			out = append(out, merged)
			placed = true
		}
		out = append(out, cur)
	}
	if !placed {
		out = append(out, merged)
	}
	return out
}
