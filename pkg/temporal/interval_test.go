package temporal

import (
	"errors"
	"testing"
)

func TestNewIntervalRejectsEmptyAndInverted(t *testing.T) {
	if _, err := NewInterval(5, 5); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("zero-length interval: got err = %v, want ErrInvalidInterval", err)
	}
	if _, err := NewInterval(7, 3); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("inverted interval: got err = %v, want ErrInvalidInterval", err)
	}
	iv, err := NewInterval(0, 3)
	if err != nil {
		t.Fatalf("NewInterval(0,3): %v", err)
	}
	if iv.Start != 0 || iv.End != 3 || iv.Unbounded {
		t.Fatalf("unexpected interval: %v", iv)
	}
}

func TestIntervalContainsHalfOpen(t *testing.T) {
	iv, _ := NewInterval(0, 3)
	for _, tt := range []struct {
		t    int
		want bool
	}{{-1, false}, {0, true}, {2, true}, {3, false}, {4, false}} {
		if got := iv.Contains(tt.t); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.t, got, tt.want)
		}
	}

	open := NewUnboundedInterval(10)
	if open.Contains(9) {
		t.Error("unbounded interval contains a point before its start")
	}
	if !open.Contains(10) || !open.Contains(1_000_000) {
		t.Error("unbounded interval must contain every point from its start on")
	}
}

func TestIntervalMergeCommutative(t *testing.T) {
	a, _ := NewInterval(0, 5)
	b, _ := NewInterval(3, 9)
	ab, err := a.Merge(b)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	ba, err := b.Merge(a)
	if err != nil {
		t.Fatalf("merge reversed: %v", err)
	}
	if ab != ba {
		t.Fatalf("merge is not commutative: %v vs %v", ab, ba)
	}
	if ab.Start != 0 || ab.End != 9 {
		t.Fatalf("merged interval = %v, want [0, 9)", ab)
	}
}

func TestIntervalMergeAbuttingAndUnbounded(t *testing.T) {
	a, _ := NewInterval(0, 3)
	b, _ := NewInterval(3, 5)
	m, err := a.Merge(b)
	if err != nil {
		t.Fatalf("merging abutting intervals: %v", err)
	}
	if m.Start != 0 || m.End != 5 {
		t.Fatalf("merged abutting = %v, want [0, 5)", m)
	}

	m, err = a.Merge(NewUnboundedInterval(2))
	if err != nil {
		t.Fatalf("merging with unbounded: %v", err)
	}
	if !m.Unbounded || m.Start != 0 {
		t.Fatalf("merged with unbounded = %v, want [0, inf)", m)
	}
}

func TestIntervalMergeDisjointFails(t *testing.T) {
	a, _ := NewInterval(0, 2)
	b, _ := NewInterval(4, 6)
	if _, err := a.Merge(b); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("disjoint merge: got err = %v, want ErrInvalidInterval", err)
	}
}

func TestIntervalDuration(t *testing.T) {
	iv, _ := NewInterval(3, 9)
	d, err := iv.Duration()
	if err != nil || d != 6 {
		t.Fatalf("Duration() = %v, %v, want 6, nil", d, err)
	}
	if _, err := NewUnboundedInterval(3).Duration(); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("unbounded duration: got err = %v, want ErrInvalidInterval", err)
	}
}

func TestInsertIntervalKeepsMergedSetInvariant(t *testing.T) {
	var ivs []Interval[int]
	spans := [][2]int{{10, 12}, {0, 3}, {5, 7}, {2, 6}, {20, 25}}
	for _, s := range spans {
		iv, _ := NewInterval(s[0], s[1])
		ivs = insertInterval(ivs, iv)
		for i := 1; i < len(ivs); i++ {
			prev, cur := ivs[i-1], ivs[i]
			if cur.Start <= prev.Start {
				t.Fatalf("after %v: intervals not sorted: %v", s, ivs)
			}
			if prev.Overlaps(cur) || prev.Abuts(cur) {
				t.Fatalf("after %v: intervals not disjoint: %v", s, ivs)
			}
		}
	}
	// {0,3} and {5,7} are bridged by {2,6}.
	want := []Interval[int]{{Start: 0, End: 7}, {Start: 10, End: 12}, {Start: 20, End: 25}}
	if len(ivs) != len(want) {
		t.Fatalf("intervals = %v, want %v", ivs, want)
	}
	for i := range want {
		if ivs[i] != want[i] {
			t.Fatalf("intervals = %v, want %v", ivs, want)
		}
	}
}

func TestIntervalClip(t *testing.T) {
	iv, _ := NewInterval(2, 8)
	got, ok := iv.clip(4, 5)
	if !ok || got.Start != 4 || got.End != 6 {
		t.Fatalf("clip(4,5) = %v, %v, want [4, 6), true", got, ok)
	}
	if _, ok := iv.clip(8, 10); ok {
		t.Fatal("clip past the interval end must report empty")
	}
	got, ok = NewUnboundedInterval(0).clip(3, 4)
	if !ok || got.Unbounded || got.Start != 3 || got.End != 5 {
		t.Fatalf("unbounded clip = %v, %v, want [3, 5), true", got, ok)
	}
}
