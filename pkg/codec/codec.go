// Package codec implements the two line-oriented exchange formats for
// temporal graphs.
//
// The interaction format carries the event stream, one event per line:
//
//	n1 n2 op t        op is + (appeared) or - (vanished)
//
// The snapshot format carries one-tick presences, one per line:
//
//	n1 n2 t
//
// Both formats skip blank lines and lines starting with '#'; lines with too
// few fields are ignored, unparsable tokens on a well-formed line are
// errors. Node and timestamp tokens are decoded by caller-supplied parse
// functions, so the formats work for any node and timestamp type.
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sanonone/dynagraph/pkg/temporal"
)

// ErrBadToken reports an unparsable node or timestamp token.
var ErrBadToken = errors.New("codec: bad token")

// ErrUnboundedInterval reports an open interval in a snapshot export, which
// cannot be enumerated tick by tick.
var ErrUnboundedInterval = errors.New("codec: unbounded interval in snapshot export")

// ParseFunc decodes one whitespace-separated token.
type ParseFunc[V any] func(string) (V, error)

// ParseString is the identity ParseFunc for string nodes.
func ParseString(s string) (string, error) { return s, nil }

// ParseInt decodes a base-10 int token.
func ParseInt(s string) (int, error) { return strconv.Atoi(s) }

// ParseInt64 decodes a base-10 int64 token.
func ParseInt64(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }

// Applier consumes interaction-format events. Both temporal graph variants
// satisfy it.
type Applier[N comparable, T temporal.Timestamp] interface {
	Apply(temporal.Event[N, T]) error
}

// SpanAdder consumes snapshot-format presences. Both removal-enabled graph
// variants satisfy it.
type SpanAdder[N comparable, T temporal.Timestamp] interface {
	AddInteractionSpan(u, v N, t, e T) error
}

// ReadInteractions decodes interaction-format lines from r into dst.
func ReadInteractions[N comparable, T temporal.Timestamp](r io.Reader, dst Applier[N, T], parseNode ParseFunc[N], parseTime ParseFunc[T]) error {
	return eachLine(r, 4, func(lineno int, fields []string) error {
		u, err := parseNode(fields[0])
		if err != nil {
			return fmt.Errorf("%w: line %d: node %q: %v", ErrBadToken, lineno, fields[0], err)
		}
		v, err := parseNode(fields[1])
		if err != nil {
			return fmt.Errorf("%w: line %d: node %q: %v", ErrBadToken, lineno, fields[1], err)
		}
		var op temporal.Op
		switch fields[2] {
		case "+":
			op = temporal.OpInsert
		case "-":
			op = temporal.OpDelete
		default:
			return fmt.Errorf("%w: line %d: op %q", ErrBadToken, lineno, fields[2])
		}
		t, err := parseTime(fields[3])
		if err != nil {
			return fmt.Errorf("%w: line %d: timestamp %q: %v", ErrBadToken, lineno, fields[3], err)
		}
		if err := dst.Apply(temporal.Event[N, T]{U: u, V: v, Op: op, T: t}); err != nil {
			return fmt.Errorf("line %d: %w", lineno, err)
		}
		return nil
	})
}

// ParseInteractions decodes interaction-format lines into dst.
func ParseInteractions[N comparable, T temporal.Timestamp](lines []string, dst Applier[N, T], parseNode ParseFunc[N], parseTime ParseFunc[T]) error {
	return ReadInteractions(strings.NewReader(strings.Join(lines, "\n")), dst, parseNode, parseTime)
}

// GenerateInteractions renders the chronological event stream of g, one
// interaction-format line per event.
func GenerateInteractions[N comparable, T temporal.Timestamp](g temporal.View[N, T]) []string {
	var out []string
	for ev := range g.StreamInteractions() {
		out = append(out, fmt.Sprintf("%v %v %c %v", ev.U, ev.V, byte(ev.Op), ev.T))
	}
	return out
}

// WriteInteractions streams the interaction format of g to w.
func WriteInteractions[N comparable, T temporal.Timestamp](w io.Writer, g temporal.View[N, T]) error {
	bw := bufio.NewWriter(w)
	for ev := range g.StreamInteractions() {
		if _, err := fmt.Fprintf(bw, "%v %v %c %v\n", ev.U, ev.V, byte(ev.Op), ev.T); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadSnapshots decodes snapshot-format lines from r into dst. Each line
// contributes a single tick of presence; adjacent ticks coalesce in the
// store.
func ReadSnapshots[N comparable, T temporal.Timestamp](r io.Reader, dst SpanAdder[N, T], parseNode ParseFunc[N], parseTime ParseFunc[T]) error {
	return eachLine(r, 3, func(lineno int, fields []string) error {
		u, err := parseNode(fields[0])
		if err != nil {
			return fmt.Errorf("%w: line %d: node %q: %v", ErrBadToken, lineno, fields[0], err)
		}
		v, err := parseNode(fields[1])
		if err != nil {
			return fmt.Errorf("%w: line %d: node %q: %v", ErrBadToken, lineno, fields[1], err)
		}
		t, err := parseTime(fields[2])
		if err != nil {
			return fmt.Errorf("%w: line %d: timestamp %q: %v", ErrBadToken, lineno, fields[2], err)
		}
		if err := dst.AddInteractionSpan(u, v, t, t+1); err != nil {
			return fmt.Errorf("line %d: %w", lineno, err)
		}
		return nil
	})
}

// ParseSnapshots decodes snapshot-format lines into dst.
func ParseSnapshots[N comparable, T temporal.Timestamp](lines []string, dst SpanAdder[N, T], parseNode ParseFunc[N], parseTime ParseFunc[T]) error {
	return ReadSnapshots(strings.NewReader(strings.Join(lines, "\n")), dst, parseNode, parseTime)
}

// GenerateSnapshots renders g tick by tick, one snapshot-format line per
// interaction per tick of presence. Open intervals cannot be enumerated and
// yield ErrUnboundedInterval.
func GenerateSnapshots[N comparable, T temporal.Timestamp](g temporal.View[N, T]) ([]string, error) {
	var out []string
	for _, ia := range g.Interactions() {
		for _, iv := range ia.Intervals {
			if iv.Unbounded {
				return nil, fmt.Errorf("%w: (%v, %v) at %v", ErrUnboundedInterval, ia.U, ia.V, iv.Start)
			}
			for t := iv.Start; t < iv.End; t++ {
				out = append(out, fmt.Sprintf("%v %v %v", ia.U, ia.V, t))
			}
		}
	}
	return out, nil
}

// WriteSnapshots streams the snapshot format of g to w.
func WriteSnapshots[N comparable, T temporal.Timestamp](w io.Writer, g temporal.View[N, T]) error {
	lines, err := GenerateSnapshots(g)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// eachLine scans r line by line, skipping blanks, '#' comments and lines
// with fewer than minFields fields.
func eachLine(r io.Reader, minFields int, fn func(lineno int, fields []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < minFields {
			continue
		}
		if err := fn(lineno, fields); err != nil {
			return err
		}
	}
	return sc.Err()
}
