package engine

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/sanonone/dynagraph/internal/protocol"
	"github.com/sanonone/dynagraph/pkg/codec"
	"github.com/sanonone/dynagraph/pkg/persistence"
	"github.com/sanonone/dynagraph/pkg/temporal"
)

// loadSnapshot restores the graph from the snapshot file, if one exists. The
// file holds the interaction line format, so loading is a stream replay.
func (e *Engine) loadSnapshot() error {
	f, err := os.Open(e.snapPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	return codec.ReadInteractions[string, int64](f, e.g, codec.ParseString, codec.ParseInt64)
}

// replayAOF applies the framed commands of the append-only log to the
// in-memory graph. A torn or corrupted tail ends the replay with a warning:
// everything before it is intact thanks to the per-frame checksum.
func (e *Engine) replayAOF() error {
	f, err := os.Open(e.aofPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		payload, _, err := persistence.ReadFrame(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			slog.Warn("aof replay stopped at damaged tail", "error", err)
			return nil
		}

		cmd, err := protocol.Parse(string(payload))
		if err != nil {
			slog.Warn("aof replay skipped unparsable command", "error", err)
			continue
		}
		if err := e.applyCommand(cmd); err != nil {
			slog.Warn("aof replay skipped failing command", "command", cmd.Name, "error", err)
		}
	}
}

// applyCommand executes one log command against the in-memory graph.
func (e *Engine) applyCommand(cmd *protocol.Command) error {
	switch cmd.Name {
	case "NODE":
		if len(cmd.Args) != 1 {
			return errors.New("NODE wants 1 argument")
		}
		e.g.AddNode(cmd.ArgString(0))
		return nil
	case "TADD":
		if len(cmd.Args) != 3 && len(cmd.Args) != 4 {
			return errors.New("TADD wants 3 or 4 arguments")
		}
		t, err := strconv.ParseInt(cmd.ArgString(2), 10, 64)
		if err != nil {
			return err
		}
		if len(cmd.Args) == 3 {
			return e.g.AddInteraction(cmd.ArgString(0), cmd.ArgString(1), t)
		}
		end, err := strconv.ParseInt(cmd.ArgString(3), 10, 64)
		if err != nil {
			return err
		}
		return e.g.AddInteractionSpan(cmd.ArgString(0), cmd.ArgString(1), t, end)
	case "TDEL":
		if len(cmd.Args) != 3 {
			return errors.New("TDEL wants 3 arguments")
		}
		t, err := strconv.ParseInt(cmd.ArgString(2), 10, 64)
		if err != nil {
			return err
		}
		return e.g.RemoveInteraction(cmd.ArgString(0), cmd.ArgString(1), t)
	default:
		return errors.New("unknown command " + cmd.Name)
	}
}

// SaveSnapshot writes the current state to the snapshot file (tmp + rename)
// and truncates the log. Isolated nodes are not expressible in the snapshot
// line format, so they are re-logged into the fresh AOF.
func (e *Engine) SaveSnapshot() error {
	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	e.mu.RLock()
	defer e.mu.RUnlock()

	tmp := e.snapPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := codec.WriteInteractions[string, int64](f, e.g); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, e.snapPath); err != nil {
		return err
	}

	if err := e.aof.Truncate(); err != nil {
		return err
	}
	for _, n := range e.isolatedNodes() {
		if err := e.aof.WriteFrame([]byte("NODE " + n)); err != nil {
			return err
		}
	}
	if err := e.aof.Sync(); err != nil {
		return err
	}

	atomic.StoreInt64(&e.dirtyCounter, 0)
	e.lastSaveTime = time.Now()
	return nil
}

// RewriteAOF compacts the log: the coalesced event stream replaces the raw
// mutation history, through an atomic file swap.
func (e *Engine) RewriteAOF() error {
	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	e.mu.RLock()
	defer e.mu.RUnlock()

	tmp := e.aofPath + ".rewrite"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	bw := bufio.NewWriter(f)
	fw := persistence.NewFrameWriter(bw)
	for _, n := range e.isolatedNodes() {
		if err := fw.WriteFrame([]byte("NODE " + n)); err != nil {
			f.Close()
			return err
		}
	}
	for ev := range e.g.StreamInteractions() {
		name := "TADD"
		if ev.Op == temporal.OpDelete {
			name = "TDEL"
		}
		line := name + " " + ev.U + " " + ev.V + " " + strconv.FormatInt(ev.T, 10)
		if err := fw.WriteFrame([]byte(line)); err != nil {
			f.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if err := e.aof.ReplaceWith(tmp); err != nil {
		return err
	}
	if info, err := os.Stat(e.aofPath); err == nil {
		e.aofBaseSize = info.Size()
	}
	return nil
}

// isolatedNodes lists the nodes with no interaction record. Callers hold at
// least the read lock.
func (e *Engine) isolatedNodes() []string {
	var out []string
	for _, n := range e.g.Nodes() {
		if e.g.Degree(n) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// ExportInteractions streams the interaction line format of the graph to w.
func (e *Engine) ExportInteractions(w io.Writer) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return codec.WriteInteractions[string, int64](w, e.g)
}

// engineApplier funnels imported events through the engine mutation path, so
// each one is validated, logged and counted.
type engineApplier struct{ e *Engine }

func (a engineApplier) Apply(ev temporal.Event[string, int64]) error {
	switch ev.Op {
	case temporal.OpInsert:
		return a.e.AddInteraction(ev.U, ev.V, ev.T)
	case temporal.OpDelete:
		return a.e.RemoveInteraction(ev.U, ev.V, ev.T)
	default:
		return temporal.ErrUnsupportedOperation
	}
}

// ImportInteractions bulk-loads interaction-format lines from r.
func (e *Engine) ImportInteractions(r io.Reader) error {
	return codec.ReadInteractions[string, int64](r, engineApplier{e}, codec.ParseString, codec.ParseInt64)
}
