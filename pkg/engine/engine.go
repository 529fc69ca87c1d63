// Package engine provides the embedded, durable interface to a temporal
// graph.
//
// It couples the in-memory store (pkg/temporal) with an append-only log and
// snapshot files (pkg/persistence, pkg/codec), yielding a thread-safe graph
// instance that survives restarts and can be used directly inside Go
// applications.
//
// Basic usage:
//
//	opts := engine.DefaultOptions("./data")
//	db, err := engine.Open(opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sanonone/dynagraph/pkg/persistence"
	"github.com/sanonone/dynagraph/pkg/temporal"
)

// ErrBadNodeID rejects node ids the line formats cannot carry.
var ErrBadNodeID = errors.New("engine: node id must be non-empty and contain no whitespace")

// store is the graph surface the engine drives. Both temporal.Graph and
// temporal.DiGraph (over string nodes and int64 timestamps) satisfy it.
type store interface {
	temporal.View[string, int64]
	AddNode(string)
	AddInteraction(u, v string, t int64) error
	AddInteractionSpan(u, v string, t, e int64) error
	RemoveInteraction(u, v string, t int64) error
	Apply(temporal.Event[string, int64]) error
	SnapshotAt(t int64) *temporal.Snapshot[string]
	HasInteraction(u, v string) bool
	Neighbors(string) []string
	Degree(string) int
	DegreeAt(string, int64) int
	Order() int
	OrderAt(int64) int
	Size() int
	SizeAt(int64) int
	NumberOfInteractions() int
	InteractionsPerSnapshots() map[int64]int
}

// Options configures the engine: persistence paths, maintenance policies and
// the shape of the underlying graph.
type Options struct {
	// DataDir is where the .aof and .snap files live. Created if missing.
	DataDir string

	// AofFilename names the append-only log (default "dynagraph.aof"). The
	// snapshot file is named after it with a .snap extension.
	AofFilename string

	// Directed selects a directed graph.
	Directed bool

	// AppendOnly disables interaction removal and bounded spans.
	AppendOnly bool

	// AutoSaveInterval is the minimum time between automatic snapshots.
	// Zero disables time-based auto-saving.
	AutoSaveInterval time.Duration

	// AutoSaveThreshold is the number of mutations that must accumulate
	// before an automatic snapshot. Zero disables count-based auto-saving.
	AutoSaveThreshold int64

	// AofRewritePercentage triggers log compaction when the log grows past
	// its post-load size by this percentage. Zero disables it.
	AofRewritePercentage int
}

// DefaultOptions returns a configuration suitable for most uses: undirected,
// removal enabled, snapshot every 60s after 1000 mutations, rewrite at 100%
// log growth.
func DefaultOptions(dataDir string) Options {
	return Options{
		DataDir:              dataDir,
		AofFilename:          "dynagraph.aof",
		AutoSaveInterval:     60 * time.Second,
		AutoSaveThreshold:    1000,
		AofRewritePercentage: 100,
	}
}

// Engine is the durable temporal graph instance. Open initializes it, Close
// shuts it down cleanly.
type Engine struct {
	opts     Options
	aofPath  string
	snapPath string

	// mu serializes access to the graph: the in-memory store is a plain
	// single-writer structure, the engine is its locking shell.
	mu sync.RWMutex
	g  store

	aof         *persistence.AOFWriter
	aofBaseSize int64

	dirtyCounter int64
	lastSaveTime time.Time

	// adminMu serializes snapshot and rewrite, which juggle files.
	adminMu sync.Mutex

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Open loads the snapshot file if present, replays the append-only log and
// starts the background maintenance goroutine. It blocks until the graph is
// fully loaded.
func Open(opts Options) (*Engine, error) {
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if opts.AofFilename == "" {
		opts.AofFilename = "dynagraph.aof"
	}

	aofPath := filepath.Join(opts.DataDir, opts.AofFilename)
	snapPath := strings.TrimSuffix(aofPath, filepath.Ext(aofPath)) + ".snap"

	e := &Engine{
		opts:         opts,
		aofPath:      aofPath,
		snapPath:     snapPath,
		g:            newStore(opts),
		lastSaveTime: time.Now(),
		closed:       make(chan struct{}),
	}

	if err := e.loadSnapshot(); err != nil {
		return nil, err
	}

	aof, err := persistence.NewAOFWriter(aofPath)
	if err != nil {
		return nil, err
	}
	e.aof = aof

	if err := e.replayAOF(); err != nil {
		e.aof.Close()
		return nil, fmt.Errorf("replay aof: %w", err)
	}

	if info, err := os.Stat(aofPath); err == nil {
		e.aofBaseSize = info.Size()
	}

	e.syncGauges()

	e.wg.Add(1)
	go e.backgroundTasks()

	return e, nil
}

func newStore(opts Options) store {
	switch {
	case opts.Directed && opts.AppendOnly:
		return temporal.NewAppendOnlyDiGraph[string, int64]()
	case opts.Directed:
		return temporal.NewDiGraph[string, int64]()
	case opts.AppendOnly:
		return temporal.NewAppendOnlyGraph[string, int64]()
	default:
		return temporal.NewGraph[string, int64]()
	}
}

// Directed reports the orientation of the underlying graph.
func (e *Engine) Directed() bool { return e.opts.Directed }

// Close stops the maintenance goroutine and closes the log. Safe to call
// more than once.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		close(e.closed)
		e.wg.Wait()
		if e.aof != nil {
			err = e.aof.Close()
		}
	})
	return err
}

func (e *Engine) backgroundTasks() {
	defer e.wg.Done()
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-e.closed:
			return
		case <-ticker.C:
			e.checkMaintenance()
		}
	}
}

// checkMaintenance evaluates the auto-save and log-rewrite policies.
func (e *Engine) checkMaintenance() {
	dirty := atomic.LoadInt64(&e.dirtyCounter)

	if e.opts.AutoSaveThreshold > 0 && e.opts.AutoSaveInterval > 0 {
		if dirty >= e.opts.AutoSaveThreshold && time.Since(e.lastSaveTime) >= e.opts.AutoSaveInterval {
			if err := e.SaveSnapshot(); err != nil {
				slog.Error("background snapshot failed", "error", err)
			}
		}
	}

	if err := e.aof.Flush(); err != nil {
		slog.Error("background aof flush failed", "error", err)
	}

	if e.opts.AofRewritePercentage > 0 && e.aofBaseSize > 0 {
		info, err := os.Stat(e.aofPath)
		if err == nil {
			threshold := e.aofBaseSize + e.aofBaseSize*int64(e.opts.AofRewritePercentage)/100
			// Keep a floor so tiny logs are not rewritten constantly.
			if threshold < 1024*1024 {
				threshold = 1024 * 1024
			}
			if info.Size() > threshold {
				if err := e.RewriteAOF(); err != nil {
					slog.Error("background aof rewrite failed", "error", err)
				}
			}
		}
	}
}

func validNodeID(id string) bool {
	return id != "" && !strings.ContainsAny(id, " \t\r\n")
}
