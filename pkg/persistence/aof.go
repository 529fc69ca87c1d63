package persistence

import (
	"bufio"
	"fmt"
	"os"
	"sync"
)

// AOFWriter appends to the engine's append-only log file. All methods are
// safe for concurrent use.
type AOFWriter struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
	path string
}

// NewAOFWriter opens or creates the log file at path.
func NewAOFWriter(path string) (*AOFWriter, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open aof: %w", err)
	}
	return &AOFWriter{
		file: file,
		buf:  bufio.NewWriter(file),
		path: path,
	}, nil
}

// WriteFrame appends one framed payload to the log.
func (a *AOFWriter) WriteFrame(payload []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return NewFrameWriter(a.buf).WriteFrame(payload)
}

// Flush pushes buffered frames to the file descriptor.
func (a *AOFWriter) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buf.Flush()
}

// Sync flushes and fsyncs.
func (a *AOFWriter) Sync() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.buf.Flush(); err != nil {
		return err
	}
	return a.file.Sync()
}

// Close flushes and closes the underlying file.
func (a *AOFWriter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.buf.Flush(); err != nil {
		_ = a.file.Close()
		return err
	}
	return a.file.Close()
}

// Truncate discards the log content. Called after a snapshot has captured
// the state the log described.
func (a *AOFWriter) Truncate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.buf.Reset(a.file)
	if err := a.file.Truncate(0); err != nil {
		return err
	}
	_, err := a.file.Seek(0, 0)
	return err
}

// Path returns the log file path.
func (a *AOFWriter) Path() string { return a.path }

// ReplaceWith atomically swaps the log for the rewritten file at newPath and
// reopens it for appending.
func (a *AOFWriter) ReplaceWith(newPath string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	_ = a.buf.Flush()
	_ = a.file.Close()

	if err := os.Rename(newPath, a.path); err != nil {
		return fmt.Errorf("replace aof: %w", err)
	}

	file, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o666)
	if err != nil {
		return fmt.Errorf("reopen aof: %w", err)
	}
	a.file = file
	a.buf.Reset(file)
	return nil
}
