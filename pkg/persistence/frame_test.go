package persistence

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf)

	payloads := [][]byte{
		[]byte("TADD a b 0"),
		[]byte("TDEL a b 5"),
		{}, // empty payload is a valid frame
	}
	for _, p := range payloads {
		if err := fw.WriteFrame(p); err != nil {
			t.Fatalf("WriteFrame(%q): %v", p, err)
		}
	}

	r := bytes.NewReader(buf.Bytes())
	for _, want := range payloads {
		got, n, err := ReadFrame(r)
		if err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("payload = %q, want %q", got, want)
		}
		if n != HeaderSize+len(want) {
			t.Fatalf("consumed %d bytes, want %d", n, HeaderSize+len(want))
		}
	}
	if _, _, err := ReadFrame(r); err != io.EOF {
		t.Fatalf("end of stream: got %v, want io.EOF", err)
	}
}

func TestReadFrameDetectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFrameWriter(&buf).WriteFrame([]byte("TADD a b 0")); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()

	// Flip a payload byte: checksum must catch it.
	flipped := append([]byte(nil), raw...)
	flipped[HeaderSize] ^= 0xFF
	if _, _, err := ReadFrame(bytes.NewReader(flipped)); !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("payload corruption: got %v, want ErrChecksumMismatch", err)
	}

	// Break the magic byte.
	bad := append([]byte(nil), raw...)
	bad[0] = 0x00
	if _, _, err := ReadFrame(bytes.NewReader(bad)); !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("bad magic: got %v, want ErrInvalidMagic", err)
	}

	// Truncate mid-payload: a torn write.
	if _, _, err := ReadFrame(bytes.NewReader(raw[:len(raw)-3])); !errors.Is(err, ErrIncompleteFrame) {
		t.Fatalf("torn payload: got %v, want ErrIncompleteFrame", err)
	}

	// Truncate mid-header.
	if _, _, err := ReadFrame(bytes.NewReader(raw[:4])); !errors.Is(err, ErrIncompleteFrame) {
		t.Fatalf("torn header: got %v, want ErrIncompleteFrame", err)
	}
}

func TestAOFWriterAppendAndTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.aof")
	w, err := NewAOFWriter(path)
	if err != nil {
		t.Fatalf("NewAOFWriter: %v", err)
	}
	defer w.Close()

	if err := w.WriteFrame([]byte("TADD a b 0")); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFrame([]byte("TADD b c 1")); err != nil {
		t.Fatal(err)
	}
	if err := w.Sync(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	count := 0
	for {
		_, _, err := ReadFrame(f)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		count++
	}
	if count != 2 {
		t.Fatalf("log holds %d frames, want 2", count)
	}

	if err := w.Truncate(); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Fatalf("truncated log is %d bytes, want 0", info.Size())
	}
}

func TestAOFWriterReplaceWith(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.aof")
	w, err := NewAOFWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.WriteFrame([]byte("OLD")); err != nil {
		t.Fatal(err)
	}
	if err := w.Sync(); err != nil {
		t.Fatal(err)
	}

	rewritten := filepath.Join(dir, "graph.aof.rewrite")
	nf, err := os.Create(rewritten)
	if err != nil {
		t.Fatal(err)
	}
	if err := NewFrameWriter(nf).WriteFrame([]byte("NEW")); err != nil {
		t.Fatal(err)
	}
	if err := nf.Close(); err != nil {
		t.Fatal(err)
	}

	if err := w.ReplaceWith(rewritten); err != nil {
		t.Fatalf("ReplaceWith: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	payload, _, err := ReadFrame(f)
	if err != nil {
		t.Fatalf("ReadFrame after replace: %v", err)
	}
	if string(payload) != "NEW" {
		t.Fatalf("payload = %q, want NEW", payload)
	}
	if _, _, err := ReadFrame(f); err != io.EOF {
		t.Fatalf("replaced log must hold a single frame, got %v", err)
	}
}
