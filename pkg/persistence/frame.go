// Package persistence provides the append-only log primitives the durable
// graph engine builds on: a mutex-guarded buffered file writer and a binary
// frame codec that makes torn or corrupted log tails detectable.
package persistence

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
)

const (
	// MagicByte marks the start of a frame, so a scan can tell a valid log
	// from garbage.
	MagicByte = 0xA7

	// HeaderSize is Magic(1) + OpCode(1) + Length(4) + CRC32(4).
	HeaderSize = 10

	// OpCodeCommand tags a frame whose payload is a protocol command line.
	OpCodeCommand = 0x01
)

var (
	// ErrInvalidMagic indicates the stream is out of sync or not a log file.
	ErrInvalidMagic = errors.New("invalid magic byte")
	// ErrChecksumMismatch indicates payload corruption.
	ErrChecksumMismatch = errors.New("crc32 checksum mismatch")
	// ErrIncompleteFrame indicates the file ends mid-frame, typically a torn
	// write from a crash.
	ErrIncompleteFrame = errors.New("incomplete frame")
)

// FrameWriter encodes payloads as [Magic][OpCode][Length][CRC32][Payload]
// frames on an io.Writer. Wrap the target in a bufio.Writer so header and
// payload land in one write.
type FrameWriter struct {
	w io.Writer
}

// NewFrameWriter wraps w.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteFrame writes one command frame carrying payload.
func (fw *FrameWriter) WriteFrame(payload []byte) error {
	header := make([]byte, HeaderSize)
	header[0] = MagicByte
	header[1] = OpCodeCommand
	binary.LittleEndian.PutUint32(header[2:6], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[6:10], crc32.ChecksumIEEE(payload))

	if _, err := fw.w.Write(header); err != nil {
		return err
	}
	_, err := fw.w.Write(payload)
	return err
}

// ReadFrame reads and validates the next frame, returning the payload and
// the total bytes consumed. A clean EOF on a frame boundary is reported as
// io.EOF; a partial header or short payload as ErrIncompleteFrame.
func ReadFrame(r io.Reader) ([]byte, int, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.EOF {
			return nil, 0, io.EOF
		}
		return nil, 0, ErrIncompleteFrame
	}

	if header[0] != MagicByte {
		return nil, HeaderSize, ErrInvalidMagic
	}

	length := binary.LittleEndian.Uint32(header[2:6])
	wantCRC := binary.LittleEndian.Uint32(header[6:10])

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, HeaderSize, ErrIncompleteFrame
	}

	if crc32.ChecksumIEEE(payload) != wantCRC {
		return nil, HeaderSize + int(length), ErrChecksumMismatch
	}
	return payload, HeaderSize + int(length), nil
}
