// Package ttyrec decodes the classic ttyrec wire format: a sequence of
// records, each a 12-byte little-endian header (seconds, microseconds,
// payload length) followed by that many bytes of raw terminal output.
package ttyrec

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

const headerSize = 12

// maxPayload rejects headers whose declared length is beyond anything a
// real recorder produces, so a corrupt header cannot trigger a huge
// allocation before the truncation check runs.
const maxPayload = 1 << 26

// RawFrame is one decoded record. Offset is microseconds since the start
// of the recording, re-based from the absolute timestamps in the file.
type RawFrame struct {
	Offset uint64
	Data   []byte
}

// CorruptError reports a malformed or truncated record. Frames decoded
// before the failure remain valid; callers are expected to keep them.
type CorruptError struct {
	Offset  int64 // byte offset into the stream where decoding failed
	Ordinal int   // zero-based index of the record that failed
	Err     error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt recording at byte %d (record %d): %v", e.Offset, e.Ordinal, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Reader decodes records from a byte stream. It is forward-only: restarting
// requires reopening the underlying source.
type Reader struct {
	r    io.Reader
	head [headerSize]byte

	pos     int64
	ordinal int

	epoch    time.Time
	hasEpoch bool
	lastOff  uint64

	done bool
}

// NewReader returns a Reader decoding from r. The reader is agnostic to the
// underlying transport; wrap decompression around r before handing it over.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next frame. It returns io.EOF at a clean end of stream
// (including a zero-length record, which recorders emit as a terminator),
// or a *CorruptError when a header or payload is cut short. After any
// error the reader stays terminated.
func (r *Reader) Next() (RawFrame, error) {
	if r.done {
		return RawFrame{}, io.EOF
	}
	if _, err := io.ReadFull(r.r, r.head[:]); err != nil {
		r.done = true
		if err == io.EOF {
			return RawFrame{}, io.EOF
		}
		return RawFrame{}, &CorruptError{
			Offset:  r.pos,
			Ordinal: r.ordinal,
			Err:     fmt.Errorf("truncated header: %w", err),
		}
	}

	sec := binary.LittleEndian.Uint32(r.head[0:4])
	usec := binary.LittleEndian.Uint32(r.head[4:8])
	length := binary.LittleEndian.Uint32(r.head[8:12])

	if length == 0 {
		r.done = true
		return RawFrame{}, io.EOF
	}
	if length > maxPayload {
		r.done = true
		return RawFrame{}, &CorruptError{
			Offset:  r.pos,
			Ordinal: r.ordinal,
			Err:     fmt.Errorf("payload length %d exceeds %d limit", length, maxPayload),
		}
	}
	r.pos += headerSize

	data := make([]byte, length)
	if _, err := io.ReadFull(r.r, data); err != nil {
		r.done = true
		return RawFrame{}, &CorruptError{
			Offset:  r.pos,
			Ordinal: r.ordinal,
			Err:     fmt.Errorf("truncated payload (want %d bytes): %w", length, err),
		}
	}
	r.pos += int64(length)

	ts := time.Unix(int64(sec), int64(usec)*1000)
	if !r.hasEpoch {
		r.epoch = ts
		r.hasEpoch = true
	}
	var off uint64
	if d := ts.Sub(r.epoch); d > 0 {
		off = uint64(d.Microseconds())
	}
	// Recordings taken while the system clock stepped backwards would
	// otherwise yield out-of-order offsets.
	if off < r.lastOff {
		off = r.lastOff
	}
	r.lastOff = off
	r.ordinal++

	return RawFrame{Offset: off, Data: data}, nil
}

// Epoch returns the absolute wall-clock time of the first frame. Zero until
// the first frame has been decoded.
func (r *Reader) Epoch() time.Time {
	return r.epoch
}

// BytesRead returns how many bytes of the stream decoded cleanly so far.
func (r *Reader) BytesRead() int64 {
	return r.pos
}

// ReadAll decodes frames until end of stream. On a corrupt record it
// returns every frame decoded before the failure alongside the error, so
// callers can degrade to playing the valid prefix.
func ReadAll(src io.Reader) ([]RawFrame, time.Time, error) {
	r := NewReader(src)
	var frames []RawFrame
	for {
		f, err := r.Next()
		if err == io.EOF {
			return frames, r.Epoch(), nil
		}
		if err != nil {
			return frames, r.Epoch(), err
		}
		frames = append(frames, f)
	}
}
