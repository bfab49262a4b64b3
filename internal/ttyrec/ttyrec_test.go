package ttyrec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"
)

func record(sec, usec uint32, data []byte) []byte {
	buf := make([]byte, headerSize+len(data))
	binary.LittleEndian.PutUint32(buf[0:4], sec)
	binary.LittleEndian.PutUint32(buf[4:8], usec)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(data)))
	copy(buf[headerSize:], data)
	return buf
}

func TestReaderDecode(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(record(100, 0, []byte("first")))
	stream.Write(record(100, 250, []byte("second")))
	stream.Write(record(102, 500000, []byte("third")))

	r := NewReader(&stream)

	want := []struct {
		offset uint64
		data   string
	}{
		{0, "first"},
		{250, "second"},
		{2500000, "third"},
	}
	for i, w := range want {
		f, err := r.Next()
		if err != nil {
			t.Fatalf("Next() frame %d error = %v", i, err)
		}
		if f.Offset != w.offset {
			t.Errorf("frame %d Offset = %d, want %d", i, f.Offset, w.offset)
		}
		if string(f.Data) != w.data {
			t.Errorf("frame %d Data = %q, want %q", i, f.Data, w.data)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("Next() after last frame = %v, want io.EOF", err)
	}
	if got, want := r.Epoch(), time.Unix(100, 0); !got.Equal(want) {
		t.Errorf("Epoch() = %v, want %v", got, want)
	}
}

func TestReaderByteOrder(t *testing.T) {
	// Hand-written little-endian header: sec=1, usec=2, len=1.
	stream := bytes.NewReader([]byte{
		0x01, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		'x',
	})
	f, err := NewReader(stream).Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(f.Data) != "x" {
		t.Errorf("Data = %q, want %q", f.Data, "x")
	}
}

func TestReaderZeroLengthTerminates(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(record(10, 0, []byte("a")))
	stream.Write(record(11, 0, nil)) // zero-length record ends the stream
	stream.Write(record(12, 0, []byte("ignored")))

	frames, _, err := ReadAll(&stream)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(frames))
	}
}

func TestReaderTruncatedHeader(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(record(10, 0, []byte("ok")))
	stream.Write([]byte{0x01, 0x02, 0x03}) // partial header

	r := NewReader(&stream)
	if _, err := r.Next(); err != nil {
		t.Fatalf("Next() first frame error = %v", err)
	}

	_, err := r.Next()
	var corrupt *CorruptError
	if !errors.As(err, &corrupt) {
		t.Fatalf("Next() error = %v, want *CorruptError", err)
	}
	if corrupt.Ordinal != 1 {
		t.Errorf("Ordinal = %d, want 1", corrupt.Ordinal)
	}
	if corrupt.Offset != headerSize+2 {
		t.Errorf("Offset = %d, want %d", corrupt.Offset, headerSize+2)
	}

	// The reader stays terminated afterwards.
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next() after corruption = %v, want io.EOF", err)
	}
}

func TestReaderTruncatedPayload(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(record(10, 0, []byte("ok")))
	full := record(11, 0, []byte("truncated"))
	stream.Write(full[:len(full)-4])

	frames, _, err := ReadAll(&stream)
	var corrupt *CorruptError
	if !errors.As(err, &corrupt) {
		t.Fatalf("ReadAll() error = %v, want *CorruptError", err)
	}
	if len(frames) != 1 {
		t.Errorf("valid prefix = %d frames, want 1", len(frames))
	}
	if string(frames[0].Data) != "ok" {
		t.Errorf("prefix Data = %q, want %q", frames[0].Data, "ok")
	}
}

func TestReaderOversizedLength(t *testing.T) {
	head := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(head[8:12], 1<<30)

	_, err := NewReader(bytes.NewReader(head)).Next()
	var corrupt *CorruptError
	if !errors.As(err, &corrupt) {
		t.Fatalf("Next() error = %v, want *CorruptError", err)
	}
}

func TestReaderClockSkew(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(record(100, 500000, []byte("a")))
	stream.Write(record(100, 0, []byte("b"))) // clock stepped back
	stream.Write(record(101, 0, []byte("c")))

	frames, _, err := ReadAll(&stream)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	offsets := []uint64{frames[0].Offset, frames[1].Offset, frames[2].Offset}
	if offsets[0] != 0 || offsets[1] != 0 {
		t.Errorf("offsets = %v, want skewed frame clamped to previous", offsets)
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			t.Errorf("offsets not monotonic: %v", offsets)
		}
	}
}

func TestReadAllEmpty(t *testing.T) {
	frames, epoch, err := ReadAll(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("frames = %d, want 0", len(frames))
	}
	if !epoch.IsZero() {
		t.Errorf("epoch = %v, want zero", epoch)
	}
}
