// Package emu adapts a headless vt10x terminal to the playback engine.
// Frame payloads stream through a charset decoder into the emulator, and
// the full screen state round-trips through zstd-compressed ANSI
// snapshots so seeks can restore instead of replaying.
package emu

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/hinshun/vt10x"
	"github.com/klauspost/compress/zstd"

	"github.com/ttyrew/ttyrew/internal/charset"
)

// Terminal drives a vt10x screen with decoded recording payloads.
// Not safe for concurrent use.
type Terminal struct {
	vt   vt10x.Terminal
	enc  charset.Encoding
	cols int
	rows int

	// carry holds the undecoded tail of the previous payload when a
	// UTF-8 rune splits across frames. It belongs to the stream
	// position, so snapshots include it.
	carry []byte

	zenc *zstd.Encoder
	zdec *zstd.Decoder
}

// New returns a blank terminal of the given geometry decoding payloads
// from enc.
func New(cols, rows int, enc charset.Encoding) (*Terminal, error) {
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("terminal geometry %dx%d out of range", cols, rows)
	}
	zenc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("init zstd encoder: %w", err)
	}
	zdec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("init zstd decoder: %w", err)
	}
	return &Terminal{
		vt:   vt10x.New(vt10x.WithSize(cols, rows)),
		enc:  enc,
		cols: cols,
		rows: rows,
		zenc: zenc,
		zdec: zdec,
	}, nil
}

// Close releases compressor resources. The terminal is unusable after.
func (t *Terminal) Close() error {
	t.zdec.Close()
	return t.zenc.Close()
}

// Size returns the emulator geometry.
func (t *Terminal) Size() (cols, rows int) {
	return t.cols, t.rows
}

// Encoding returns the payload encoding being decoded.
func (t *Terminal) Encoding() charset.Encoding {
	return t.enc
}

// Apply feeds one frame's payload through the charset decoder into the
// emulator. A payload ending mid-rune carries its tail into the next
// Apply rather than emitting a replacement character.
func (t *Terminal) Apply(data []byte) error {
	b := data
	if len(t.carry) > 0 {
		b = append(append([]byte(nil), t.carry...), data...)
		t.carry = nil
	}
	if t.enc == charset.UTF8 {
		if cut := completeRunes(b); cut < len(b) {
			t.carry = append([]byte(nil), b[cut:]...)
			b = b[:cut]
		}
	}
	if len(b) == 0 {
		return nil
	}
	decoded, err := charset.NewDecoder(t.enc).Bytes(b)
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if _, err := t.vt.Write(decoded); err != nil {
		return fmt.Errorf("terminal write: %w", err)
	}
	return nil
}

// completeRunes returns the length of the longest prefix of b that does
// not end inside a multi-byte UTF-8 sequence.
func completeRunes(b []byte) int {
	for back := 1; back <= utf8.UTFMax && back <= len(b); back++ {
		i := len(b) - back
		c := b[i]
		if c < utf8.RuneSelf {
			return len(b)
		}
		if c&0xc0 == 0x80 {
			// Continuation byte, keep walking to the lead.
			continue
		}
		if !utf8.FullRune(b[i:]) {
			return i
		}
		return len(b)
	}
	return len(b)
}

// Reset clears the terminal to its initial blank state and drops any
// carried partial rune. A fresh emulator instance guarantees no mode or
// attribute state survives.
func (t *Terminal) Reset() {
	t.vt = vt10x.New(vt10x.WithSize(t.cols, t.rows))
	t.carry = nil
}

// Snapshot captures the screen as a compressed, self-contained token:
// an ANSI program that recreates every cell, the cursor, and the
// decoder carry.
func (t *Terminal) Snapshot() ([]byte, error) {
	if len(t.carry) > utf8.UTFMax {
		return nil, fmt.Errorf("decoder carry %d bytes, want at most %d", len(t.carry), utf8.UTFMax)
	}
	var buf bytes.Buffer
	buf.WriteByte(byte(len(t.carry)))
	buf.Write(t.carry)
	t.renderProgram(&buf)
	return t.zenc.EncodeAll(buf.Bytes(), nil), nil
}

// Restore rewinds the terminal to a token captured by Snapshot.
func (t *Terminal) Restore(token []byte) error {
	raw, err := t.zdec.DecodeAll(token, nil)
	if err != nil {
		return fmt.Errorf("decompress snapshot: %w", err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("empty snapshot token")
	}
	n := int(raw[0])
	if len(raw) < 1+n {
		return fmt.Errorf("snapshot token truncated")
	}
	t.Reset()
	t.carry = append([]byte(nil), raw[1:1+n]...)
	if _, err := t.vt.Write(raw[1+n:]); err != nil {
		return fmt.Errorf("replay snapshot: %w", err)
	}
	return nil
}

// renderProgram writes an ANSI sequence that recreates the current
// screen on a blank terminal of the same geometry. Attribute changes are
// emitted only when a cell differs from its predecessor.
func (t *Terminal) renderProgram(buf *bytes.Buffer) {
	buf.WriteString("\x1b[2J\x1b[H")
	lastFG, lastBG := vt10x.DefaultFG, vt10x.DefaultBG
	for row := 0; row < t.rows; row++ {
		for col := 0; col < t.cols; col++ {
			cell := t.vt.Cell(col, row)
			if cell.FG != lastFG || cell.BG != lastBG {
				buf.WriteString("\x1b[0m")
				if cell.FG != vt10x.DefaultFG && cell.FG < 256 {
					fmt.Fprintf(buf, "\x1b[38;5;%dm", cell.FG)
				}
				if cell.BG != vt10x.DefaultBG && cell.BG < 256 {
					fmt.Fprintf(buf, "\x1b[48;5;%dm", cell.BG)
				}
				lastFG, lastBG = cell.FG, cell.BG
			}
			if cell.Char == 0 {
				buf.WriteByte(' ')
			} else {
				buf.WriteRune(cell.Char)
			}
		}
		if row < t.rows-1 {
			buf.WriteString("\r\n")
		}
	}
	buf.WriteString("\x1b[0m")

	cursor := t.vt.Cursor()
	fmt.Fprintf(buf, "\x1b[%d;%dH", cursor.Y+1, cursor.X+1)
	if !t.vt.CursorVisible() {
		buf.WriteString("\x1b[?25l")
	} else {
		buf.WriteString("\x1b[?25h")
	}
}
