// Package charset classifies the character encoding of a recording and
// builds streaming decoders for feeding its payload to a UTF-8 terminal.
// Recordings do not store their encoding, so unless the user names one we
// probe in the order utf8, cp437, ascii.
package charset

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding identifies a supported payload encoding.
type Encoding int

const (
	UTF8 Encoding = iota
	CP437
	ASCII
)

func (e Encoding) String() string {
	switch e {
	case CP437:
		return "cp437"
	case ASCII:
		return "ascii"
	default:
		return "utf8"
	}
}

// Parse maps a user-supplied encoding name to an Encoding.
func Parse(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf8", "utf-8":
		return UTF8, nil
	case "cp437", "ibm437", "437":
		return CP437, nil
	case "ascii":
		return ASCII, nil
	default:
		return UTF8, fmt.Errorf("unsupported encoding %q (want utf8, cp437, or ascii)", name)
	}
}

// Detect classifies sample payloads, treated as one contiguous stream:
// multi-byte runes may split across sample boundaries (recorders flush
// mid-rune routinely). Pure ASCII wins, then valid UTF-8; anything else is
// taken as cp437, which accepts every byte value. A stream that ends inside
// a rune still counts as UTF-8: truncated recordings cut anywhere.
func Detect(samples [][]byte) Encoding {
	ascii := true
	validUTF8 := true
	var carry []byte

	for _, s := range samples {
		if !validUTF8 {
			break
		}
		b := s
		if len(carry) > 0 {
			b = append(append([]byte(nil), carry...), s...)
			carry = nil
		}
		for i := 0; i < len(b); {
			if b[i] < utf8.RuneSelf {
				i++
				continue
			}
			ascii = false
			r, size := utf8.DecodeRune(b[i:])
			if r == utf8.RuneError && size <= 1 {
				if !utf8.FullRune(b[i:]) && len(b)-i < utf8.UTFMax {
					carry = append([]byte(nil), b[i:]...)
					break
				}
				validUTF8 = false
				break
			}
			i += size
		}
	}

	switch {
	case ascii:
		return ASCII
	case validUTF8:
		return UTF8
	default:
		return CP437
	}
}

// NewDecoder returns a decoder to UTF-8 for the given encoding. Invalid
// input decodes to U+FFFD rather than failing.
func NewDecoder(e Encoding) *encoding.Decoder {
	switch e {
	case CP437:
		return charmap.CodePage437.NewDecoder()
	default:
		// ASCII is a UTF-8 subset; one decoder serves both.
		return unicode.UTF8.NewDecoder()
	}
}

// NewWriter wraps w so that writes are decoded from e to UTF-8. The writer
// is stateful: bytes of a rune split across writes carry over to the next
// write instead of being replaced.
func NewWriter(w io.Writer, e Encoding) io.WriteCloser {
	return transform.NewWriter(w, NewDecoder(e))
}
