package charset

import (
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		samples [][]byte
		want    Encoding
	}{
		{
			name:    "plain ascii",
			samples: [][]byte{[]byte("ls -la\r\n"), []byte("\x1b[2Jtotal 4")},
			want:    ASCII,
		},
		{
			name:    "utf8 multibyte",
			samples: [][]byte{[]byte("héllo "), []byte("wörld")},
			want:    UTF8,
		},
		{
			name: "utf8 rune split across frames",
			samples: [][]byte{
				[]byte("abc\xc3"), // first byte of é
				[]byte("\xa9def"),
			},
			want: UTF8,
		},
		{
			name:    "utf8 truncated tail tolerated",
			samples: [][]byte{[]byte("abc\xe2\x94")}, // stream cut inside a rune
			want:    UTF8,
		},
		{
			name:    "cp437 box drawing",
			samples: [][]byte{{0xc9, 0xcd, 0xbb, 0x0a}},
			want:    CP437,
		},
		{
			name:    "empty",
			samples: nil,
			want:    ASCII,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.samples); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	for name, want := range map[string]Encoding{
		"utf8":   UTF8,
		"UTF-8":  UTF8,
		"cp437":  CP437,
		"IBM437": CP437,
		"ascii":  ASCII,
	} {
		got, err := Parse(name)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("Parse(%q) = %v, want %v", name, got, want)
		}
	}

	if _, err := Parse("latin9"); err == nil {
		t.Error("Parse(latin9) error = nil, want error")
	}
}

func TestDecoderCP437(t *testing.T) {
	dec := NewDecoder(CP437)
	got, err := dec.Bytes([]byte{0xc9, 0xcd, 0xbb})
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if string(got) != "╔═╗" {
		t.Errorf("decoded = %q, want %q", got, "╔═╗")
	}
}

func TestDecoderCP437KeepsEscapes(t *testing.T) {
	dec := NewDecoder(CP437)
	got, err := dec.Bytes([]byte("\x1b[1;1Hhi"))
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if string(got) != "\x1b[1;1Hhi" {
		t.Errorf("decoded = %q, escape sequence must pass through", got)
	}
}

func TestDecoderStreamingCarry(t *testing.T) {
	var out strings.Builder
	w := NewWriter(&out, UTF8)

	// é split across two writes, as adjacent frames produce it.
	if _, err := w.Write([]byte{0xc3}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := w.Write([]byte{0xa9}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if out.String() != "é" {
		t.Errorf("decoded = %q, want %q", out.String(), "é")
	}
}
