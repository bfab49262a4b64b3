package timeline

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ttyrew/ttyrew/internal/ttyrec"
)

func raw(off uint64, data string) ttyrec.RawFrame {
	return ttyrec.RawFrame{Offset: off, Data: []byte(data)}
}

func TestBuildMergesBursts(t *testing.T) {
	raws := []ttyrec.RawFrame{raw(0, "A"), raw(50, "B"), raw(2_000_000, "C")}

	tl, err := Build(raws, Options{Timestep: 100, Timecap: 1_000_000})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := tl.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	first := tl.Frame(0)
	if first.Start != 0 || first.Dur != 50 || string(first.Data) != "AB" {
		t.Errorf("Frame(0) = {%d %d %q}, want {0 50 \"AB\"}", first.Start, first.Dur, first.Data)
	}
	second := tl.Frame(1)
	if second.Start != 2_000_000 || second.Dur != 1_999_950 || string(second.Data) != "C" {
		t.Errorf("Frame(1) = {%d %d %q}, want {2000000 1999950 \"C\"}", second.Start, second.Dur, second.Data)
	}

	if got := tl.Due(0); got != 50 {
		t.Errorf("Due(0) = %d, want 50", got)
	}
	if got := tl.Due(1); got != 2_000_000 {
		t.Errorf("Due(1) = %d, want 2000000", got)
	}
	if got := tl.Duration(); got != 2_000_000 {
		t.Errorf("Duration() = %d, want 2000000", got)
	}
}

func TestBuildAccumulatedDelayClosesBurst(t *testing.T) {
	// Delays of 60+60 exceed a 100µs window even though each gap alone
	// is below it, so the third record starts a new frame.
	raws := []ttyrec.RawFrame{raw(0, "a"), raw(60, "b"), raw(120, "c")}

	tl, err := Build(raws, Options{Timestep: 100, Timecap: 1_000_000})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := tl.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if got := string(tl.Frame(0).Data); got != "ab" {
		t.Errorf("Frame(0).Data = %q, want \"ab\"", got)
	}
	if got := string(tl.Frame(1).Data); got != "c" {
		t.Errorf("Frame(1).Data = %q, want \"c\"", got)
	}
}

func TestBuildZeroTimestepKeepsBoundaries(t *testing.T) {
	raws := []ttyrec.RawFrame{raw(0, "A"), raw(50, "B"), raw(2_000_000, "C")}

	tl, err := Build(raws, Options{Timestep: 0, Timecap: 1_000_000})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := tl.Len(); got != len(raws) {
		t.Fatalf("Len() = %d, want %d", got, len(raws))
	}
	for i, r := range raws {
		f := tl.Frame(i)
		if f.Start != r.Offset {
			t.Errorf("Frame(%d).Start = %d, want %d", i, f.Start, r.Offset)
		}
		if !bytes.Equal(f.Data, r.Data) {
			t.Errorf("Frame(%d).Data = %q, want %q", i, f.Data, r.Data)
		}
	}
}

func TestBuildPreservesPayloadBytes(t *testing.T) {
	raws := []ttyrec.RawFrame{
		raw(0, "ls -l\r\n"),
		raw(30, "total 4\r\n"),
		raw(90, "drwxr-xr-x"),
		raw(450_000, "\x1b[2Jcleared"),
		raw(5_000_000, "done\r\n"),
	}
	var want bytes.Buffer
	for _, r := range raws {
		want.Write(r.Data)
	}

	for _, timestep := range []uint64{0, 100, 10_000, 1 << 40} {
		tl, err := Build(raws, Options{Timestep: timestep, Timecap: 1_000_000, CapEnabled: true})
		if err != nil {
			t.Fatalf("Build(timestep=%d) error = %v", timestep, err)
		}
		var got bytes.Buffer
		for i := 0; i < tl.Len(); i++ {
			got.Write(tl.Frame(i).Data)
		}
		if !bytes.Equal(got.Bytes(), want.Bytes()) {
			t.Errorf("timestep=%d: concatenated payloads = %q, want %q", timestep, got.Bytes(), want.Bytes())
		}
		for i := 1; i < tl.Len(); i++ {
			if tl.Frame(i).Start < tl.Frame(i-1).Start {
				t.Errorf("timestep=%d: Frame(%d).Start = %d decreases below %d", timestep, i, tl.Frame(i).Start, tl.Frame(i-1).Start)
			}
			if tl.Due(i) < tl.Due(i-1) {
				t.Errorf("timestep=%d: Due(%d) = %d decreases below %d", timestep, i, tl.Due(i), tl.Due(i-1))
			}
		}
	}
}

func TestWithTimecap(t *testing.T) {
	raws := []ttyrec.RawFrame{raw(0, "A"), raw(50, "B"), raw(2_000_000, "C")}
	tl, err := Build(raws, Options{Timestep: 100, Timecap: 1_000_000})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	capped := tl.WithTimecap(true)
	if got := capped.EffDur(1); got != 1_000_000 {
		t.Errorf("capped EffDur(1) = %d, want 1000000", got)
	}
	if got := capped.Due(1); got != 1_000_050 {
		t.Errorf("capped Due(1) = %d, want 1000050", got)
	}
	if got := string(capped.Frame(1).Data); got != "C" {
		t.Errorf("capped Frame(1).Data = %q, want \"C\"", got)
	}
	if got := capped.Frame(1).Dur; got != 1_999_950 {
		t.Errorf("capped Frame(1).Dur = %d, want raw 1999950", got)
	}
	if got := capped.RawDuration(); got != tl.RawDuration() {
		t.Errorf("capped RawDuration() = %d, want %d", got, tl.RawDuration())
	}

	// Frame ordinals survive the toggle, so anything keyed by them does too.
	if capped.Len() != tl.Len() {
		t.Fatalf("capped Len() = %d, want %d", capped.Len(), tl.Len())
	}

	back := capped.WithTimecap(false)
	if got := back.Due(1); got != tl.Due(1) {
		t.Errorf("round-trip Due(1) = %d, want %d", got, tl.Due(1))
	}

	// Toggling to the current state is a no-op.
	if same := capped.WithTimecap(true); same != capped {
		t.Error("WithTimecap(true) on a capped timeline returned a new value")
	}
}

func TestIndexAtTime(t *testing.T) {
	raws := []ttyrec.RawFrame{raw(0, "A"), raw(50, "B"), raw(2_000_000, "C")}
	tl, err := Build(raws, Options{Timestep: 100, Timecap: 1_000_000})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// Due times: frame 0 at 50, frame 1 at 2_000_000.
	tests := []struct {
		us   uint64
		want int
	}{
		{0, -1},
		{49, -1},
		{50, 0},
		{51, 0},
		{1_999_999, 0},
		{2_000_000, 1},
		{9_000_000, 1},
	}
	for _, tt := range tests {
		if got := tl.IndexAtTime(tt.us); got != tt.want {
			t.Errorf("IndexAtTime(%d) = %d, want %d", tt.us, got, tt.want)
		}
	}
}

func TestBuildRejectsZeroTimecap(t *testing.T) {
	_, err := Build([]ttyrec.RawFrame{raw(0, "A")}, Options{Timestep: 100})
	if !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("Build() error = %v, want ErrInvalidPolicy", err)
	}
}

func TestBuildEmpty(t *testing.T) {
	tl, err := Build(nil, Options{Timestep: 100, Timecap: 1_000_000})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := tl.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
	if got := tl.Duration(); got != 0 {
		t.Errorf("Duration() = %d, want 0", got)
	}
	if got := tl.IndexAtTime(0); got != -1 {
		t.Errorf("IndexAtTime(0) = %d, want -1", got)
	}
}

func TestBuildSingleFrame(t *testing.T) {
	tl, err := Build([]ttyrec.RawFrame{raw(0, "solo")}, Options{Timestep: 100, Timecap: 1_000_000})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := tl.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	if got := tl.Frame(0).Dur; got != 0 {
		t.Errorf("Frame(0).Dur = %d, want 0", got)
	}
	if got := tl.Duration(); got != 0 {
		t.Errorf("Duration() = %d, want 0", got)
	}
	if got := tl.IndexAtTime(0); got != 0 {
		t.Errorf("IndexAtTime(0) = %d, want 0", got)
	}
}
