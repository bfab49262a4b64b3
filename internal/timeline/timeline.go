// Package timeline normalizes decoded recording frames into an immutable,
// randomly-indexable playback timeline. Two policies shape it: timestep
// merges bursts of near-simultaneous frames into one, and timecap bounds
// how long any idle gap stalls playback. Payload bytes are never dropped
// or reordered by either pass.
package timeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ttyrew/ttyrew/internal/ttyrec"
)

// ErrInvalidPolicy marks policy parameters no timeline can be built from.
var ErrInvalidPolicy = errors.New("invalid timeline policy")

// Frame is one playable unit.
//
// Start is the raw recording offset (µs) of the first record merged into
// this frame; it anchors wall-clock display and never changes under any
// policy. Dur is the uncapped delay (µs) between the previous frame and
// this one becoming visible; the first frame's delay is zero.
type Frame struct {
	Start uint64
	Dur   uint64
	Data  []byte
}

// Options are the normalization policies.
type Options struct {
	// Timestep is the merge threshold in µs: consecutive records whose
	// accumulated delay stays below it collapse into one frame. Zero
	// disables merging.
	Timestep uint64
	// Timecap is the ceiling in µs applied to each frame's effective
	// delay while capping is enabled. Must be positive.
	Timecap uint64
	// CapEnabled applies Timecap to the scheduling and time-seek axis.
	CapEnabled bool
}

// Timeline is the navigable form of a recording. Immutable once built;
// toggling the cap policy produces a new Timeline sharing the same frames
// (see WithTimecap), so frame ordinals — and anything keyed by them —
// stay valid.
type Timeline struct {
	frames []Frame
	opts   Options

	// due[i] is the effective (capped) time at which frame i appears,
	// a strictly cumulative prefix sum of effective delays. It is both
	// the scheduler's clock and the time-seek index.
	due []uint64
}

// Build consumes the raw frame sequence once and produces a Timeline.
func Build(raws []ttyrec.RawFrame, opts Options) (*Timeline, error) {
	if opts.Timecap == 0 {
		return nil, fmt.Errorf("%w: timecap must be positive", ErrInvalidPolicy)
	}

	t := &Timeline{opts: opts}
	for i, raw := range raws {
		var delay uint64
		if i > 0 {
			delay = raw.Offset - raws[i-1].Offset
		}
		n := len(t.frames)
		if n > 0 && t.frames[n-1].Dur+delay < opts.Timestep {
			// Still inside the burst window: fold into the open frame.
			last := &t.frames[n-1]
			last.Dur += delay
			last.Data = append(last.Data, raw.Data...)
			continue
		}
		data := make([]byte, len(raw.Data))
		copy(data, raw.Data)
		t.frames = append(t.frames, Frame{Start: raw.Offset, Dur: delay, Data: data})
	}

	t.reindex()
	return t, nil
}

// WithTimecap returns a Timeline with capping switched on or off. Frames
// are shared, not copied; only the effective-time index is re-derived.
func (t *Timeline) WithTimecap(enabled bool) *Timeline {
	if enabled == t.opts.CapEnabled {
		return t
	}
	opts := t.opts
	opts.CapEnabled = enabled
	next := &Timeline{frames: t.frames, opts: opts}
	next.reindex()
	return next
}

func (t *Timeline) reindex() {
	t.due = make([]uint64, len(t.frames))
	var sum uint64
	for i, f := range t.frames {
		sum += t.effDelay(f.Dur)
		t.due[i] = sum
	}
}

func (t *Timeline) effDelay(d uint64) uint64 {
	if t.opts.CapEnabled && d > t.opts.Timecap {
		return t.opts.Timecap
	}
	return d
}

// Len returns the number of frames.
func (t *Timeline) Len() int {
	return len(t.frames)
}

// Frame returns the frame at ordinal i.
func (t *Timeline) Frame(i int) Frame {
	return t.frames[i]
}

// EffDur returns frame i's effective delay under the current cap policy.
func (t *Timeline) EffDur(i int) uint64 {
	return t.effDelay(t.frames[i].Dur)
}

// Due returns the effective time (µs) at which frame i appears.
func (t *Timeline) Due(i int) uint64 {
	return t.due[i]
}

// Duration returns the total effective duration: the time the final frame
// appears. Zero for an empty timeline.
func (t *Timeline) Duration() uint64 {
	if len(t.due) == 0 {
		return 0
	}
	return t.due[len(t.due)-1]
}

// RawDuration returns the uncapped recording span in µs, independent of
// the cap policy.
func (t *Timeline) RawDuration() uint64 {
	if len(t.frames) == 0 {
		return 0
	}
	return t.frames[len(t.frames)-1].Start
}

// IndexAtTime returns the ordinal of the frame visible at effective time
// us: the last frame whose due time is at or before it. Returns -1 when no
// frame has appeared yet (including on an empty timeline).
func (t *Timeline) IndexAtTime(us uint64) int {
	// First index with due > us; the visible frame sits just before it.
	i := sort.Search(len(t.due), func(i int) bool { return t.due[i] > us })
	return i - 1
}

// Options returns the policies the timeline was built with.
func (t *Timeline) Options() Options {
	return t.opts
}

// PayloadBytes returns the total payload size across all frames.
func (t *Timeline) PayloadBytes() int64 {
	var n int64
	for _, f := range t.frames {
		n += int64(len(f.Data))
	}
	return n
}
