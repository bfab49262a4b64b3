// Package player holds the playback state machine: a tick-driven
// controller that walks a timeline, drives a terminal interpreter, and
// answers seeks in frame or time coordinates without ever erroring on
// out-of-range targets.
package player

import (
	"fmt"
	"time"

	"github.com/ttyrew/ttyrew/internal/timeline"
)

// SeekMode selects the unit relative seeks operate in.
type SeekMode int

const (
	// SeekFrames moves by frame ordinals.
	SeekFrames SeekMode = iota
	// SeekTime moves by effective playback time.
	SeekTime
)

func (m SeekMode) String() string {
	if m == SeekTime {
		return "Time"
	}
	return "Frame"
}

// Speed multiplier bounds. Doubling and halving from 1.0 stays exactly
// representable inside this range.
const (
	MinSpeed = 1.0 / 1024
	MaxSpeed = 1024.0
)

// Config seeds a controller's adjustable state.
type Config struct {
	Speed     float64 // initial multiplier, 1.0 when zero
	Mode      SeekMode
	UIVisible bool
}

// Controller owns all mutable playback state. It is not safe for
// concurrent use; the UI event loop serializes access.
//
// Position is tracked on the effective (capped) time axis: elapsed
// always lies within [Due(index), Due(index+1)) and index == -1 means
// nothing has been applied yet.
type Controller struct {
	tl     *timeline.Timeline
	interp Interpreter
	cps    *Checkpoints

	index     int
	elapsed   uint64
	playing   bool
	speed     float64
	mode      SeekMode
	uiVisible bool
}

// NewController returns a controller positioned before the first frame,
// in the playing state.
func NewController(tl *timeline.Timeline, interp Interpreter, cfg Config) *Controller {
	speed := cfg.Speed
	if speed == 0 {
		speed = 1.0
	}
	speed = clampSpeed(speed)
	return &Controller{
		tl:        tl,
		interp:    interp,
		cps:       NewCheckpoints(DefaultStride),
		index:     -1,
		playing:   true,
		speed:     speed,
		mode:      cfg.Mode,
		uiVisible: cfg.UIVisible,
	}
}

// Timeline returns the timeline currently in effect.
func (c *Controller) Timeline() *timeline.Timeline { return c.tl }

// Index returns the ordinal of the last applied frame, -1 before the
// first frame.
func (c *Controller) Index() int { return c.index }

// Elapsed returns the position on the effective time axis in µs.
func (c *Controller) Elapsed() uint64 { return c.elapsed }

// Playing reports whether the clock is advancing.
func (c *Controller) Playing() bool { return c.playing }

// Speed returns the current multiplier.
func (c *Controller) Speed() float64 { return c.speed }

// Mode returns the active seek mode.
func (c *Controller) Mode() SeekMode { return c.mode }

// TimecapEnabled reports whether long gaps are being clamped.
func (c *Controller) TimecapEnabled() bool { return c.tl.Options().CapEnabled }

// UIVisible reports whether the status overlay is shown.
func (c *Controller) UIVisible() bool { return c.uiVisible }

// Done reports whether the final frame has been applied.
func (c *Controller) Done() bool { return c.index >= c.tl.Len()-1 }

// CurrentFrame returns the last applied frame, if any.
func (c *Controller) CurrentFrame() (timeline.Frame, bool) {
	if c.index < 0 || c.index >= c.tl.Len() {
		return timeline.Frame{}, false
	}
	return c.tl.Frame(c.index), true
}

// Tick advances the clock by the wall time that passed since the last
// tick, scaled by speed, and applies every frame that came due. Ticks
// while paused or at the end of the timeline are no-ops.
func (c *Controller) Tick(wall time.Duration) error {
	if !c.playing {
		return nil
	}
	c.elapsed += uint64(float64(wall.Nanoseconds()) * c.speed / 1e3)
	for c.index+1 < c.tl.Len() && c.tl.Due(c.index+1) <= c.elapsed {
		if err := c.advance(c.index + 1); err != nil {
			return err
		}
	}
	if c.Done() && c.elapsed > c.tl.Duration() {
		c.elapsed = c.tl.Duration()
	}
	return nil
}

// NextWait returns the wall-clock delay until the next frame is due.
// false when paused, at the end, or the timeline is empty.
func (c *Controller) NextWait() (time.Duration, bool) {
	if !c.playing || c.index+1 >= c.tl.Len() {
		return 0, false
	}
	eff := c.tl.Due(c.index+1) - c.elapsed
	return time.Duration(float64(eff) / c.speed * float64(time.Microsecond)), true
}

// TogglePlayPause flips the clock without touching position, so resuming
// mid-frame waits only the remaining fraction.
func (c *Controller) TogglePlayPause() {
	c.playing = !c.playing
}

// SetPlaying forces the clock state.
func (c *Controller) SetPlaying(on bool) {
	c.playing = on
}

// SeekRelative moves by delta in the active seek mode's unit: frame
// ordinals in SeekFrames, effective time in SeekTime.
func (c *Controller) SeekRelative(frames int, dur time.Duration) error {
	if c.mode == SeekTime {
		return c.SeekByTime(dur)
	}
	return c.SeekByFrames(frames)
}

// SeekByFrames moves delta frames from the current position, clamped to
// the timeline bounds. Never errors on out-of-range deltas.
func (c *Controller) SeekByFrames(delta int) error {
	if c.tl.Len() == 0 {
		return nil
	}
	return c.seekToFrame(c.index + delta)
}

// SeekByTime moves the elapsed position by delta on the effective axis,
// clamped to [0, Duration].
func (c *Controller) SeekByTime(delta time.Duration) error {
	if c.tl.Len() == 0 {
		return nil
	}
	target := int64(c.elapsed) + delta.Microseconds()
	if target < 0 {
		target = 0
	}
	if max := int64(c.tl.Duration()); target > max {
		target = max
	}
	if err := c.applyTo(c.tl.IndexAtTime(uint64(target))); err != nil {
		return err
	}
	c.elapsed = uint64(target)
	return nil
}

// JumpToStart seeks to the first frame.
func (c *Controller) JumpToStart() error {
	if c.tl.Len() == 0 {
		return nil
	}
	return c.seekToFrame(0)
}

// JumpToEnd seeks to the final frame.
func (c *Controller) JumpToEnd() error {
	if c.tl.Len() == 0 {
		return nil
	}
	return c.seekToFrame(c.tl.Len() - 1)
}

func (c *Controller) seekToFrame(target int) error {
	if target < 0 {
		target = 0
	}
	if target > c.tl.Len()-1 {
		target = c.tl.Len() - 1
	}
	if err := c.applyTo(target); err != nil {
		return err
	}
	c.elapsed = c.tl.Due(target)
	return nil
}

// applyTo brings the interpreter to the state after frame target using
// the cheapest available starting point. Seeking to the current index
// touches nothing.
func (c *Controller) applyTo(target int) error {
	if target == c.index {
		return nil
	}
	if target < 0 {
		c.interp.Reset()
		c.index = -1
		return nil
	}
	plan := c.cps.Plan(c.index, target)
	switch {
	case plan.Reset:
		c.interp.Reset()
	case plan.Restore != nil:
		if err := c.interp.Restore(plan.Restore); err != nil {
			return fmt.Errorf("restore checkpoint: %w", err)
		}
	}
	for i := plan.From; i <= target; i++ {
		if err := c.advanceTo(i); err != nil {
			return err
		}
	}
	c.index = target
	return nil
}

// advance applies frame i during forward playback and records the new
// position.
func (c *Controller) advance(i int) error {
	if err := c.advanceTo(i); err != nil {
		return err
	}
	c.index = i
	return nil
}

func (c *Controller) advanceTo(i int) error {
	if err := c.interp.Apply(c.tl.Frame(i).Data); err != nil {
		return fmt.Errorf("apply frame %d: %w", i, err)
	}
	if err := c.cps.MaybeCapture(i, c.interp); err != nil {
		return fmt.Errorf("checkpoint frame %d: %w", i, err)
	}
	return nil
}

// MultiplySpeed scales the speed multiplier, clamped to
// [MinSpeed, MaxSpeed]. The change applies to the in-progress frame's
// remaining wait.
func (c *Controller) MultiplySpeed(factor float64) {
	c.speed = clampSpeed(c.speed * factor)
}

func clampSpeed(s float64) float64 {
	if s < MinSpeed {
		return MinSpeed
	}
	if s > MaxSpeed {
		return MaxSpeed
	}
	return s
}

// ToggleSeekMode switches between frame and time seeking.
func (c *Controller) ToggleSeekMode() {
	if c.mode == SeekFrames {
		c.mode = SeekTime
	} else {
		c.mode = SeekFrames
	}
}

// ToggleUI flips the status overlay.
func (c *Controller) ToggleUI() {
	c.uiVisible = !c.uiVisible
}

// ToggleTimecap re-derives the effective time axis with capping flipped.
// The current frame is preserved; elapsed re-anchors to the frame's due
// time on the new axis. Checkpoints are keyed by ordinal and stay valid.
func (c *Controller) ToggleTimecap() {
	c.tl = c.tl.WithTimecap(!c.tl.Options().CapEnabled)
	if c.index >= 0 {
		c.elapsed = c.tl.Due(c.index)
	} else {
		c.elapsed = 0
	}
}
