package player

// DefaultStride is how many frames apart interpreter snapshots are taken.
const DefaultStride = 64

// Checkpoints holds sparse interpreter snapshots keyed by frame ordinal.
// Ordinals are stable across timecap toggles, so checkpoints survive
// timeline re-derivation. Snapshots are captured lazily the first time
// playback or a seek crosses a stride boundary and are never evicted.
type Checkpoints struct {
	stride int
	snaps  map[int][]byte
	top    int // highest ordinal captured so far, -1 when empty
}

// NewCheckpoints returns an empty checkpoint store. A stride below one
// falls back to DefaultStride.
func NewCheckpoints(stride int) *Checkpoints {
	if stride < 1 {
		stride = DefaultStride
	}
	return &Checkpoints{stride: stride, snaps: make(map[int][]byte), top: -1}
}

// MaybeCapture snapshots the interpreter after frame ordinal has been
// applied, if ordinal sits on a stride boundary and has not been captured
// before.
func (c *Checkpoints) MaybeCapture(ordinal int, interp Interpreter) error {
	if ordinal%c.stride != 0 {
		return nil
	}
	if _, ok := c.snaps[ordinal]; ok {
		return nil
	}
	token, err := interp.Snapshot()
	if err != nil {
		return err
	}
	c.snaps[ordinal] = token
	if ordinal > c.top {
		c.top = ordinal
	}
	return nil
}

// Len returns the number of captured snapshots.
func (c *Checkpoints) Len() int {
	return len(c.snaps)
}

// ReplayPlan describes the cheapest way to bring the interpreter to a
// target frame. Exactly one starting state applies: continue from the
// live state (neither Reset nor Restore set), restore a snapshot, or
// reset to blank. Frames [From, target] are then applied in order; a
// From beyond the target means nothing needs applying.
type ReplayPlan struct {
	Reset   bool
	Restore []byte
	From    int
}

// Plan picks the starting point requiring the fewest frame applications
// to reach target from the live state at current (-1 when the
// interpreter is blank).
func (c *Checkpoints) Plan(current, target int) ReplayPlan {
	if target < 0 {
		return ReplayPlan{Reset: true, From: 0}
	}

	// Live state is usable only when it is at or before the target.
	best := -1
	if current >= 0 && current <= target {
		best = current
	}

	// Captures happen in playback order, so every stride multiple up to
	// top is present; the best snapshot is the nearest one not past the
	// target.
	snap := (target / c.stride) * c.stride
	if snap > c.top {
		snap = c.top
	}
	if snap > best {
		if token, ok := c.snaps[snap]; ok {
			return ReplayPlan{Restore: token, From: snap + 1}
		}
	}

	if best < 0 {
		return ReplayPlan{Reset: true, From: 0}
	}
	return ReplayPlan{From: best + 1}
}
