package player

import (
	"bytes"
	"testing"
)

func TestMaybeCaptureStrideBoundaries(t *testing.T) {
	ft := &fakeTerm{}
	cps := NewCheckpoints(4)

	for i := 0; i < 10; i++ {
		ft.state = append(ft.state, byte('a'+i))
		if err := cps.MaybeCapture(i, ft); err != nil {
			t.Fatalf("MaybeCapture(%d) error = %v", i, err)
		}
	}
	if got := cps.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3 (ordinals 0, 4, 8)", got)
	}
	if got := ft.snaps; got != 3 {
		t.Errorf("snapshots taken = %d, want 3", got)
	}

	// Re-crossing a boundary must not snapshot again.
	if err := cps.MaybeCapture(4, ft); err != nil {
		t.Fatalf("MaybeCapture(4) error = %v", err)
	}
	if got := ft.snaps; got != 3 {
		t.Errorf("snapshots after repeat = %d, want 3", got)
	}
}

func TestPlanPrefersCheapestStart(t *testing.T) {
	ft := &fakeTerm{}
	cps := NewCheckpoints(4)
	for i := 0; i <= 5; i++ {
		ft.state = append(ft.state, byte('a'+i))
		if err := cps.MaybeCapture(i, ft); err != nil {
			t.Fatalf("MaybeCapture(%d) error = %v", i, err)
		}
	}
	// Captured: ordinal 0 → "a", ordinal 4 → "abcde".

	tests := []struct {
		name            string
		current, target int
		wantReset       bool
		wantRestore     string // "" = no restore
		wantFrom        int
	}{
		{"forward from live state", 1, 2, false, "", 2},
		{"live state beats older snapshot", 5, 6, false, "", 6},
		{"snapshot beats distant live state", 1, 5, false, "abcde", 5},
		{"backward to snapshot gap", 5, 2, false, "a", 1},
		{"backward onto snapshot", 5, 4, false, "abcde", 5},
		{"blank start uses snapshot", -1, 6, false, "abcde", 5},
		{"target before first frame", 3, -1, true, "", 0},
		{"already there", 3, 3, false, "", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := cps.Plan(tt.current, tt.target)
			if plan.Reset != tt.wantReset {
				t.Errorf("Reset = %v, want %v", plan.Reset, tt.wantReset)
			}
			if tt.wantRestore == "" && plan.Restore != nil {
				t.Errorf("Restore = %q, want none", plan.Restore)
			}
			if tt.wantRestore != "" && !bytes.Equal(plan.Restore, []byte(tt.wantRestore)) {
				t.Errorf("Restore = %q, want %q", plan.Restore, tt.wantRestore)
			}
			if plan.From != tt.wantFrom {
				t.Errorf("From = %d, want %d", plan.From, tt.wantFrom)
			}
		})
	}
}

func TestPlanWithoutSnapshotsResets(t *testing.T) {
	cps := NewCheckpoints(4)

	plan := cps.Plan(7, 3)
	if !plan.Reset || plan.From != 0 {
		t.Errorf("Plan(7, 3) = %+v, want reset from 0", plan)
	}

	plan = cps.Plan(2, 5)
	if plan.Reset || plan.Restore != nil || plan.From != 3 {
		t.Errorf("Plan(2, 5) = %+v, want continue from 3", plan)
	}
}
