package player

// Interpreter is the terminal-state collaborator the controller drives.
// Implementations consume raw payload bytes and expose opaque state
// tokens so backward seeks can restore a nearby snapshot instead of
// replaying the whole recording.
type Interpreter interface {
	// Apply feeds one frame's payload to the terminal.
	Apply(data []byte) error
	// Snapshot returns an opaque token capturing the current state.
	Snapshot() ([]byte, error)
	// Restore rewinds the terminal to a previously captured token.
	Restore(token []byte) error
	// Reset clears the terminal to its initial blank state.
	Reset()
}
