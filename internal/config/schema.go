package config

// Config is the root configuration structure.
type Config struct {
	Playback PlaybackConfig `toml:"playback"`
	Terminal TerminalConfig `toml:"terminal"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// PlaybackConfig holds timeline and clock settings.
type PlaybackConfig struct {
	// TimestepUS is the merge window in microseconds; frames arriving
	// within it collapse into one. Zero disables merging.
	TimestepUS int64 `toml:"timestep_us"`
	// Timecap bounds how long any gap stalls playback, as a duration
	// string such as "1s" or "500ms".
	Timecap string `toml:"timecap"`
	// Speed is the initial playback multiplier.
	Speed float64 `toml:"speed"`
}

// TerminalConfig holds the emulated terminal's geometry and encoding.
type TerminalConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// Encoding forces the payload encoding (utf8, cp437, ascii); empty
	// means autodetect.
	Encoding string `toml:"encoding"`
}

// UIConfig holds status bar settings.
type UIConfig struct {
	Enabled bool `toml:"enabled"`
	// ProgressWidth fixes the progress bar width in cells; zero sizes
	// it to the window.
	ProgressWidth int `toml:"progress_width"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	// File receives log output; empty disables logging, stderr belongs
	// to the playback screen.
	File string `toml:"file"`
}
