package config

// Default playback policies. The merge window absorbs bursts a human
// cannot perceive; the gap cap keeps idle stretches watchable.
const (
	DefaultTimestepUS = 100
	DefaultTimecap    = "1s"
	DefaultSpeed      = 1.0

	// Emulator grid. Recordings do not store the terminal geometry, so
	// the grid is oversized and cropped to the viewer's window.
	DefaultWidth  = 500
	DefaultHeight = 200
)

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Playback: PlaybackConfig{
			TimestepUS: DefaultTimestepUS,
			Timecap:    DefaultTimecap,
			Speed:      DefaultSpeed,
		},
		Terminal: TerminalConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		UI: UIConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Playback. A zero timestep is a deliberate "merge nothing", so it
	// is left alone.
	if c.Playback.Timecap == "" {
		c.Playback.Timecap = d.Playback.Timecap
	}
	if c.Playback.Speed == 0 {
		c.Playback.Speed = d.Playback.Speed
	}

	// Terminal
	if c.Terminal.Width == 0 {
		c.Terminal.Width = d.Terminal.Width
	}
	if c.Terminal.Height == 0 {
		c.Terminal.Height = d.Terminal.Height
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
