package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ttyrew/ttyrew/internal/charset"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Playback.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("playback: %w", err))
	}
	if err := c.Terminal.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("terminal: %w", err))
	}
	if err := c.UI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks PlaybackConfig for errors.
func (c *PlaybackConfig) Validate() error {
	if c.TimestepUS < 0 {
		return errors.New("timestep_us must be non-negative")
	}
	if _, err := c.ParseTimecap(); err != nil {
		return err
	}
	if c.Speed <= 0 {
		return errors.New("speed must be positive")
	}
	return nil
}

// ParseTimecap returns the timecap as a duration. Must be positive.
func (c *PlaybackConfig) ParseTimecap() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timecap)
	if err != nil {
		return 0, fmt.Errorf("invalid timecap %q: %w", c.Timecap, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timecap must be positive, got %s", d)
	}
	return d, nil
}

// Validate checks TerminalConfig for errors.
func (c *TerminalConfig) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("grid %dx%d out of range (both sides must be at least 1)", c.Width, c.Height)
	}
	if c.Encoding != "" {
		if _, err := charset.Parse(c.Encoding); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks UIConfig for errors.
func (c *UIConfig) Validate() error {
	if c.ProgressWidth < 0 {
		return errors.New("progress_width must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
