package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ttyrew/ttyrew/internal/player"
	"github.com/ttyrew/ttyrew/internal/tui/styles"
)

// statusBarHeight is the rows the overlay takes from the screen grid.
const statusBarHeight = 2

// renderStatusBar draws the bottom two rows: a progress bar with the
// play/pause glyph at its tip, then the recording's wall-clock stamp, the
// position in the active seek mode's unit, and the policy tags.
func (m Model) renderStatusBar() string {
	ctrl := m.ctrl
	tl := ctrl.Timeline()

	var startUS uint64
	if f, ok := ctrl.CurrentFrame(); ok {
		startUS = f.Start
	}

	var pos string
	var pct float64
	if ctrl.Mode() == player.SeekFrames {
		pos = fmt.Sprintf("%d / %d frames", ctrl.Index()+1, tl.Len())
		if tl.Len() > 0 {
			pct = float64(ctrl.Index()+1) / float64(tl.Len()) * 100
		}
	} else {
		total := tl.RawDuration()
		pos = formatClock(startUS) + " / " + formatClock(total)
		if total > 0 {
			pct = float64(startUS) / float64(total) * 100
		}
	}

	stamp := m.epoch.Add(time.Duration(startUS) * time.Microsecond).Format("2006-01-02 15:04:05")

	tags := []string{
		"[" + formatSpeed(ctrl.Speed()) + " speed]",
		"[" + ctrl.Mode().String() + "]",
	}
	if ctrl.TimecapEnabled() {
		tags = append(tags, "[Timecap]")
	}

	barWidth := m.opts.ProgressWidth
	if barWidth <= 0 {
		barWidth = 80
	}
	if barWidth > m.width {
		barWidth = m.width
	}
	bar := styles.ProgressBar(pct, barWidth, ctrl.Playing())

	info := strings.Join([]string{
		styles.Dim.Render(stamp),
		styles.Title.Render(pos),
		styles.Tag.Render(strings.Join(tags, " ")),
	}, " - ")

	return lipgloss.NewStyle().MaxWidth(m.width).Render(bar) + "\n" +
		lipgloss.NewStyle().MaxWidth(m.width).Render(info)
}

// formatClock renders microseconds as h:mm:ss.
func formatClock(us uint64) string {
	total := us / 1_000_000
	h := total / 3600
	min := total % 3600 / 60
	sec := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, min, sec)
}

// formatSpeed renders a speed multiplier without trailing zeros.
func formatSpeed(speed float64) string {
	return strconv.FormatFloat(speed, 'f', -1, 64) + "X"
}

// seekScale is the navigation multiplier at the given speed: fast
// playback seeks in proportionally bigger steps.
func seekScale(speed float64) int {
	scale := int(speed)
	if float64(scale) < speed {
		scale++
	}
	if scale < 1 {
		scale = 1
	}
	return scale
}
