package emu

import (
	"fmt"
	"strings"

	"github.com/hinshun/vt10x"
)

// Render returns the screen clipped to at most maxCols by maxRows, one
// string per visible row. Rows are self-contained: attribute state never
// leaks across lines, so callers may stack them inside any layout. The
// cursor cell is drawn reverse-video when visible and in view.
func (t *Terminal) Render(maxCols, maxRows int) []string {
	cols, rows := t.cols, t.rows
	if maxCols > 0 && maxCols < cols {
		cols = maxCols
	}
	if maxRows > 0 && maxRows < rows {
		rows = maxRows
	}

	cursor := t.vt.Cursor()
	showCursor := t.vt.CursorVisible() && cursor.X < cols && cursor.Y < rows

	lines := make([]string, 0, rows)
	var b strings.Builder
	for row := 0; row < rows; row++ {
		b.Reset()
		lastFG, lastBG := vt10x.DefaultFG, vt10x.DefaultBG
		for col := 0; col < cols; col++ {
			cell := t.vt.Cell(col, row)
			if cell.FG != lastFG || cell.BG != lastBG {
				b.WriteString("\x1b[0m")
				if cell.FG != vt10x.DefaultFG && cell.FG < 256 {
					fmt.Fprintf(&b, "\x1b[38;5;%dm", cell.FG)
				}
				if cell.BG != vt10x.DefaultBG && cell.BG < 256 {
					fmt.Fprintf(&b, "\x1b[48;5;%dm", cell.BG)
				}
				lastFG, lastBG = cell.FG, cell.BG
			}
			underCursor := showCursor && col == cursor.X && row == cursor.Y
			if underCursor {
				b.WriteString("\x1b[7m")
			}
			if cell.Char == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteRune(cell.Char)
			}
			if underCursor {
				b.WriteString("\x1b[27m")
			}
		}
		b.WriteString("\x1b[0m")
		lines = append(lines, b.String())
	}
	return lines
}
