// Package diff implements Glyph's minimal-diff terminal emitter, per
// spec §4.7: comparing two framebuffers and producing the shortest ANSI
// byte stream that turns one into the other. Generalized from the
// teacher's renderUnlocked cell-by-cell diff loop in tui/screen.go into
// a maximal-run algorithm that batches cursor moves and SGR state
// across consecutive differing cells instead of emitting both per cell.
package diff

import (
	"strconv"

	"glyph/cell"
	"glyph/color"
)

// Options controls optional, spec-permitted (not required) emit
// behaviour.
type Options struct {
	// ElideTrailingSpaces condenses a uniform-attribute run of blank
	// cells at the end of a row into CSI K instead of writing each
	// space, per §4.7's "may be condensed" wording.
	ElideTrailingSpaces bool
}

// Emit compares cur against prev and returns the ANSI byte sequence
// that updates a terminal already displaying prev to display cur. When
// forceFull is true every cell is treated as differing, so each row is
// rewritten in full as one run, starting from (0,0), matching a full
// redraw.
func Emit(prev, cur *cell.Framebuffer, forceFull bool, opts Options) []byte {
	var out []byte
	w, h := cur.Width, cur.Height

	curX, curY := -1, -1
	var lastFg, lastBg color.Color
	var lastAttrs color.Attrs
	styleActive := false

	moveTo := func(row, col int) {
		if curX == col && curY == row {
			return
		}
		out = append(out, '\x1b', '[')
		out = strconv.AppendInt(out, int64(row+1), 10)
		out = append(out, ';')
		out = strconv.AppendInt(out, int64(col+1), 10)
		out = append(out, 'H')
		curX, curY = col, row
	}

	applyStyle := func(c cell.Cell) {
		if styleActive && c.Fg == lastFg && c.Bg == lastBg && c.Attrs == lastAttrs {
			return
		}
		if styleActive {
			out = append(out, '\x1b', '[', '0', 'm')
		}
		out = color.Encode(out, c.Fg, c.Bg, c.Attrs)
		lastFg, lastBg, lastAttrs = c.Fg, c.Bg, c.Attrs
		styleActive = c.Fg.IsSet() || c.Bg.IsSet() || c.Attrs != 0
	}

	for y := 0; y < h; y++ {
		x := 0
		for x < w {
			idx := y*w + x
			if !forceFull && cur.Cells[idx] == prev.Cells[idx] {
				x++
				continue
			}

			runEnd := x
			for runEnd < w {
				i := y*w + runEnd
				if !forceFull && cur.Cells[i] == prev.Cells[i] {
					break
				}
				// Never split a double-width pair across the run
				// boundary: if this is a lead cell, its continuation
				// must be included even if the scan would otherwise
				// stop here.
				if cur.Cells[i].Wide && runEnd+1 < w {
					runEnd += 2
					continue
				}
				runEnd++
			}

			moveTo(y, x)
			for col := x; col < runEnd; col++ {
				if opts.ElideTrailingSpaces && runEnd == w && isBlankRun(cur, y, col, runEnd) {
					applyStyle(cur.Cells[y*w+col])
					out = append(out, '\x1b', '[', 'K')
					col = runEnd
					break
				}
				c := cur.Cells[y*w+col]
				if c.Continuation {
					continue
				}
				applyStyle(c)
				ch := c.Ch
				if ch == 0 {
					ch = ' '
				}
				out = append(out, []byte(string(ch))...)
				if c.Wide {
					curX += 2
				} else {
					curX++
				}
			}
			x = runEnd
		}
	}

	if styleActive {
		out = append(out, '\x1b', '[', '0', 'm')
	}
	return out
}

// isBlankRun reports whether cur's row y, columns [from,to), are all
// blank space cells sharing one style — the precondition for safely
// eliding them with CSI K instead of writing each space.
func isBlankRun(cur *cell.Framebuffer, y, from, to int) bool {
	if from >= to {
		return false
	}
	w := cur.Width
	first := cur.Cells[y*w+from]
	if first.Ch != ' ' || first.Wide || first.Continuation {
		return false
	}
	for col := from + 1; col < to; col++ {
		c := cur.Cells[y*w+col]
		if c.Ch != ' ' || c.Wide || c.Continuation || c.Fg != first.Fg || c.Bg != first.Bg || c.Attrs != first.Attrs {
			return false
		}
	}
	return true
}

// CopyInto performs the zero-alloc prev = cur snapshot the render loop
// takes after each emitted frame, generalizing the teacher's per-cell
// frontCells[idx] = backCell assignment into one backing-slice copy.
func CopyInto(prev, cur *cell.Framebuffer) {
	prev.CopyFrom(cur)
}
