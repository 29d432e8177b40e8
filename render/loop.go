// Package render orchestrates C1-C10 into the render.Loop of spec
// §4.12: commit -> layout -> paint -> diff -> flush, run on the single
// logical thread §5 requires. It adapts the teacher's
// signals.CreateEffect idea ("re-run this closure when a commit
// happens, collapsing a burst into one run") onto
// internal/schedule.Coalescer instead of keeping the teacher's
// generic reactive-signals surface, since Glyph's host framework owns
// its own state model and the tree only needs the scheduling
// primitive.
package render

import (
	"context"

	"glyph/cell"
	"glyph/color"
	"glyph/diff"
	"glyph/focus"
	"glyph/input"
	"glyph/internal/schedule"
	"glyph/layout"
	"glyph/paint"
	"glyph/tree"
)

// TerminalSurface is the subset of *term.Terminal's surface the render
// loop depends on, narrowed from the full Terminal so tests can supply
// a fake instead of driving a real tty.
type TerminalSurface interface {
	Size() (cols, rows int, err error)
	Write(b []byte) (int, error)
	Flush() error
	MoveCursor(row, col int)
	ShowCursor()
	HideCursor()
	DrainForceFull() bool
}

// Loop owns every single-owner resource named in §5's shared-resource
// policy: the two framebuffers, the tree, and the focus registry.
type Loop struct {
	Tree      *tree.Tree
	Terminal  TerminalSurface
	Focus     *focus.Registry
	Scheduler *schedule.Coalescer
	Decoder   *input.Decoder
	Palette   *color.Palette

	Prev, Cur *cell.Framebuffer
	columns, rows int

	// UseNativeCursor selects step 7's branch: native CSI H positioning
	// vs. an inverted-cell cursor drawn into the framebuffer by paint.
	UseNativeCursor bool

	DiffOptions diff.Options

	// OnLayout is consulted after a layout pass runs, step 3's "notify
	// layout subscribers" — the host framework's hook for anything
	// that reacts to a fresh set of solved rects (e.g. a virtualized
	// list recomputing its visible window). Nil is a no-op.
	OnLayout func()

	DebugLog func(string)
}

// NewLoop wires the pieces a render.Loop needs. columns/rows seed the
// initial framebuffer size; the first frame always runs force-full.
func NewLoop(t *tree.Tree, terminal TerminalSurface, reg *focus.Registry, sched *schedule.Coalescer, dec *input.Decoder, palette *color.Palette, columns, rows int) *Loop {
	return &Loop{
		Tree:      t,
		Terminal:  terminal,
		Focus:     reg,
		Scheduler: sched,
		Decoder:   dec,
		Palette:   palette,
		Prev:      cell.New(columns, rows),
		Cur:       cell.New(columns, rows),
		columns:   columns,
		rows:      rows,
	}
}

// Run processes input events and frame requests until ctx is
// cancelled or the input channel closes. Each event is dispatched
// through Focus, which may mutate the tree and call Tree.Commit
// (requesting a render via Scheduler); once dispatch returns, any
// requests it made are drained into at most one frame, satisfying
// "multiple commits within the same microtask queue collapse to one
// frame."
func (l *Loop) Run(ctx context.Context) error {
	l.frame(true) // initial paint is always force-full

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-l.Decoder.Events():
			if !ok {
				return nil
			}
			l.Focus.Dispatch(ev)
		}

		forceFull := l.Terminal.DrainForceFull()
		if l.Scheduler.Drain() || forceFull {
			l.frame(forceFull)
		}
	}
}

// frame executes the nine-step sequence of §4.12.
func (l *Loop) frame(forceFull bool) {
	// 1. Resize if the terminal's column/row count changed.
	cols, rows, err := l.Terminal.Size()
	if err == nil && (cols != l.columns || rows != l.rows) {
		l.columns, l.rows = cols, rows
		l.Prev.Resize(cols, rows)
		l.Cur.Resize(cols, rows)
		l.Prev.Clear()
		forceFull = true
	}

	// 2. Resolve responsive styles and solve layout if dirty.
	if l.Tree.Dirty || forceFull {
		tree.ResolveStyles(l.Tree.Roots, l.columns)
		tree.Solve(l.Tree, l.columns, l.rows)
		l.Tree.Dirty = false
		// 3. Notify layout subscribers.
		if l.OnLayout != nil {
			l.OnLayout()
		}
	}

	// 4. Locate cursor info.
	var hint *paint.CursorHint
	if n := l.Focus.FocusedNode(); n != nil && n.Kind == tree.KindInput {
		hint = &paint.CursorHint{FocusID: n.FocusID}
	}

	// 5. Paint with pre-clear pass.
	fbRect := layout.Rect{X: 0, Y: 0, Width: l.columns, Height: l.rows}
	entries := paint.Collect(l.Tree.Roots, fbRect)
	pending := l.Tree.DrainPendingClear()
	resultHint := paint.Paint(l.Cur, l.Palette, entries, hint, l.UseNativeCursor, pending)

	// 6. Diff and write.
	out := diff.Emit(l.Prev, l.Cur, forceFull, l.DiffOptions)
	if len(out) > 0 {
		l.Terminal.Write(out)
	}

	// 7. Position or hide the cursor.
	if l.UseNativeCursor && resultHint != nil {
		l.Terminal.MoveCursor(resultHint.Y, resultHint.X)
		l.Terminal.ShowCursor()
	} else {
		l.Terminal.HideCursor()
	}
	l.Terminal.Flush()

	// 8. Swap buffers (field copy, no allocation).
	diff.CopyInto(l.Prev, l.Cur)

	// 9. force_full is cleared by returning; callers never persist it
	// past one frame.
}
