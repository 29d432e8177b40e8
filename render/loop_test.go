package render

import (
	"context"
	"testing"
	"time"

	"glyph/cell"
	"glyph/color"
	"glyph/focus"
	"glyph/input"
	"glyph/internal/schedule"
	"glyph/layout"
	"glyph/tree"
)

// fakeTerminal is a TerminalSurface that records writes and cursor
// moves instead of touching a real tty, so frame's nine steps can be
// driven directly.
type fakeTerminal struct {
	cols, rows int
	sizeErr    error
	forceFull  bool

	written  [][]byte
	flushed  int
	movedRow int
	movedCol int
	moved    bool
	shown    bool
	hidden   bool
}

func (f *fakeTerminal) Size() (int, int, error) { return f.cols, f.rows, f.sizeErr }
func (f *fakeTerminal) Write(b []byte) (int, error) {
	f.written = append(f.written, append([]byte(nil), b...))
	return len(b), nil
}
func (f *fakeTerminal) Flush() error            { f.flushed++; return nil }
func (f *fakeTerminal) MoveCursor(row, col int) { f.moved, f.movedRow, f.movedCol = true, row, col }
func (f *fakeTerminal) ShowCursor()             { f.shown = true }
func (f *fakeTerminal) HideCursor()             { f.hidden = true }
func (f *fakeTerminal) DrainForceFull() bool {
	v := f.forceFull
	f.forceFull = false
	return v
}

func newTestLoop(t *testing.T, cols, rows int) (*Loop, *fakeTerminal) {
	t.Helper()
	ft := &fakeTerminal{cols: cols, rows: rows}
	tr := tree.NewTree(nil)
	reg := focus.NewRegistry()
	sched := schedule.NewCoalescer()
	dec := input.NewDecoder(make(chan byte))
	palette := color.NewPalette()
	l := NewLoop(tr, ft, reg, sched, dec, palette, cols, rows)
	return l, ft
}

func TestFrameResolvesLayoutWhenTreeDirty(t *testing.T) {
	l, _ := newTestLoop(t, 20, 5)

	root := l.Tree.CreateNode(tree.KindBox, nil)
	root.Style = layout.Style{Width: layout.Const(layout.Cells(10)), Height: layout.Const(layout.Cells(3))}
	l.Tree.AddRoot(root)

	if !l.Tree.Dirty {
		t.Fatalf("expected AddRoot to mark the tree dirty")
	}
	l.frame(true)
	if l.Tree.Dirty {
		t.Fatalf("expected frame to clear Dirty after resolving layout")
	}
	if root.Layout.Width != 10 {
		t.Fatalf("root.Layout.Width = %d, want 10", root.Layout.Width)
	}
}

func TestFrameCallsOnLayoutOnlyWhenLayoutRuns(t *testing.T) {
	l, _ := newTestLoop(t, 20, 5)
	calls := 0
	l.OnLayout = func() { calls++ }

	l.frame(true) // empty tree, but forceFull still forces a layout pass
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 after a force-full frame", calls)
	}

	l.frame(false) // not dirty, not force-full: layout step should be skipped
	if calls != 1 {
		t.Fatalf("calls = %d, want still 1 when nothing was dirty", calls)
	}
}

func TestFrameDetectsResizeAndForcesFullRepaint(t *testing.T) {
	l, ft := newTestLoop(t, 20, 5)
	l.frame(false) // settle Prev/Cur at the initial size

	ft.cols, ft.rows = 30, 8
	l.frame(false)

	if l.columns != 30 || l.rows != 8 {
		t.Fatalf("columns/rows = %d/%d, want 30/8 after resize", l.columns, l.rows)
	}
	if l.Prev.Width != 30 || l.Prev.Height != 8 {
		t.Fatalf("Prev not resized: %dx%d", l.Prev.Width, l.Prev.Height)
	}
}

func TestFrameProducesCursorHintOnlyForFocusedInput(t *testing.T) {
	l, ft := newTestLoop(t, 20, 5)
	l.UseNativeCursor = true

	box := l.Tree.CreateNode(tree.KindBox, nil)
	box.Style = layout.Style{Width: layout.Const(layout.Cells(10)), Height: layout.Const(layout.Cells(1))}
	l.Tree.AddRoot(box)
	l.frame(true)
	if ft.moved {
		t.Fatalf("expected no cursor move with nothing focused")
	}
	if !ft.hidden {
		t.Fatalf("expected HideCursor to be called when there is no cursor hint")
	}

	in := l.Tree.CreateNode(tree.KindInput, map[string]any{"value": "hi"})
	in.Style = layout.Style{Width: layout.Const(layout.Cells(10)), Height: layout.Const(layout.Cells(1))}
	l.Tree.AddRoot(in)
	l.Focus.Register(in)
	l.Focus.Focus(in.FocusID)

	l.frame(true)
	if !ft.moved {
		t.Fatalf("expected MoveCursor to be called for a focused input")
	}
	if !ft.shown {
		t.Fatalf("expected ShowCursor to be called for a focused input")
	}
}

func TestFramePreClearsPendingRectsFromRemoval(t *testing.T) {
	l, _ := newTestLoop(t, 20, 5)

	parent := l.Tree.CreateNode(tree.KindBox, nil)
	parent.Style = layout.Style{Width: layout.Const(layout.Cells(20)), Height: layout.Const(layout.Cells(5))}
	l.Tree.AddRoot(parent)
	child := l.Tree.CreateNode(tree.KindBox, nil)
	child.Style = layout.Style{
		Width: layout.Const(layout.Cells(4)), Height: layout.Const(layout.Cells(2)),
		Bg: layout.Const("red"),
	}
	l.Tree.AppendChild(parent, child)
	l.frame(true)

	if child.Layout.Width == 0 {
		t.Fatalf("expected child to have a solved layout before removal")
	}
	before := child.Layout

	l.Tree.RemoveChild(parent, child)
	l.frame(false)

	if len(l.Tree.PendingClear) != 0 {
		t.Fatalf("expected frame to have drained PendingClear, got %+v", l.Tree.PendingClear)
	}
	for y := before.Y; y < before.Y+before.Height; y++ {
		for x := before.X; x < before.X+before.Width; x++ {
			if c := l.Cur.At(x, y); c != cell.Blank {
				t.Fatalf("cell at (%d,%d) = %+v, want Blank after pre-clear", x, y, c)
			}
		}
	}
}

func TestFrameWritesDiffOutputOnlyWhenCellsChanged(t *testing.T) {
	l, ft := newTestLoop(t, 10, 2)

	box := l.Tree.CreateNode(tree.KindBox, nil)
	box.Style = layout.Style{
		Width: layout.Const(layout.Cells(5)), Height: layout.Const(layout.Cells(1)),
		Bg: layout.Const("red"),
	}
	l.Tree.AddRoot(box)

	l.frame(true)
	if len(ft.written) == 0 {
		t.Fatalf("expected the first frame to write something")
	}

	before := len(ft.written)
	l.frame(false)
	if len(ft.written) != before {
		t.Fatalf("expected an unchanged frame to write nothing new, made %d more writes", len(ft.written)-before)
	}
}

func TestRunDispatchesDecodedEventsAndDrainsScheduler(t *testing.T) {
	raw := make(chan byte, 8)
	dec := input.NewDecoder(raw)

	ft := &fakeTerminal{cols: 10, rows: 2}
	tr := tree.NewTree(nil)
	reg := focus.NewRegistry()
	sched := schedule.NewCoalescer()
	palette := color.NewPalette()
	l := NewLoop(tr, ft, reg, sched, dec, palette, 10, 2)

	a := tr.CreateNode(tree.KindInput, nil)
	reg.Register(a)
	b := tr.CreateNode(tree.KindInput, nil)
	b.Layout = layout.Rect{Y: 1}
	reg.Register(b)
	reg.Focus(a.FocusID)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	raw <- '\t' // Tab: should advance focus from a to b

	deadline := time.After(time.Second)
	for reg.Focused() != b.FocusID {
		select {
		case <-deadline:
			t.Fatalf("focus never advanced to b, still %q", reg.Focused())
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after ctx cancellation")
	}
}
