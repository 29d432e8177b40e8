package focus

import (
	"testing"

	"glyph/input"
	"glyph/layout"
	"glyph/tree"
)

func makeFocusable(tr *tree.Tree, y, x int) *tree.Node {
	n := tr.CreateNode(tree.KindInput, nil)
	n.Layout = layout.Rect{X: x, Y: y}
	return n
}

func TestActiveFocusablesSortsByVisualPositionNotRegistrationOrder(t *testing.T) {
	tr := tree.NewTree(nil)
	r := NewRegistry()

	a := makeFocusable(tr, 5, 0)
	b := makeFocusable(tr, 1, 0)
	c := makeFocusable(tr, 3, 0)
	r.Register(a)
	r.Register(b)
	r.Register(c)

	ids := r.ActiveFocusables()
	if len(ids) != 3 || ids[0] != b.FocusID || ids[1] != c.FocusID || ids[2] != a.FocusID {
		t.Fatalf("ids = %+v, want b,c,a by ascending y", ids)
	}
}

func TestActiveFocusablesExcludesSkippable(t *testing.T) {
	tr := tree.NewTree(nil)
	r := NewRegistry()
	a := makeFocusable(tr, 0, 0)
	b := makeFocusable(tr, 1, 0)
	r.Register(a)
	r.Register(b)
	r.SetSkippable(a.FocusID, true)

	ids := r.ActiveFocusables()
	if len(ids) != 1 || ids[0] != b.FocusID {
		t.Fatalf("ids = %+v, want only b", ids)
	}
}

func TestActiveFocusablesRespectsTrap(t *testing.T) {
	tr := tree.NewTree(nil)
	r := NewRegistry()

	modal := tr.CreateNode(tree.KindBox, nil)
	inside := makeFocusable(tr, 0, 0)
	inside.Parent = modal
	outside := makeFocusable(tr, 1, 0)

	r.Register(inside)
	r.Register(outside)
	r.PushTrap(modal)

	ids := r.ActiveFocusables()
	if len(ids) != 1 || ids[0] != inside.FocusID {
		t.Fatalf("ids = %+v, want only inside the trap", ids)
	}

	r.PopTrap()
	ids = r.ActiveFocusables()
	if len(ids) != 2 {
		t.Fatalf("expected trap pop to restore both candidates, got %+v", ids)
	}
}

func TestFocusNextWrapsAround(t *testing.T) {
	tr := tree.NewTree(nil)
	r := NewRegistry()
	a := makeFocusable(tr, 0, 0)
	b := makeFocusable(tr, 1, 0)
	r.Register(a)
	r.Register(b)

	r.Focus(b.FocusID)
	r.FocusNext()
	if r.Focused() != a.FocusID {
		t.Fatalf("focused = %q, want wrap to a", r.Focused())
	}
}

func TestDispatchPriorityHandlerWinsOverFocused(t *testing.T) {
	r := NewRegistry()
	var order []string
	r.AddPriorityHandler(func(input.Event) bool { order = append(order, "priority"); return true })
	r.AddGlobalHandler(func(input.Event) bool { order = append(order, "global"); return true })

	if !r.Dispatch(input.Event{Name: "char", Rune: 'x'}) {
		t.Fatalf("expected dispatch to report consumed")
	}
	if len(order) != 1 || order[0] != "priority" {
		t.Fatalf("order = %+v, want only priority to run", order)
	}
}

func TestDispatchTabAdvancesFocusBeforeGlobalHandlers(t *testing.T) {
	tr := tree.NewTree(nil)
	r := NewRegistry()
	a := makeFocusable(tr, 0, 0)
	b := makeFocusable(tr, 1, 0)
	r.Register(a)
	r.Register(b)
	r.Focus(a.FocusID)

	globalRan := false
	r.AddGlobalHandler(func(input.Event) bool { globalRan = true; return true })

	r.Dispatch(input.Event{Name: "tab"})
	if r.Focused() != b.FocusID {
		t.Fatalf("focused = %q, want b after tab", r.Focused())
	}
	if globalRan {
		t.Fatalf("expected tab advance to consume the event before global handlers ran")
	}
}

func TestDispatchCtrlCCallsOnExit(t *testing.T) {
	r := NewRegistry()
	called := false
	r.OnExit = func() { called = true }

	if !r.Dispatch(input.Event{Name: "char", Rune: 'c', Ctrl: true}) {
		t.Fatalf("expected Ctrl+C to be consumed")
	}
	if !called {
		t.Fatalf("expected OnExit to be called")
	}
}

func TestDispatchRecoversFromHandlerPanic(t *testing.T) {
	r := NewRegistry()
	var logged string
	r.DebugLog = func(s string) { logged = s }
	r.AddPriorityHandler(func(input.Event) bool { panic("boom") })

	consumed := r.Dispatch(input.Event{Name: "char", Rune: 'x'})
	if consumed {
		t.Fatalf("expected a recovered panic to not count as consumed")
	}
	if logged == "" {
		t.Fatalf("expected the panic to be logged via DebugLog")
	}
}

func TestUnregisterClearsFocusWhenNoFocusablesRemain(t *testing.T) {
	tr := tree.NewTree(nil)
	r := NewRegistry()
	a := makeFocusable(tr, 0, 0)
	r.Register(a)
	r.Focus(a.FocusID)

	r.Unregister(a.FocusID)
	if r.Focused() != "" {
		t.Fatalf("focused = %q, want cleared after unregister", r.Focused())
	}
}

func TestUnregisterMovesFocusToFirstActiveFocusable(t *testing.T) {
	tr := tree.NewTree(nil)
	r := NewRegistry()
	a := makeFocusable(tr, 0, 0)
	b := makeFocusable(tr, 1, 0)
	c := makeFocusable(tr, 2, 0)
	r.Register(a)
	r.Register(b)
	r.Register(c)
	r.Focus(a.FocusID)

	r.Unregister(a.FocusID)
	if r.Focused() != b.FocusID {
		t.Fatalf("focused = %q, want first remaining active focusable (b)", r.Focused())
	}
}
