package tree

import (
	"testing"

	"glyph/layout"
)

type fakeScheduler struct{ requests int }

func (f *fakeScheduler) Request() { f.requests++ }

func TestAppendChildOrderingAndBoxMirroring(t *testing.T) {
	tr := NewTree(nil)
	root := tr.CreateNode(KindBox, nil)
	tr.AddRoot(root)

	a := tr.CreateNode(KindBox, nil)
	b := tr.CreateNode(KindBox, nil)
	tr.AppendChild(root, a)
	tr.AppendChild(root, b)

	if len(root.Children) != 2 || root.Children[0] != a || root.Children[1] != b {
		t.Fatalf("children out of order: %+v", root.Children)
	}
	if len(root.Box().Children) != 2 || root.Box().Children[0] != a.box || root.Box().Children[1] != b.box {
		t.Fatalf("layout box children not mirrored")
	}
	if !tr.Dirty {
		t.Fatalf("expected AppendChild to mark dirty")
	}
}

func TestAppendChildReparentsAcrossParents(t *testing.T) {
	tr := NewTree(nil)
	p1 := tr.CreateNode(KindBox, nil)
	p2 := tr.CreateNode(KindBox, nil)
	tr.AddRoot(p1)
	tr.AddRoot(p2)

	child := tr.CreateNode(KindBox, nil)
	tr.AppendChild(p1, child)
	tr.AppendChild(p2, child)

	if len(p1.Children) != 0 {
		t.Fatalf("expected p1 to lose child on reparent, got %+v", p1.Children)
	}
	if len(p2.Children) != 1 || p2.Children[0] != child {
		t.Fatalf("expected p2 to own child, got %+v", p2.Children)
	}
	if child.Parent != p2 {
		t.Fatalf("child.Parent = %v, want p2", child.Parent)
	}
}

func TestAllChildrenMergesInterleavedOrder(t *testing.T) {
	tr := NewTree(nil)
	text := tr.CreateNode(KindText, nil)
	tr.AddRoot(text)

	f1 := tr.CreateTextFragment("hello ")
	span := tr.CreateNode(KindText, nil)
	f2 := tr.CreateTextFragment("world")

	tr.AppendChild(text, f1)
	tr.AppendChild(text, span)
	tr.AppendChild(text, f2)

	all := text.AllChildren()
	if len(all) != 3 {
		t.Fatalf("AllChildren length = %d, want 3", len(all))
	}
	if all[0] != ChildNode(f1) || all[1] != ChildNode(span) || all[2] != ChildNode(f2) {
		t.Fatalf("AllChildren order wrong: %+v", all)
	}
}

func TestTextCompositionRecomputesOnFragmentChange(t *testing.T) {
	tr := NewTree(nil)
	root := tr.CreateNode(KindText, nil)
	tr.AddRoot(root)

	a := tr.CreateTextFragment("foo")
	b := tr.CreateTextFragment("bar")
	tr.AppendChild(root, a)
	tr.AppendChild(root, b)
	if root.Text != "foobar" {
		t.Fatalf("Text = %q, want foobar", root.Text)
	}

	tr.RemoveChild(root, a)
	if root.Text != "bar" {
		t.Fatalf("Text after removal = %q, want bar", root.Text)
	}
}

func TestInsertBeforePlacesAtRefIndex(t *testing.T) {
	tr := NewTree(nil)
	root := tr.CreateNode(KindBox, nil)
	tr.AddRoot(root)

	a := tr.CreateNode(KindBox, nil)
	c := tr.CreateNode(KindBox, nil)
	tr.AppendChild(root, a)
	tr.AppendChild(root, c)

	b := tr.CreateNode(KindBox, nil)
	tr.InsertBefore(root, b, c)

	if len(root.Children) != 3 || root.Children[0] != a || root.Children[1] != b || root.Children[2] != c {
		t.Fatalf("children = %+v, want [a b c]", root.Children)
	}
	if root.Box().Children[1] != b.box {
		t.Fatalf("layout box not mirrored at insertion index")
	}
}

func TestRemoveChildEnqueuesBottomUpPendingClear(t *testing.T) {
	tr := NewTree(nil)
	root := tr.CreateNode(KindBox, nil)
	tr.AddRoot(root)

	parent := tr.CreateNode(KindBox, nil)
	child := tr.CreateNode(KindBox, nil)
	tr.AppendChild(root, parent)
	tr.AppendChild(parent, child)

	parent.Layout = layout.Rect{X: 1, Y: 1, Width: 5, Height: 2}
	child.Layout = layout.Rect{X: 2, Y: 1, Width: 2, Height: 1}

	tr.RemoveChild(root, parent)

	cleared := tr.DrainPendingClear()
	if len(cleared) != 2 {
		t.Fatalf("expected 2 cleared rects, got %d: %+v", len(cleared), cleared)
	}
	if cleared[0] != child.Layout {
		t.Fatalf("expected child's rect enqueued before parent's (bottom-up), got %+v", cleared)
	}
	if cleared[1] != parent.Layout {
		t.Fatalf("expected parent's rect last, got %+v", cleared)
	}
	if len(root.Children) != 0 {
		t.Fatalf("expected root to have no children after removal")
	}
}

func TestUpdatePropsMarksDirtyOnlyOnStyleChange(t *testing.T) {
	tr := NewTree(nil)
	n := tr.CreateNode(KindBox, nil)
	tr.Dirty = false

	tr.UpdateProps(n, map[string]any{"value": "x"}, nil)
	if tr.Dirty {
		t.Fatalf("expected props-only update to leave Dirty unset")
	}

	style := layout.Style{Width: layout.Const(layout.Cells(5))}
	tr.UpdateProps(n, map[string]any{"value": "x"}, &style)
	if !tr.Dirty {
		t.Fatalf("expected style update to mark Dirty")
	}
}

func TestCommitRequestsScheduler(t *testing.T) {
	sched := &fakeScheduler{}
	tr := NewTree(sched)
	tr.Commit()
	if sched.requests != 1 {
		t.Fatalf("requests = %d, want 1", sched.requests)
	}
}

func TestCollectStyledSegmentsCascadesBold(t *testing.T) {
	tr := NewTree(nil)
	root := tr.CreateNode(KindText, nil)
	root.ResolvedStyle.Bold = true
	tr.AddRoot(root)

	span := tr.CreateNode(KindText, nil)
	span.ResolvedStyle.Italic = true
	tr.AppendChild(root, span)
	tr.AppendChild(span, tr.CreateTextFragment("hi"))

	segs := CollectStyledSegments(root)
	if len(segs) != 1 {
		t.Fatalf("segments = %+v, want 1", segs)
	}
	if !segs[0].Style.Bold || !segs[0].Style.Italic {
		t.Fatalf("expected cascaded bold+italic, got %+v", segs[0].Style)
	}
	if segs[0].Text != "hi" {
		t.Fatalf("text = %q, want hi", segs[0].Text)
	}
}

func TestResolveStylesSkipsUnchangedCache(t *testing.T) {
	tr := NewTree(nil)
	root := tr.CreateNode(KindBox, nil)
	root.Style = layout.Style{Width: layout.Const(layout.Cells(10))}
	tr.AddRoot(root)

	ResolveStyles(tr.Roots, 80)
	first := root.resolvedAt
	ResolveStyles(tr.Roots, 80)
	if root.resolvedAt != first {
		t.Fatalf("expected cache hit to leave resolvedAt unchanged")
	}
}

func TestSolveCopiesRectsOntoNodes(t *testing.T) {
	tr := NewTree(nil)
	root := tr.CreateNode(KindBox, nil)
	root.Style = layout.Style{Width: layout.Const(layout.Cells(20)), Height: layout.Const(layout.Cells(5))}
	tr.AddRoot(root)

	ResolveStyles(tr.Roots, 20)
	Solve(tr, 20, 5)

	if root.Layout.Width != 20 || root.Layout.Height != 5 {
		t.Fatalf("root.Layout = %+v", root.Layout)
	}
}
