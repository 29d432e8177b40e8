package tree

import (
	"reflect"

	"glyph/layout"
)

// Scheduler is the single hook Commit calls into: the render loop's
// microtask-coalescing primitive (package internal/schedule's
// *Coalescer satisfies this with no adaptation needed). Accepting the
// interface here, rather than importing internal/schedule directly,
// keeps the tree package ignorant of how — or whether — a frame ends
// up scheduled, matching the teacher's habit of depending on behaviour
// (signals.Getter) rather than concrete reactive types.
type Scheduler interface {
	Request()
}

// Tree owns a forest of root Nodes plus the bookkeeping the
// reconciliation API (§4.11) and render loop (§4.12) share: the global
// layout-dirty flag and the pending-clear list of vacated rects.
type Tree struct {
	Roots []*Node

	// Dirty is set by any mutation and consulted (then cleared) by the
	// layout pass, per §4.4's "Dirty propagation": "A clean flag
	// short-circuits the entire pass."
	Dirty bool

	// PendingClear accumulates vacated rects from node removal and
	// from nodes whose Layout rect changed since the previous frame,
	// per §4.5 / §4.6's pre-clear pass. It is process-wide in the
	// sense that the single render loop owns and drains it each frame
	// (§5: single-owner, no locks).
	PendingClear []layout.Rect

	Scheduler Scheduler
}

// NewTree returns an empty Tree. sched may be nil in tests that never
// call Commit.
func NewTree(sched Scheduler) *Tree {
	return &Tree{Scheduler: sched}
}

// CreateNode implements §4.11's createNode(kind, props).
func (t *Tree) CreateNode(kind Kind, props map[string]any) *Node {
	return NewNode(kind, props)
}

// CreateTextFragment implements §4.11's createTextFragment(text).
func (t *Tree) CreateTextFragment(text string) *TextFragment {
	return &TextFragment{Text: text}
}

// AddRoot attaches a node as a top-level root (outside any parent),
// marking layout dirty. Roots are what paint.Collect walks.
func (t *Tree) AddRoot(n *Node) {
	t.Roots = append(t.Roots, n)
	t.Dirty = true
}

// AppendChild implements §4.11's appendChild: moves child to the end
// of parent's ordered list, detaching it from any prior parent first.
func (t *Tree) AppendChild(parent *Node, child ChildNode) {
	t.detach(child)
	switch c := child.(type) {
	case *Node:
		c.Parent = parent
		parent.Children = append(parent.Children, c)
		parent.box.AppendChild(c.box)
	case *TextFragment:
		parent.RawTextChildren = append(parent.RawTextChildren, c)
		parent.recomputeText()
	}
	parent.order = append(parent.order, child)
	t.Dirty = true
}

// InsertBefore implements §4.11's insertBefore: same as AppendChild but
// at ref's current index.
func (t *Tree) InsertBefore(parent *Node, child ChildNode, ref ChildNode) {
	t.detach(child)

	switch c := child.(type) {
	case *Node:
		idx := nodeIndex(parent.Children, ref)
		if idx < 0 {
			idx = len(parent.Children)
		}
		c.Parent = parent
		parent.Children = append(parent.Children, nil)
		copy(parent.Children[idx+1:], parent.Children[idx:])
		parent.Children[idx] = c
		parent.box.InsertChildAt(c.box, idx)
	case *TextFragment:
		idx := fragIndex(parent.RawTextChildren, ref)
		if idx < 0 {
			idx = len(parent.RawTextChildren)
		}
		parent.RawTextChildren = append(parent.RawTextChildren, nil)
		copy(parent.RawTextChildren[idx+1:], parent.RawTextChildren[idx:])
		parent.RawTextChildren[idx] = c
		parent.recomputeText()
	}

	orderIdx := orderIndex(parent.order, ref)
	if orderIdx < 0 {
		orderIdx = len(parent.order)
	}
	parent.order = append(parent.order, nil)
	copy(parent.order[orderIdx+1:], parent.order[orderIdx:])
	parent.order[orderIdx] = child

	t.Dirty = true
}

// RemoveChild implements §4.11's removeChild: detaches the subtree,
// enqueues its vacated rects, and frees solver handles bottom-up.
func (t *Tree) RemoveChild(parent *Node, child ChildNode) {
	t.detach(child)
	if n, ok := child.(*Node); ok {
		t.enqueueClearBottomUp(n)
	}
	t.Dirty = true
}

// UpdateProps implements §4.11's updateProps: replaces props/style and
// marks layout dirty only when the style reference changed
// structurally (compared by value with reflect.DeepEqual, since the
// responsive maps inside Style rule out ==; a nil or equal style
// leaves Style, styleVersion and Dirty untouched).
func (t *Tree) UpdateProps(n *Node, newProps map[string]any, newStyle *layout.Style) {
	n.Props = newProps
	if n.Props == nil {
		n.Props = map[string]any{}
	}
	if newStyle != nil && !reflect.DeepEqual(n.Style, *newStyle) {
		n.Style = *newStyle
		n.styleVersion++
		t.Dirty = true
	}
}

// Commit implements §4.11's commit(): signals end of a mutation batch
// and schedules a render via microtask coalescing. It never renders
// synchronously.
func (t *Tree) Commit() {
	if t.Scheduler != nil {
		t.Scheduler.Request()
	}
}

// detach removes child from whichever parent currently owns it, if
// any, updating that parent's Children/RawTextChildren/order and its
// layout.Box in lockstep.
func (t *Tree) detach(child ChildNode) {
	switch c := child.(type) {
	case *Node:
		if c.Parent == nil {
			return
		}
		p := c.Parent
		p.Children = removeNode(p.Children, c)
		p.order = removeFromOrder(p.order, child)
		p.box.RemoveChild(c.box)
		c.Parent = nil
	case *TextFragment:
		owner := t.ownerOf(c)
		if owner == nil {
			return
		}
		owner.RawTextChildren = removeFrag(owner.RawTextChildren, c)
		owner.order = removeFromOrder(owner.order, child)
		owner.recomputeText()
	}
}

// ownerOf walks the whole forest to find which node currently owns
// fragment f. Reconciler-driven trees are shallow and this only runs
// on a reparenting/removal of a text fragment, so a linear walk is
// simpler than threading an owner back-pointer through TextFragment.
func (t *Tree) ownerOf(f *TextFragment) *Node {
	var find func(n *Node) *Node
	find = func(n *Node) *Node {
		for _, cf := range n.RawTextChildren {
			if cf == f {
				return n
			}
		}
		for _, c := range n.Children {
			if owner := find(c); owner != nil {
				return owner
			}
		}
		return nil
	}
	for _, r := range t.Roots {
		if owner := find(r); owner != nil {
			return owner
		}
	}
	return nil
}

// enqueueClearBottomUp frees n's subtree bottom-up, per §4.5/§3's
// lifecycle rule ("A removed subtree is freed bottom-up synchronously;
// the subtree's last-known layout rect is pushed to a pending-clear
// list"), enqueuing every node's last-known rect, deepest first.
func (t *Tree) enqueueClearBottomUp(n *Node) {
	for _, c := range n.Children {
		t.enqueueClearBottomUp(c)
	}
	t.PendingClear = append(t.PendingClear, n.Layout)
}

// DrainPendingClear returns and clears the accumulated vacated rects,
// consumed once per frame by the painter's pre-clear pass.
func (t *Tree) DrainPendingClear() []layout.Rect {
	out := t.PendingClear
	t.PendingClear = nil
	return out
}

func nodeIndex(children []*Node, ref ChildNode) int {
	refNode, ok := ref.(*Node)
	if !ok {
		return -1
	}
	for i, c := range children {
		if c == refNode {
			return i
		}
	}
	return -1
}

func fragIndex(frags []*TextFragment, ref ChildNode) int {
	refFrag, ok := ref.(*TextFragment)
	if !ok {
		return -1
	}
	for i, f := range frags {
		if f == refFrag {
			return i
		}
	}
	return -1
}

func orderIndex(order []ChildNode, ref ChildNode) int {
	if ref == nil {
		return -1
	}
	for i, c := range order {
		if c == ref {
			return i
		}
	}
	return -1
}

func removeNode(children []*Node, target *Node) []*Node {
	for i, c := range children {
		if c == target {
			return append(children[:i], children[i+1:]...)
		}
	}
	return children
}

func removeFrag(frags []*TextFragment, target *TextFragment) []*TextFragment {
	for i, f := range frags {
		if f == target {
			return append(frags[:i], frags[i+1:]...)
		}
	}
	return frags
}

func removeFromOrder(order []ChildNode, target ChildNode) []ChildNode {
	for i, c := range order {
		if c == target {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
