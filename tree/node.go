// Package tree implements Glyph's retained UI tree: the Node/TextFragment
// entities of spec §3, the reconciliation API of §4.11, and the
// parent-owns-children, pending-clear-on-removal bookkeeping of §4.5.
package tree

import "glyph/layout"

// Kind identifies what a Node represents.
type Kind int

const (
	KindBox Kind = iota
	KindText
	KindInput
)

// ChildNode marks the two entity types a parent Node can own: nested
// Nodes (layout participants) and raw text fragments (composed into a
// text node's Text but never laid out themselves).
type ChildNode interface {
	isChild()
}

// TextFragment is a raw-text leaf inserted via CreateTextFragment. It
// never gets its own layout.Box; its content only ever contributes to
// an ancestor text node's composed Text.
type TextFragment struct {
	Text string
}

func (*TextFragment) isChild() {}

// Node is the retained tree entity described by spec §3. Children owns
// its child Nodes exclusively; Parent is a non-owning back-reference
// used only for traversal (never for lifetime), per §4.5 — mirroring
// the straightforward owned-slice shape the teacher's basement.Node
// already used (AddChild appending to a Children slice) rather than
// the linked-list Next/Prev/FirstChild/LastChild fields referenced
// only in the teacher's layout_api.go and never actually wired up.
type Node struct {
	Kind  Kind
	Props map[string]any

	Style         layout.Style
	ResolvedStyle layout.ResolvedStyle

	Children        []*Node
	RawTextChildren []*TextFragment

	Parent *Node

	Text string

	Layout layout.Rect

	FocusID string
	Hidden  bool
	ZIndex  int

	// box is the eagerly-allocated layout handle (spec §3's "Yoga-style
	// layout handle is allocated eagerly"), kept in lockstep with
	// Children by the reconciliation API below.
	box *layout.Box

	// order is Children and RawTextChildren merged in current
	// insertion/reparenting order — the "allChildren" sequence of
	// spec §3, maintained incrementally by the reconciliation API
	// rather than recomputed by a sort on every read.
	order []ChildNode

	// styleVersion increments each time UpdateProps replaces Style
	// with a structurally different value, so the layout pass can
	// skip re-resolving a node whose (columns, styleVersion) pair was
	// already resolved, per §4.4's "(last_columns, style_ref)" cache.
	styleVersion int
	resolvedAt   struct {
		columns int
		version int
		valid   bool
	}
}

func (*Node) isChild() {}

// NewNode constructs a Node per createNode's contract (§4.11): empty
// children, zeroed layout, a stable FocusID when the node is focusable.
func NewNode(kind Kind, props map[string]any) *Node {
	n := &Node{Kind: kind, Props: props}
	if props == nil {
		n.Props = map[string]any{}
	}
	if kind == KindInput || truthy(n.Props["focusable"]) {
		n.FocusID = newFocusID()
	}
	n.box = layout.NewBox()
	n.box.UserData = n
	if kind == KindText || kind == KindInput {
		n.box.Measure = func(cw, ch int) (int, int) { return measureLeaf(n, cw, ch) }
	}
	return n
}

func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// Box returns the node's layout handle, consulted by the layout package
// (via Solve) and by the painter to read back n.box.Rect after solving.
func (n *Node) Box() *layout.Box { return n.box }

// AllChildren returns Children and RawTextChildren merged in current
// interleaved order, per §3's "allChildren" and §4.5's text composition
// requirement.
func (n *Node) AllChildren() []ChildNode {
	out := make([]ChildNode, len(n.order))
	copy(out, n.order)
	return out
}

// recomputeText recomputes Text as spec §4.5 describes: the
// left-to-right concatenation of RawTextChildren. Called by the tree
// whenever this node's children change.
func (n *Node) recomputeText() {
	if len(n.RawTextChildren) == 0 {
		n.Text = ""
		return
	}
	total := 0
	for _, f := range n.RawTextChildren {
		total += len(f.Text)
	}
	buf := make([]byte, 0, total)
	for _, f := range n.RawTextChildren {
		buf = append(buf, f.Text...)
	}
	n.Text = string(buf)
}

var focusIDCounter uint64

// newFocusID returns a stable, globally-unique FocusID, satisfying
// §3's "a node's focusId is globally unique across its lifetime".
func newFocusID() string {
	focusIDCounter++
	return "focus-" + itoa(focusIDCounter)
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
