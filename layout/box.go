package layout

// MeasureFunc measures a leaf node's content (text/input) against a
// proposed width, returning the content's natural (width, height) in
// cells. Package tree installs one on text and input nodes that wraps
// their text with package text, per spec §4.4.
type MeasureFunc func(constraintW, constraintH int) (w, h int)

// Box is the layout engine's own handle tree, allocated eagerly per
// node per spec §3 ("Yoga-style layout handle is allocated eagerly").
// It is kept separate from the retained tree.Node so the layout engine
// has no dependency on the tree package; tree.Node holds a *Box and
// copies its solved Rect back out after each Solve.
type Box struct {
	Style    ResolvedStyle
	Children []*Box
	Measure  MeasureFunc // nil for non-leaf boxes

	// UserData lets the owner (tree.Node) recover itself after a solve
	// pass without layout importing tree.
	UserData interface{}

	// computed during Solve; raw float positions before edge rounding
	rawX, rawY, rawW, rawH float64

	Rect Rect
}

// NewBox allocates an empty layout handle.
func NewBox() *Box {
	return &Box{}
}

// SetStyle installs the resolved style this box solves against.
func (b *Box) SetStyle(s ResolvedStyle) {
	b.Style = s
}

// AppendChild appends child to b's child list, removing it from any
// prior parent position first (tree.Node's reconciliation API is
// responsible for calling this in lockstep with its own child list).
func (b *Box) AppendChild(child *Box) {
	b.RemoveChild(child)
	b.Children = append(b.Children, child)
}

// InsertChildAt inserts child at index i, clamped to [0,len].
func (b *Box) InsertChildAt(child *Box, i int) {
	b.RemoveChild(child)
	if i < 0 {
		i = 0
	}
	if i > len(b.Children) {
		i = len(b.Children)
	}
	b.Children = append(b.Children, nil)
	copy(b.Children[i+1:], b.Children[i:])
	b.Children[i] = child
}

// RemoveChild detaches child if present.
func (b *Box) RemoveChild(child *Box) {
	for i, c := range b.Children {
		if c == child {
			b.Children = append(b.Children[:i], b.Children[i+1:]...)
			return
		}
	}
}
