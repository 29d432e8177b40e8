package tree

import "glyph/layout"

// StyledSegment is a single run of text sharing one fully-merged
// style, the unit CollectStyledSegments emits.
type StyledSegment struct {
	Text  string
	Style layout.ResolvedStyle
}

// CollectStyledSegments walks n's AllChildren carrying an inherited
// style stack and emits (text, style) runs, per §4.5: "nested styled
// text is handled by collectStyledSegments, which walks allChildren
// carrying the inherited style stack and emits (slice, style) runs."
// Adapted from the teacher's tui/render.go renderNode/mergeStyles
// tree-walk (NodeStyle/NodeBlock cascading child style over parent),
// generalized from the teacher's markdown AST to Glyph's tree.Node.
func CollectStyledSegments(n *Node) []StyledSegment {
	var segs []StyledSegment
	var walk func(node *Node, inherited layout.ResolvedStyle)
	walk = func(node *Node, inherited layout.ResolvedStyle) {
		merged := mergeStyle(inherited, node.ResolvedStyle)
		for _, child := range node.AllChildren() {
			switch v := child.(type) {
			case *TextFragment:
				if v.Text != "" {
					segs = append(segs, StyledSegment{Text: v.Text, Style: merged})
				}
			case *Node:
				walk(v, merged)
			}
		}
	}
	walk(n, layout.ResolvedStyle{})
	return segs
}

// mergeStyle cascades the text-relevant attributes of parent onto
// child, OR-ing boolean flags and falling back to the parent's colour
// when the child leaves one unset — exactly the teacher's mergeStyles
// shape in tui/render.go, generalized from basement.Style's six flags
// to layout.ResolvedStyle's superset.
func mergeStyle(parent, child layout.ResolvedStyle) layout.ResolvedStyle {
	out := child
	out.Bold = parent.Bold || child.Bold
	out.Dim = parent.Dim || child.Dim
	out.Italic = parent.Italic || child.Italic
	out.Underline = parent.Underline || child.Underline
	out.Strikethrough = parent.Strikethrough || child.Strikethrough
	if child.Color == "" {
		out.Color = parent.Color
	}
	if child.Bg == "" {
		out.Bg = parent.Bg
	}
	return out
}
