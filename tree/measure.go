package tree

import (
	"strings"

	"glyph/layout"
	"glyph/text"
)

// measureLeaf is the MeasureFunc installed on text/input Box handles:
// it wraps the node's display text against the solver-proposed width
// exactly as §4.4 specifies ("a measure callback that invokes
// wrapLines against the solver-proposed width").
func measureLeaf(n *Node, constraintW, constraintH int) (int, int) {
	s := displayText(n)
	if s == "" {
		return 0, 0
	}
	lines := strings.Split(s, "\n")
	wrapped := text.WrapLines(lines, constraintW, wrapModeOf(n.ResolvedStyle.Wrap))
	size := text.Measure(strings.Join(wrapped, "\n"))
	if constraintH > 0 && size.Height > constraintH {
		size.Height = constraintH
	}
	return size.Width, size.Height
}

// displayText returns what a leaf node shows: composed Text for a text
// node, or value-else-placeholder for an input node per §3's props bag
// ("placeholder, value, cursor position for inputs").
func displayText(n *Node) string {
	switch n.Kind {
	case KindInput:
		if v, ok := n.Props["value"].(string); ok && v != "" {
			return v
		}
		if p, ok := n.Props["placeholder"].(string); ok {
			return p
		}
		return ""
	default:
		return n.Text
	}
}

func wrapModeOf(w layout.WrapMode) text.WrapMode {
	switch w {
	case layout.WrapTruncate:
		return text.WrapTruncate
	case layout.WrapNoneMode:
		return text.WrapNone
	default:
		return text.WrapGreedy
	}
}
