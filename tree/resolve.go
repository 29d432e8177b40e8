package tree

import "glyph/layout"

// ResolveStyles recomputes ResolvedStyle for every node whose
// (columns, styleVersion) pair hasn't already been resolved, per
// §4.4's "Responsive resolution": "cache keys are (last_columns,
// style_ref); unchanged pairs skip re-resolution." It returns true if
// any node's resolved style actually changed (layout.Resolve may
// recompute but land on byte-identical ResolvedStyle values after a
// pure column-count change that lands in the same breakpoint bucket).
func ResolveStyles(roots []*Node, columns int) bool {
	changed := false
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.resolvedAt.valid || n.resolvedAt.columns != columns || n.resolvedAt.version != n.styleVersion {
			next := layout.Resolve(n.Style, columns)
			if next != n.ResolvedStyle {
				changed = true
			}
			n.ResolvedStyle = next
			n.box.SetStyle(next)
			n.resolvedAt.columns = columns
			n.resolvedAt.version = n.styleVersion
			n.resolvedAt.valid = true
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return changed
}

// Solve runs the layout solver over every root (each an independent
// flex formatting context sized to the full terminal), then copies
// solved rects back into each Node.Layout, enqueuing the vacated rect
// of any node whose position or size changed since the prior frame —
// the other half of §4.5/§4.6's pending-clear contribution, alongside
// RemoveChild's.
func Solve(t *Tree, columns, rows int) {
	for _, r := range t.Roots {
		layout.Solve(r.box, columns, rows)
		copyRects(t, r)
	}
}

func copyRects(t *Tree, n *Node) {
	if n.Layout != n.box.Rect {
		if n.Layout != (layout.Rect{}) {
			t.PendingClear = append(t.PendingClear, n.Layout)
		}
		n.Layout = n.box.Rect
	}
	for _, c := range n.Children {
		copyRects(t, c)
	}
}
