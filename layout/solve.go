package layout

// Solve runs the flexbox solver over root and every descendant,
// producing cell-exact Rects, per spec §4.4: bottom-up measure then
// top-down position, followed by an edge-based rounding pass.
func Solve(root *Box, columns, rows int) {
	w, h := resolveBoxSize(root, float64(columns), float64(rows))
	applyBox(root, 0, 0, w, h)
}

// applyBox positions box at (x,y) with an already-decided final (w,h)
// — the size a parent's flex distribution settled on — and recurses
// into children. It never re-derives its own size from Style; only
// resolveBoxSize (used during measurement, before grow/shrink is
// applied) consults Style.Width/Height directly.
func applyBox(box *Box, x, y, w, h float64) {
	s := box.Style

	box.rawX, box.rawY = x, y
	box.rawW, box.rawH = w, h

	padL, padT := float64(s.PaddingLeft), float64(s.PaddingTop)
	padR, padB := float64(s.PaddingRight), float64(s.PaddingBottom)
	borderW := 0.0
	if s.Border != BorderNone {
		borderW = 1
	}

	contentX := x + padL + borderW
	contentY := y + padT + borderW
	contentW := w - padL - padR - 2*borderW
	contentH := h - padT - padB - 2*borderW
	if contentW < 0 {
		contentW = 0
	}
	if contentH < 0 {
		contentH = 0
	}

	if box.Measure != nil {
		// Leaf node: nothing further to position.
		finalizeRect(box, contentX, contentY, contentW, contentH)
		return
	}

	var flow, absolute []*Box
	for _, c := range box.Children {
		if c.Style.Position == PositionAbsolute {
			absolute = append(absolute, c)
		} else {
			flow = append(flow, c)
		}
	}

	layoutFlow(box, flow, contentX, contentY, contentW, contentH)

	for _, c := range absolute {
		layoutAbsolute(c, contentX, contentY, contentW, contentH)
	}

	finalizeRect(box, contentX, contentY, contentW, contentH)
}

// resolveBoxSize determines a box's own border-box width/height. Fixed
// dimensions take their declared cell count; Auto dimensions for leaves
// call Measure; Auto dimensions for containers fall back to a
// content-sum over in-flow children (contentSize), matching CSS's
// flex-basis:auto-with-no-explicit-size behaviour, so that multiple
// flexGrow siblings with no declared width start from a zero basis
// instead of each independently claiming the full available span.
func resolveBoxSize(box *Box, availW, availH float64) (float64, float64) {
	s := box.Style
	needW := s.Width.Auto
	needH := s.Height.Auto
	var w, h float64
	if !needW {
		w = float64(s.Width.Cells)
	}
	if !needH {
		h = float64(s.Height.Cells)
	}

	if needW || needH {
		padL, padR := float64(s.PaddingLeft), float64(s.PaddingRight)
		padT, padB := float64(s.PaddingTop), float64(s.PaddingBottom)
		border := 0.0
		if s.Border != BorderNone {
			border = 2
		}

		if box.Measure != nil {
			innerAvailW := availW - padL - padR - border
			innerAvailH := availH - padT - padB - border
			if innerAvailW < 0 {
				innerAvailW = 0
			}
			if innerAvailH < 0 {
				innerAvailH = 0
			}
			mw, mh := box.Measure(int(innerAvailW), int(innerAvailH))
			if needW {
				w = float64(mw) + padL + padR + border
			}
			if needH {
				h = float64(mh) + padT + padB + border
			}
		} else {
			cw, ch := contentSize(box, availW, availH)
			if needW {
				w = cw
			}
			if needH {
				h = ch
			}
		}
	}

	w = clampDim(w, s.MinWidth, s.MaxWidth)
	h = clampDim(h, s.MinHeight, s.MaxHeight)
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

// contentSize computes a container's intrinsic border-box size as the
// sum (main axis) / max (cross axis) of its in-flow children's own
// basis sizes, recursing through resolveBoxSize. Absolutely-positioned
// children don't participate, since they're taken out of flow.
func contentSize(box *Box, availW, availH float64) (float64, float64) {
	s := box.Style
	padL, padR := float64(s.PaddingLeft), float64(s.PaddingRight)
	padT, padB := float64(s.PaddingTop), float64(s.PaddingBottom)
	border := 0.0
	if s.Border != BorderNone {
		border = 2
	}
	innerAvailW := availW - padL - padR - border
	innerAvailH := availH - padT - padB - border
	if innerAvailW < 0 {
		innerAvailW = 0
	}
	if innerAvailH < 0 {
		innerAvailH = 0
	}

	isRow := s.FlexDirection == Row
	var mainSum, crossMax float64
	n := 0
	for _, c := range box.Children {
		if c.Style.Position == PositionAbsolute {
			continue
		}
		cw, ch := resolveBoxSize(c, innerAvailW, innerAvailH)
		if isRow {
			mainSum += cw
			if ch > crossMax {
				crossMax = ch
			}
		} else {
			mainSum += ch
			if cw > crossMax {
				crossMax = cw
			}
		}
		n++
	}
	if n > 1 {
		mainSum += float64(s.Gap) * float64(n-1)
	}

	if isRow {
		return mainSum + padL + padR + border, crossMax + padT + padB + border
	}
	return crossMax + padL + padR + border, mainSum + padT + padB + border
}

// clampDim applies min/max constraints. A Dimension with Cells<=0 and
// Auto false is the zero value every ResolvedStyle literal starts
// from when not routed through Resolve(), so it's treated as "no
// constraint" here rather than an explicit zero bound — nothing ever
// legitimately declares max-width:0.
func clampDim(v float64, min, max Dimension) float64 {
	if !min.Auto && min.Cells > 0 && v < float64(min.Cells) {
		v = float64(min.Cells)
	}
	if !max.Auto && max.Cells > 0 && v > float64(max.Cells) {
		v = float64(max.Cells)
	}
	return v
}

type measuredChild struct {
	box        *Box
	mainBasis  float64
	crossBasis float64
}

// layoutFlow positions box's in-flow children along the main axis
// defined by box.Style.FlexDirection, handling grow/shrink, wrap,
// justify-content and align-items per spec §3/§4.4.
func layoutFlow(box *Box, children []*Box, x, y, w, h float64) {
	s := box.Style
	isRow := s.FlexDirection == Row
	mainAvail, crossAvail := w, h
	if !isRow {
		mainAvail, crossAvail = h, w
	}

	measured := make([]measuredChild, len(children))
	for i, c := range children {
		mainBasis, crossBasis := measureBasis(c, isRow, mainAvail, crossAvail)
		measured[i] = measuredChild{box: c, mainBasis: mainBasis, crossBasis: crossBasis}
	}

	gap := float64(s.Gap)
	lines := packLines(measured, mainAvail, gap, s.FlexWrap)

	crossCursor := 0.0

	for _, line := range lines {
		lineMain := growShrink(line, mainAvail, gap)
		var lineCross float64
		if s.FlexWrap {
			// Multiple lines may stack along the cross axis, so each
			// line's cross extent is only as tall as its own content.
			for _, m := range line {
				if m.crossBasis > lineCross {
					lineCross = m.crossBasis
				}
			}
		} else {
			// A single unwrapped line fills the container's full
			// cross span, so align-items/stretch work against the
			// whole available space rather than the tallest sibling.
			lineCross = crossAvail
		}

		mainCursor := justifyOffset(s.JustifyContent, mainAvail, lineMain, len(line), gap)
		stepGap := gap
		if s.JustifyContent == JustifySpaceBetween && len(line) > 1 {
			stepGap = (mainAvail - sumMain(line)) / float64(len(line)-1)
		} else if s.JustifyContent == JustifySpaceAround && len(line) > 0 {
			stepGap = (mainAvail - sumMain(line)) / float64(len(line))
		} else if s.JustifyContent == JustifySpaceEvenly && len(line) > 0 {
			stepGap = (mainAvail - sumMain(line)) / float64(len(line)+1)
		}

		for i, m := range line {
			crossSize := m.crossBasis
			crossPos := alignOffset(s.AlignItems, crossAvail, crossSize, lineCross)
			if s.AlignItems == AlignStretch && m.box.Style.crossDimAuto(isRow) {
				crossSize = lineCross
			}

			var cx, cy, cw, ch float64
			if isRow {
				cx, cy = x+mainCursor, y+crossCursor+crossPos
				cw, ch = m.mainBasis, crossSize
			} else {
				cx, cy = x+crossCursor+crossPos, y+mainCursor
				cw, ch = crossSize, m.mainBasis
			}
			applyBox(m.box, cx, cy, cw, ch)

			mainCursor += m.mainBasis
			if i < len(line)-1 {
				mainCursor += stepGap
			}
		}
		crossCursor += lineCross + gap
	}
}

// crossDimAuto reports whether the child's cross-axis dimension (the
// one AlignStretch would resize) is Auto.
func (s ResolvedStyle) crossDimAuto(parentIsRow bool) bool {
	if parentIsRow {
		return s.Height.Auto
	}
	return s.Width.Auto
}

// measureBasis measures a child's main/cross basis sizes given the
// parent's available main/cross space.
func measureBasis(c *Box, parentIsRow bool, mainAvail, crossAvail float64) (main, cross float64) {
	var availW, availH float64
	if parentIsRow {
		availW, availH = mainAvail, crossAvail
	} else {
		availW, availH = crossAvail, mainAvail
	}
	w, h := resolveBoxSize(c, availW, availH)
	if parentIsRow {
		return w, h
	}
	return h, w
}

func sumMain(line []measuredChild) float64 {
	var total float64
	for _, m := range line {
		total += m.mainBasis
	}
	return total
}

// packLines greedily packs measured children into flex lines that fit
// within mainAvail when wrap is enabled; otherwise everything is one
// line, per spec's flexWrap property.
func packLines(children []measuredChild, mainAvail, gap float64, wrap bool) [][]measuredChild {
	if !wrap || len(children) == 0 {
		return [][]measuredChild{children}
	}
	var lines [][]measuredChild
	var cur []measuredChild
	var curMain float64
	for _, m := range children {
		add := m.mainBasis
		if len(cur) > 0 {
			add += gap
		}
		if len(cur) > 0 && curMain+add > mainAvail {
			lines = append(lines, cur)
			cur = nil
			curMain = 0
			add = m.mainBasis
		}
		cur = append(cur, m)
		curMain += add
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// growShrink distributes leftover/overflow main-axis space among a
// line's children per their flexGrow/flexShrink weights, mutating each
// measuredChild's mainBasis in place, and returns the line's total
// main-axis extent after distribution.
func growShrink(line []measuredChild, mainAvail, gap float64) float64 {
	total := sumMain(line)
	if len(line) > 1 {
		total += gap * float64(len(line)-1)
	}
	leftover := mainAvail - total

	if leftover > 0 {
		var totalGrow float64
		for _, m := range line {
			totalGrow += m.box.Style.FlexGrow
		}
		if totalGrow > 0 {
			for i := range line {
				share := leftover * (line[i].box.Style.FlexGrow / totalGrow)
				line[i].mainBasis += share
			}
			total = mainAvail
		}
	} else if leftover < 0 {
		deficit := -leftover
		var totalShrinkWeighted float64
		for _, m := range line {
			totalShrinkWeighted += m.box.Style.FlexShrink * m.mainBasis
		}
		if totalShrinkWeighted > 0 {
			for i := range line {
				w := line[i].box.Style.FlexShrink * line[i].mainBasis
				reduce := deficit * (w / totalShrinkWeighted)
				line[i].mainBasis -= reduce
				if line[i].mainBasis < 0 {
					line[i].mainBasis = 0
				}
			}
			total = sumMain(line)
			if len(line) > 1 {
				total += gap * float64(len(line)-1)
			}
		}
	}
	return total
}

// justifyOffset returns the starting main-axis cursor offset for the
// first child in a line, per the justify-content value.
func justifyOffset(j Justify, mainAvail, lineMain float64, count int, gap float64) float64 {
	leftover := mainAvail - lineMain
	if leftover <= 0 || count == 0 {
		return 0
	}
	switch j {
	case JustifyEnd:
		return leftover
	case JustifyCenter:
		return leftover / 2
	case JustifySpaceAround:
		return leftover / float64(count) / 2
	case JustifySpaceEvenly:
		return leftover / float64(count+1)
	default:
		return 0
	}
}

// alignOffset returns the cross-axis offset of a child within its line
// for non-stretch alignment.
func alignOffset(a Align, crossAvail, childCross, lineCross float64) float64 {
	leftover := lineCross - childCross
	switch a {
	case AlignEnd:
		return leftover
	case AlignCenter:
		return leftover / 2
	default:
		return 0
	}
}

// layoutAbsolute positions an absolutely-positioned child against the
// parent's padding box using top/right/bottom/left/inset, per spec
// §4.4's "Absolute positioning" rule.
func layoutAbsolute(c *Box, parentX, parentY, parentW, parentH float64) {
	s := c.Style
	top, hasTop := s.Top, s.HasTop
	right, hasRight := s.Right, s.HasRight
	bottom, hasBottom := s.Bottom, s.HasBottom
	left, hasLeft := s.Left, s.HasLeft

	if s.HasInset {
		if !hasTop {
			top, hasTop = s.Inset, true
		}
		if !hasRight {
			right, hasRight = s.Inset, true
		}
		if !hasBottom {
			bottom, hasBottom = s.Inset, true
		}
		if !hasLeft {
			left, hasLeft = s.Inset, true
		}
	}

	w, h := resolveBoxSize(c, parentW, parentH)

	x := parentX
	if hasLeft {
		x = parentX + float64(left)
	} else if hasRight {
		x = parentX + parentW - float64(right) - w
	}

	y := parentY
	if hasTop {
		y = parentY + float64(top)
	} else if hasBottom {
		y = parentY + parentH - float64(bottom) - h
	}

	applyBox(c, x, y, w, h)
}

// finalizeRect performs the edge-based rounding pass from spec §4.4:
// round both edges independently so sibling edges stay collision-free,
// then derive width/height from the rounded difference.
func finalizeRect(box *Box, innerX, innerY, innerW, innerH float64) {
	left := roundf(box.rawX)
	top := roundf(box.rawY)
	right := roundf(box.rawX + box.rawW)
	bottom := roundf(box.rawY + box.rawH)

	box.Rect = Rect{
		X:      left,
		Y:      top,
		Width:  right - left,
		Height: bottom - top,
	}

	ix := roundf(innerX)
	iy := roundf(innerY)
	iw := roundf(innerX + innerW)
	ih := roundf(innerY + innerH)
	box.Rect.InnerX = ix
	box.Rect.InnerY = iy
	box.Rect.InnerWidth = iw - ix
	box.Rect.InnerHeight = ih - iy
}

func roundf(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}
