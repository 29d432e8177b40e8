package layout

// Rect is a computed layout rectangle in cells, plus the inner
// (padding/border-adjusted) content box, per spec §3's Node.layout.
type Rect struct {
	X, Y, Width, Height                 int
	InnerX, InnerY, InnerWidth, InnerHeight int
}

// Intersect returns the overlap of a and b, which may have zero width
// or height if they don't overlap.
func (a Rect) Intersect(b Rect) Rect {
	x0 := max(a.X, b.X)
	y0 := max(a.Y, b.Y)
	x1 := min(a.X+a.Width, b.X+b.Width)
	y1 := min(a.Y+a.Height, b.Y+b.Height)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Contains reports whether (x,y) lies within the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
