package color

import "strconv"

// Attrs is a bitmask of SGR text attributes a cell can carry.
type Attrs uint8

const (
	Bold Attrs = 1 << iota
	Dim
	Italic
	Underline
	Strike
)

// Has reports whether a is set within m.
func (m Attrs) Has(a Attrs) bool { return m&a != 0 }

// Encode appends the shortest SGR sequence that sets fg/bg/attrs onto dst
// and returns the extended slice. It never emits a reset; callers track
// running state and emit CSI 0 m themselves when attributes need to
// clear rather than just change, per spec §4.7.
func Encode(dst []byte, fg, bg Color, attrs Attrs) []byte {
	var codes []int

	if attrs.Has(Bold) {
		codes = append(codes, 1)
	}
	if attrs.Has(Dim) {
		codes = append(codes, 2)
	}
	if attrs.Has(Italic) {
		codes = append(codes, 3)
	}
	if attrs.Has(Underline) {
		codes = append(codes, 4)
	}
	if attrs.Has(Strike) {
		codes = append(codes, 9)
	}

	appendColorCodes(fg, false, &codes)
	appendColorCodes(bg, true, &codes)

	if len(codes) == 0 {
		return dst
	}
	dst = append(dst, '\x1b', '[')
	for i, c := range codes {
		if i > 0 {
			dst = append(dst, ';')
		}
		dst = strconv.AppendInt(dst, int64(c), 10)
	}
	dst = append(dst, 'm')
	return dst
}

// appendColorCodes pushes the SGR parameter codes for c (foreground or
// background, per bg) into codes, choosing the shortest form per
// spec §4.2: basic 30-37/40-47, bright 90-97/100-107, 8-bit 38;5;n /
// 48;5;n, truecolour 38;2;r;g;b / 48;2;r;g;b.
func appendColorCodes(c Color, bg bool, codes *[]int) {
	base := 30
	brightBase := 90
	extPrefix := 38
	if bg {
		base = 40
		brightBase = 100
		extPrefix = 48
	}

	switch c.Kind {
	case None:
		// no-op
	case Named:
		i := int(c.Index)
		if i <= 7 {
			*codes = append(*codes, base+i)
		} else if i <= 15 {
			*codes = append(*codes, brightBase+(i-8))
		} else {
			*codes = append(*codes, extPrefix, 5, i)
		}
	case Indexed:
		*codes = append(*codes, extPrefix, 5, int(c.Index))
	case RGB:
		*codes = append(*codes, extPrefix, 2, int(c.R), int(c.G), int(c.B))
	}
}
