package paint

import (
	"strconv"
	"strings"

	"glyph/color"
)

// parseColor turns a layout.Style colour tag (an opaque string — the
// layout package never imports the colour domain so it can stay free
// of a paint dependency) into a color.Color. Recognised forms: the 16
// ANSI names (plus a "bright" prefix), "#rrggbb" truecolour hex, and
// "idx:N" for an 8-bit palette index — generalizing the teacher's
// name-to-escape GetColorCode table in basement/style.go from fixed
// ANSI escape strings to the full tagged colour domain.
func parseColor(tag string) color.Color {
	if tag == "" {
		return color.Color{}
	}
	if strings.HasPrefix(tag, "#") && len(tag) == 7 {
		r, err1 := strconv.ParseUint(tag[1:3], 16, 8)
		g, err2 := strconv.ParseUint(tag[3:5], 16, 8)
		b, err3 := strconv.ParseUint(tag[5:7], 16, 8)
		if err1 == nil && err2 == nil && err3 == nil {
			return color.NewRGB(uint8(r), uint8(g), uint8(b))
		}
		return color.Color{}
	}
	if strings.HasPrefix(tag, "idx:") {
		if n, err := strconv.Atoi(tag[4:]); err == nil && n >= 0 && n <= 255 {
			return color.NewIndexed(uint8(n))
		}
		return color.Color{}
	}
	bright := strings.HasPrefix(tag, "bright")
	name := strings.TrimPrefix(tag, "bright")
	idx, ok := namedIndex[name]
	if !ok {
		return color.Color{}
	}
	if bright {
		idx += 8
	}
	return color.NewNamed(idx)
}

var namedIndex = map[string]uint8{
	"black": 0, "red": 1, "green": 2, "yellow": 3,
	"blue": 4, "magenta": 5, "cyan": 6, "white": 7,
}
