// Package text implements Unicode-aware measurement, word wrap, and
// truncation for the painter, per spec §4.3.
package text

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Size is the measured dimensions of a (possibly multi-line) string.
type Size struct {
	Width, Height int
}

// Width returns the terminal display width of s: the sum of each
// rune's display width (0 for control/combining, 2 for CJK/emoji, 1
// otherwise).
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Measure returns {width,height} for a (possibly multi-line) string:
// width is the widest line's display width, height is the line count.
func Measure(s string) Size {
	lines := strings.Split(s, "\n")
	maxW := 0
	for _, l := range lines {
		if w := Width(l); w > maxW {
			maxW = w
		}
	}
	return Size{Width: maxW, Height: len(lines)}
}

// WrapMode selects how WrapLines handles lines wider than maxWidth.
type WrapMode int

const (
	// WrapGreedy word-breaks at spaces; words longer than maxWidth are
	// hard-broken at grapheme boundaries. Leading spaces are preserved.
	WrapGreedy WrapMode = iota
	// WrapTruncate keeps a single line, cut at the last grapheme that fits.
	WrapTruncate
	// WrapNone performs no transformation; the painter clips downstream.
	WrapNone
)

// WrapLines transforms lines according to mode, per spec §4.3.
func WrapLines(lines []string, maxWidth int, mode WrapMode) []string {
	switch mode {
	case WrapTruncate:
		out := make([]string, len(lines))
		for i, l := range lines {
			out[i] = TruncateToWidth(l, maxWidth)
		}
		return out
	case WrapNone:
		out := make([]string, len(lines))
		copy(out, lines)
		return out
	default:
		var out []string
		for _, l := range lines {
			out = append(out, wrapGreedy(l, maxWidth)...)
		}
		return out
	}
}

// wrapGreedy word-wraps a single line (no embedded newlines) to maxWidth.
func wrapGreedy(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{""}
	}
	if Width(line) <= maxWidth {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	curWidth := 0

	words := splitPreservingSpaces(line)
	for _, word := range words {
		wWidth := Width(word)

		if curWidth+wWidth > maxWidth && cur.Len() > 0 {
			// Break the line here; the spaces in front of the word
			// are replaced by the line break.
			result = append(result, cur.String())
			cur.Reset()
			curWidth = 0
			word = strings.TrimLeft(word, " ")
			wWidth = Width(word)
		}

		if wWidth > maxWidth {
			// Word alone exceeds maxWidth: hard-break at grapheme
			// boundaries.
			result = append(result, HardBreak(word, maxWidth)...)
			continue
		}
		cur.WriteString(word)
		curWidth += wWidth
	}
	if cur.Len() > 0 || len(result) == 0 {
		result = append(result, cur.String())
	}
	return result
}

// splitPreservingSpaces splits on word boundaries but keeps each run of
// leading spaces attached to the following word, so wrapGreedy can
// preserve leading spaces within a produced line per spec §4.3.
func splitPreservingSpaces(line string) []string {
	var words []string
	var cur strings.Builder
	inSpace := false
	started := false

	for _, r := range line {
		isSpace := r == ' '
		if started && isSpace != inSpace && !inSpace {
			// Transition from word to space: flush the word, start a
			// fresh token that will carry the space prefix.
			words = append(words, cur.String())
			cur.Reset()
		}
		cur.WriteRune(r)
		inSpace = isSpace
		started = true
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}

// HardBreak splits s into chunks of at most maxWidth display columns,
// breaking only at grapheme cluster boundaries so combining marks and
// ZWJ emoji sequences are never split.
func HardBreak(s string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{s}
	}
	var out []string
	var cur strings.Builder
	curWidth := 0

	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		cw := Width(cluster)
		if curWidth+cw > maxWidth && cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curWidth = 0
		}
		cur.WriteString(cluster)
		curWidth += cw
	}
	if cur.Len() > 0 || len(out) == 0 {
		out = append(out, cur.String())
	}
	return out
}

// TruncateToWidth keeps s as a single line, cutting at the last
// grapheme boundary that fits within maxWidth columns.
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if Width(s) <= maxWidth {
		return s
	}
	var out strings.Builder
	width := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		cw := Width(cluster)
		if width+cw > maxWidth {
			break
		}
		out.WriteString(cluster)
		width += cw
	}
	return out.String()
}
