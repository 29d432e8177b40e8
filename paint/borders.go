package paint

import "glyph/layout"

// borderSet is the eight box-drawing glyphs a border style needs:
// corners then edges, matching the teacher's hardcoded drawBorder
// layout in tui/layout_engine.go but keyed by BorderStyle so it
// generalizes to every character set spec §4.6 names instead of the
// teacher's single hardcoded ┌─┐│└┘ set.
type borderSet struct {
	topLeft, topRight, bottomLeft, bottomRight rune
	horizontal, vertical                       rune
}

var borderSets = map[layout.BorderStyle]borderSet{
	layout.BorderSingle: {'┌', '┐', '└', '┘', '─', '│'},
	layout.BorderDouble: {'╔', '╗', '╚', '╝', '═', '║'},
	layout.BorderRound:  {'╭', '╮', '╰', '╯', '─', '│'},
	layout.BorderHeavy:  {'┏', '┓', '┗', '┛', '━', '┃'},
}
