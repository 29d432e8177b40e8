package input

import "strconv"

// csiNamed covers the direct letter-terminated CSI sequences
// (ESC [ <mods;> <final>), widened from the teacher's four-arrow
// dispatchCSI switch to the fuller set terminals emit.
var csiNamed = map[byte]string{
	'A': "up", 'B': "down", 'C': "right", 'D': "left",
	'H': "home", 'F': "end",
	'P': "f1", 'Q': "f2", 'R': "f3", 'S': "f4",
}

// tildeNamed covers ESC [ <n> ~ (and its modifier-suffixed form
// ESC [ <n>;<mods> ~), extended from the teacher's 12-entry subset to
// the full VT220 parameter table.
var tildeNamed = map[string]string{
	"1": "home", "2": "insert", "3": "delete", "4": "end",
	"5": "pageup", "6": "pagedown",
	"7": "home", "8": "end", // alternate Home/End some terminals send
	"11": "f1", "12": "f2", "13": "f3", "14": "f4",
	"15": "f5", "17": "f6", "18": "f7", "19": "f8",
	"20": "f9", "21": "f10", "23": "f11", "24": "f12",
}

// decodeCSI has just consumed "ESC [" and reads parameter bytes until
// a final byte (0x40-0x7E) terminates the sequence, per §4.9's grammar.
func (d *Decoder) decodeCSI(in <-chan byte) {
	seq := []byte{0x1b, '['}
	var params []byte
	for {
		b, ok := readByteTimeout(in, csiTimeout)
		if !ok {
			d.emit(Event{Name: "unknown", Sequence: seq})
			return
		}
		seq = append(seq, b)
		if b >= 0x40 && b <= 0x7e {
			d.dispatchCSI(params, b, seq)
			return
		}
		params = append(params, b)
	}
}

func (d *Decoder) dispatchCSI(params []byte, final byte, seq []byte) {
	p := string(params)
	fields := splitFields(p)

	switch final {
	case 'u':
		d.dispatchKitty(fields, seq)
		return
	case '~':
		d.dispatchTilde(fields, seq)
		return
	case 'Z':
		// Backtab: a terminal cannot encode Shift onto the raw tab
		// byte, so reverse Tab always arrives as this CSI final
		// instead. Decode it as Name:"tab" with Shift set so
		// Dispatch's existing ev.Shift branch routes it to FocusPrev.
		mods := modsFromField(fields, 1)
		mods.shift = true
		d.emit(withMods(Event{Name: "tab", Sequence: seq}, mods))
		return
	}

	if name, ok := csiNamed[final]; ok {
		mods := modsFromField(fields, 1)
		d.emit(withMods(Event{Name: name, Sequence: seq}, mods))
		return
	}

	d.emit(Event{Name: "unknown", Sequence: seq})
}

// dispatchTilde handles both the ordinary tilde-table form
// ("<code>" or "<code>;<mods>") and xterm's modifyOtherKeys form
// ("27;<mods>;<code>"), per §4.9.
func (d *Decoder) dispatchTilde(fields []string, seq []byte) {
	if len(fields) == 3 && fields[0] == "27" {
		mods := modsFromFieldValue(fields[1])
		code, err := strconv.Atoi(fields[2])
		if err != nil {
			d.emit(Event{Name: "unknown", Sequence: seq})
			return
		}
		d.emit(withMods(Event{Name: "char", Rune: rune(code), Sequence: seq}, mods))
		return
	}

	if len(fields) == 0 {
		d.emit(Event{Name: "unknown", Sequence: seq})
		return
	}

	name, ok := tildeNamed[fields[0]]
	if !ok {
		d.emit(Event{Name: "unknown", Sequence: seq})
		return
	}
	mods := modsFromField(fields, 1)
	d.emit(withMods(Event{Name: name, Sequence: seq}, mods))
}

// dispatchKitty handles the Kitty keyboard protocol's "CSI code;mods u"
// form: code is the Unicode codepoint of the key.
func (d *Decoder) dispatchKitty(fields []string, seq []byte) {
	if len(fields) == 0 {
		d.emit(Event{Name: "unknown", Sequence: seq})
		return
	}
	code, err := strconv.Atoi(fields[0])
	if err != nil {
		d.emit(Event{Name: "unknown", Sequence: seq})
		return
	}
	mods := modsFromField(fields, 1)
	d.emit(withMods(Event{Name: "char", Rune: rune(code), Sequence: seq}, mods))
}

// decodeSS3 has just consumed "ESC O" and reads the single final byte
// that terminates an SS3 sequence (application-cursor-keys arrows and
// F1-F4 on terminals that emit this form instead of CSI).
func (d *Decoder) decodeSS3(in <-chan byte) {
	seq := []byte{0x1b, 'O'}
	b, ok := readByteTimeout(in, csiTimeout)
	if !ok {
		d.emit(Event{Name: "unknown", Sequence: seq})
		return
	}
	seq = append(seq, b)
	if name, ok := csiNamed[b]; ok {
		d.emit(Event{Name: name, Sequence: seq})
		return
	}
	d.emit(Event{Name: "unknown", Sequence: seq})
}

// splitFields splits a CSI parameter byte run on ';'. An empty input
// yields no fields.
func splitFields(p string) []string {
	if p == "" {
		return nil
	}
	var fields []string
	start := 0
	for i := 0; i < len(p); i++ {
		if p[i] == ';' {
			fields = append(fields, p[start:i])
			start = i + 1
		}
	}
	fields = append(fields, p[start:])
	return fields
}

// mods is the decoded shift/alt/ctrl/meta bitfield from an xterm
// modifier parameter.
type mods struct{ shift, alt, ctrl, meta bool }

// modsFromField reads fields[idx] (the modifier parameter, 1-based in
// xterm's own convention but already split into a flat field list
// here) if present, defaulting to no modifiers.
func modsFromField(fields []string, idx int) mods {
	if idx >= len(fields) {
		return mods{}
	}
	return modsFromFieldValue(fields[idx])
}

// modsFromFieldValue decodes xterm's "1+bits" modifier parameter:
// raw-1 is a bitfield of shift=1, alt=2, ctrl=4, meta=8, per §4.9.
func modsFromFieldValue(v string) mods {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return mods{}
	}
	bits := n - 1
	return mods{
		shift: bits&1 != 0,
		alt:   bits&2 != 0,
		ctrl:  bits&4 != 0,
		meta:  bits&8 != 0,
	}
}

func withMods(e Event, m mods) Event {
	e.Shift, e.Alt, e.Ctrl, e.Meta = m.shift, m.alt, m.ctrl, m.meta
	return e
}
