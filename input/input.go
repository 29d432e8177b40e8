// Package input decodes a raw terminal byte stream into key events,
// per spec §4.9. It generalizes the teacher's tui/input.go + tui/key.go
// wholesale: the byte-channel relay shape (a single goroutine ever
// touches the upstream channel, feeding a decode loop, so no
// bufio.Reader is ever touched concurrently) is kept exactly; the
// decoding itself is widened from the teacher's ad-hoc switch
// statements into the full VT/Kitty/xterm grammar.
package input

import "time"

// Event is one decoded key press. Sequence carries the raw bytes that
// produced it — the teacher never retained these; Glyph keeps them so
// callers can fall back to the wire bytes for anything the grammar
// doesn't name.
type Event struct {
	Name     string
	Rune     rune
	Sequence []byte
	Ctrl     bool
	Alt      bool
	Shift    bool
	Meta     bool
}

// escTimeout bounds how long decodeEsc waits for a follow-up byte
// before concluding a bare ESC (the Esc key) was pressed, matching the
// teacher's processEsc wait in tui/input.go.
const escTimeout = 10 * time.Millisecond

// csiTimeout bounds the wait between bytes inside an in-progress CSI
// or SS3 sequence, matching the teacher's csiTimeout constant.
const csiTimeout = 50 * time.Millisecond

// Decoder turns a raw byte channel (e.g. term.Terminal.Input()) into a
// channel of Events.
type Decoder struct {
	out chan Event
}

// NewDecoder starts decoding in immediately in a background goroutine.
func NewDecoder(in <-chan byte) *Decoder {
	d := &Decoder{out: make(chan Event)}
	go d.loop(in)
	return d
}

// Events returns the channel of decoded key events. It closes when the
// upstream byte channel closes.
func (d *Decoder) Events() <-chan Event { return d.out }

func (d *Decoder) loop(in <-chan byte) {
	defer close(d.out)
	for {
		b, ok := <-in
		if !ok {
			return
		}
		if b == 0x1b {
			d.decodeEsc(in)
		} else {
			d.decodeByte(b)
		}
	}
}

func (d *Decoder) emit(e Event) { d.out <- e }

// decodeByte handles any byte that didn't start an escape sequence:
// control bytes, DEL, and plain printable runes. Every path emits
// exactly one event, satisfying decoder totality.
func (d *Decoder) decodeByte(b byte) {
	switch {
	case b == 0x0d:
		d.emit(Event{Name: "return", Sequence: []byte{b}})
	case b == 0x09:
		d.emit(Event{Name: "tab", Sequence: []byte{b}})
	case b == 0x08:
		d.emit(Event{Name: "backspace", Sequence: []byte{b}})
	case b == 0x7f:
		d.emit(Event{Name: "backspace", Sequence: []byte{b}})
	case b == 0x00:
		d.emit(Event{Name: "char", Rune: ' ', Ctrl: true, Sequence: []byte{b}})
	case b <= 0x1a:
		// Ctrl+a..Ctrl+z map to 0x01..0x1a.
		d.emit(Event{Name: "char", Rune: rune(b + 0x60), Ctrl: true, Sequence: []byte{b}})
	case b <= 0x1f:
		d.emit(Event{Name: "unknown", Sequence: []byte{b}})
	case b == ' ':
		d.emit(Event{Name: "space", Rune: ' ', Sequence: []byte{b}})
	default:
		d.emit(Event{Name: "char", Rune: rune(b), Sequence: []byte{b}})
	}
}

// decodeEsc has just consumed a lone ESC byte and decides, within
// escTimeout, whether it starts a CSI/SS3 sequence, an Alt+key
// combination, or is a standalone Esc keypress.
func (d *Decoder) decodeEsc(in <-chan byte) {
	select {
	case next, ok := <-in:
		if !ok {
			d.emit(Event{Name: "escape", Sequence: []byte{0x1b}})
			return
		}
		switch next {
		case '[':
			d.decodeCSI(in)
		case 'O':
			d.decodeSS3(in)
		default:
			d.emit(Event{Name: "char", Rune: rune(next), Alt: true, Sequence: []byte{0x1b, next}})
		}
	case <-time.After(escTimeout):
		d.emit(Event{Name: "escape", Sequence: []byte{0x1b}})
	}
}

func readByteTimeout(in <-chan byte, timeout time.Duration) (byte, bool) {
	select {
	case b, ok := <-in:
		return b, ok
	case <-time.After(timeout):
		return 0, false
	}
}
