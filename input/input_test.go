package input

import (
	"testing"
	"time"
)

func feed(bytes ...byte) *Decoder {
	ch := make(chan byte, len(bytes)+1)
	for _, b := range bytes {
		ch <- b
	}
	d := NewDecoder(ch)
	return d
}

func recvEvent(t *testing.T, d *Decoder) Event {
	t.Helper()
	select {
	case e, ok := <-d.Events():
		if !ok {
			t.Fatalf("decoder closed before emitting an event")
		}
		return e
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for event")
	}
	return Event{}
}

func TestDecodePlainChar(t *testing.T) {
	d := feed('x')
	e := recvEvent(t, d)
	if e.Name != "char" || e.Rune != 'x' {
		t.Fatalf("event = %+v", e)
	}
}

func TestDecodeCtrlLetter(t *testing.T) {
	d := feed(0x03) // Ctrl+C
	e := recvEvent(t, d)
	if e.Name != "char" || e.Rune != 'c' || !e.Ctrl {
		t.Fatalf("event = %+v, want ctrl+c", e)
	}
}

func TestDecodeEnterTabBackspace(t *testing.T) {
	d := feed(0x0d)
	if e := recvEvent(t, d); e.Name != "return" {
		t.Fatalf("event = %+v, want return", e)
	}
	d = feed(0x09)
	if e := recvEvent(t, d); e.Name != "tab" {
		t.Fatalf("event = %+v, want tab", e)
	}
	d = feed(0x7f)
	if e := recvEvent(t, d); e.Name != "backspace" {
		t.Fatalf("event = %+v, want backspace", e)
	}
}

func TestDecodeStandaloneEscAfterTimeout(t *testing.T) {
	d := feed(0x1b)
	e := recvEvent(t, d)
	if e.Name != "escape" {
		t.Fatalf("event = %+v, want escape", e)
	}
}

func TestDecodeSpace(t *testing.T) {
	d := feed(' ')
	e := recvEvent(t, d)
	if e.Name != "space" || e.Rune != ' ' {
		t.Fatalf("event = %+v, want space", e)
	}
}

func TestDecodeArrowKey(t *testing.T) {
	d := feed(0x1b, '[', 'A')
	e := recvEvent(t, d)
	if e.Name != "up" {
		t.Fatalf("event = %+v, want up", e)
	}
}

func TestDecodeArrowKeyWithModifier(t *testing.T) {
	d := feed(append([]byte{0x1b, '['}, append([]byte("1;5"), 'A')...)...)
	e := recvEvent(t, d)
	if e.Name != "up" || !e.Ctrl {
		t.Fatalf("event = %+v, want ctrl+up", e)
	}
}

func TestDecodeBacktabAsShiftTab(t *testing.T) {
	d := feed(0x1b, '[', 'Z')
	e := recvEvent(t, d)
	if e.Name != "tab" || !e.Shift {
		t.Fatalf("event = %+v, want shift+tab", e)
	}
}

func TestDecodeTildeDeleteKey(t *testing.T) {
	d := feed(0x1b, '[', '3', '~')
	e := recvEvent(t, d)
	if e.Name != "delete" {
		t.Fatalf("event = %+v, want delete", e)
	}
}

func TestDecodeTildeFunctionKeyWithModifier(t *testing.T) {
	d := feed(append([]byte{0x1b, '['}, append([]byte("15;2"), '~')...)...)
	e := recvEvent(t, d)
	if e.Name != "f5" || !e.Shift {
		t.Fatalf("event = %+v, want shift+f5", e)
	}
}

func TestDecodeModifyOtherKeysForm(t *testing.T) {
	d := feed(append([]byte{0x1b, '['}, append([]byte("27;5;97"), '~')...)...)
	e := recvEvent(t, d)
	if e.Name != "char" || e.Rune != 'a' || !e.Ctrl {
		t.Fatalf("event = %+v, want ctrl+a via modifyOtherKeys", e)
	}
}

func TestDecodeKittyProtocolForm(t *testing.T) {
	d := feed(append([]byte{0x1b, '['}, append([]byte("98;3"), 'u')...)...)
	e := recvEvent(t, d)
	if e.Name != "char" || e.Rune != 'b' || !e.Alt {
		t.Fatalf("event = %+v, want alt+b via kitty protocol", e)
	}
}

func TestDecodeSS3Arrow(t *testing.T) {
	d := feed(0x1b, 'O', 'A')
	e := recvEvent(t, d)
	if e.Name != "up" {
		t.Fatalf("event = %+v, want up via SS3", e)
	}
}

func TestDecodeAltPlusKey(t *testing.T) {
	d := feed(0x1b, 'z')
	e := recvEvent(t, d)
	if e.Name != "char" || e.Rune != 'z' || !e.Alt {
		t.Fatalf("event = %+v, want alt+z", e)
	}
}

func TestDecodeUnknownCSIFallsBackWithSequence(t *testing.T) {
	d := feed(0x1b, '[', '9', '9', 'x')
	e := recvEvent(t, d)
	if e.Name != "unknown" {
		t.Fatalf("event = %+v, want unknown", e)
	}
	if string(e.Sequence) != "\x1b[99x" {
		t.Fatalf("sequence = %q", e.Sequence)
	}
}
