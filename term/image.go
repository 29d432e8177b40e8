package term

import (
	"fmt"
	"os"
)

// SetCursorColor emits OSC 12, one of the Terminal output sequences
// named in §6 alongside palette query. color is any string the
// terminal accepts after "OSC 12;" (a name, #rrggbb, or rgb:RRRR/GGGG/BBBB).
func (t *Terminal) SetCursorColor(color string) {
	fmt.Fprintf(t.out, "\x1b]12;%s\x07", color)
}

// ResetCursorColor emits OSC 112, restoring the terminal's default
// cursor colour.
func (t *Terminal) ResetCursorColor() { t.out.WriteString("\x1b]112\x07") }

// ImageProtocol identifies which inline-image overlay protocol (if
// any) the running terminal understands. §1 excludes the binary
// encoding of image data as a feature; this only builds the wire
// frames around a payload the host already encoded.
type ImageProtocol int

const (
	ImageProtocolNone ImageProtocol = iota
	ImageProtocolKitty
	ImageProtocolITerm2
)

// DetectImageProtocol inspects the process environment the way the
// teacher's screen.go sniffs TERM for capability detection, widened to
// the two overlay protocols §6 names.
func DetectImageProtocol() ImageProtocol {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return ImageProtocolKitty
	}
	if os.Getenv("TERM_PROGRAM") == "iTerm.app" {
		return ImageProtocolITerm2
	}
	return ImageProtocolNone
}

// KittyImageSequence wraps an already-encoded image payload in a Kitty
// graphics protocol APC frame: ESC _G <control data> ; <payload> ESC \.
// controlData is the comma-separated key=value control string (e.g.
// "a=T,f=100"); payload is the base64 image data, chunked by the
// caller per the protocol's 4096-byte-per-chunk limit if needed.
func KittyImageSequence(controlData, payload string) []byte {
	b := append([]byte("\x1b_G"), controlData...)
	if payload != "" {
		b = append(b, ';')
		b = append(b, payload...)
	}
	return append(b, "\x1b\\"...)
}

// ITerm2ImageSequence wraps an already-encoded image payload in an
// iTerm2 inline-image OSC 1337 frame: OSC 1337;File=<args>:<payload> BEL.
// args is the semicolon-separated key=value argument string (e.g.
// "inline=1;width=auto").
func ITerm2ImageSequence(args, payload string) []byte {
	b := append([]byte("\x1b]1337;File="), args...)
	b = append(b, ':')
	b = append(b, payload...)
	return append(b, '\a')
}

// WrapForTmux wraps an already-built escape sequence in DCS tmux
// passthrough when running inside tmux, per §6's "TMUX set => wrap
// Kitty image sequences with DCS tmux; … ST passthrough". Any literal
// ESC byte inside seq is doubled, as DCS passthrough escaping requires.
// Outside tmux, seq is returned unchanged.
func WrapForTmux(seq []byte) []byte {
	if os.Getenv("TMUX") == "" {
		return seq
	}
	out := []byte("\x1bPtmux;")
	for _, b := range seq {
		out = append(out, b)
		if b == 0x1b {
			out = append(out, 0x1b)
		}
	}
	return append(out, "\x1b\\"...)
}
