package term

import (
	"os"
	"testing"
)

func restoreEnv(t *testing.T, key, value string, had bool) {
	t.Helper()
	if had {
		os.Setenv(key, value)
	} else {
		os.Unsetenv(key)
	}
}

func TestKittyImageSequenceWrapsControlAndPayload(t *testing.T) {
	got := KittyImageSequence("a=T,f=100", "QUJD")
	want := "\x1b_Ga=T,f=100;QUJD\x1b\\"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestKittyImageSequenceOmitsPayloadSeparatorWhenEmpty(t *testing.T) {
	got := KittyImageSequence("a=d,i=1", "")
	want := "\x1b_Ga=d,i=1\x1b\\"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestITerm2ImageSequenceWrapsArgsAndPayload(t *testing.T) {
	got := ITerm2ImageSequence("inline=1;width=auto", "QUJD")
	want := "\x1b]1337;File=inline=1;width=auto:QUJD\a"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWrapForTmuxPassesThroughUnchangedOutsideTmux(t *testing.T) {
	old, had := os.LookupEnv("TMUX")
	os.Unsetenv("TMUX")
	defer restoreEnv(t, "TMUX", old, had)

	seq := []byte("\x1b_Ga=T;QUJD\x1b\\")
	got := WrapForTmux(seq)
	if string(got) != string(seq) {
		t.Fatalf("got %q, want unchanged %q", got, seq)
	}
}

func TestWrapForTmuxDoublesEscapesInsideTmux(t *testing.T) {
	old, had := os.LookupEnv("TMUX")
	os.Setenv("TMUX", "1")
	defer restoreEnv(t, "TMUX", old, had)

	seq := []byte{0x1b, 'X'}
	got := WrapForTmux(seq)
	want := "\x1bPtmux;\x1b\x1bX\x1b\\"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDetectImageProtocolPrefersKittyWindowID(t *testing.T) {
	oldKitty, hadKitty := os.LookupEnv("KITTY_WINDOW_ID")
	oldTermProgram, hadTermProgram := os.LookupEnv("TERM_PROGRAM")
	defer func() {
		restoreEnv(t, "KITTY_WINDOW_ID", oldKitty, hadKitty)
		restoreEnv(t, "TERM_PROGRAM", oldTermProgram, hadTermProgram)
	}()

	os.Setenv("KITTY_WINDOW_ID", "1")
	os.Setenv("TERM_PROGRAM", "iTerm.app")
	if got := DetectImageProtocol(); got != ImageProtocolKitty {
		t.Fatalf("got %v, want ImageProtocolKitty", got)
	}

	os.Unsetenv("KITTY_WINDOW_ID")
	if got := DetectImageProtocol(); got != ImageProtocolITerm2 {
		t.Fatalf("got %v, want ImageProtocolITerm2", got)
	}

	os.Unsetenv("TERM_PROGRAM")
	if got := DetectImageProtocol(); got != ImageProtocolNone {
		t.Fatalf("got %v, want ImageProtocolNone", got)
	}
}
