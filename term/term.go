// Package term owns Glyph's terminal I/O surface, per spec §4.8: raw
// mode, the alternate screen, cursor visibility, signal-driven resize
// and teardown. It deliberately owns none of the painting or diffing
// the teacher's Screen conflated into itself — those live in packages
// paint and diff so term stays pure I/O, callable by the render loop
// without it needing to reach into framebuffers directly.
package term

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	xterm "golang.org/x/term"

	"glyph/color"
)

// Terminal is the single owner of the real stdin/stdout file
// descriptors for the lifetime of a Glyph program.
type Terminal struct {
	in  *os.File
	out *bufio.Writer

	oldState   *xterm.State
	rawEnabled bool

	// ForceFull is set whenever a resize lands; the render loop
	// consults and clears it to force a full repaint instead of a
	// diffed one, since the old framebuffer contents no longer
	// correspond to any real column/row.
	ForceFull bool

	OnResize  func(cols, rows int)
	OnSuspend func()
	OnResume  func()

	passCh chan byte
	oscCh  chan []byte
	rawCh  chan byte

	sigCh    chan os.Signal
	winchCh  chan os.Signal
	done     chan struct{}
	closeOnce sync.Once

	debugLog func(string)
}

// Open takes raw-mode ownership of in/out, enters the alternate
// screen, hides the cursor, and starts the signal/resize/input-relay
// goroutines. Call Close to restore the terminal; Close is safe to
// call more than once.
func Open(in, out *os.File) (*Terminal, error) {
	oldState, err := xterm.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, err
	}

	t := &Terminal{
		in:         in,
		out:        bufio.NewWriterSize(out, 64*1024),
		oldState:   oldState,
		rawEnabled: true,
		passCh:     make(chan byte, 256),
		oscCh:      make(chan []byte, 16),
		rawCh:      make(chan byte, 256),
		done:       make(chan struct{}),
	}

	t.out.WriteString("\x1b[?1049h") // enter alternate screen
	t.out.WriteString("\x1b[?25l")   // hide cursor
	t.out.WriteString("\x1b[2J")     // initial clear
	t.out.Flush()

	go t.readLoop()
	go t.demuxLoop()
	t.watchSignals()

	return t, nil
}

// Size reports the terminal's current column/row count.
func (t *Terminal) Size() (cols, rows int, err error) {
	return xterm.GetSize(int(t.in.Fd()))
}

// Write appends raw bytes to the output buffer without flushing,
// matching the teacher's buffered-writer habit of batching escape
// sequences and cell runs into one syscall per frame.
func (t *Terminal) Write(b []byte) (int, error) { return t.out.Write(b) }

// Flush forces any buffered output to the real file descriptor.
func (t *Terminal) Flush() error { return t.out.Flush() }

// MoveCursor emits CSI row;col H, 1-indexed, used by the render loop
// for native cursor positioning when useNativeCursor is set.
func (t *Terminal) MoveCursor(row, col int) {
	fmt.Fprintf(t.out, "\x1b[%d;%dH", row+1, col+1)
}

func (t *Terminal) ShowCursor() { t.out.WriteString("\x1b[?25h") }
func (t *Terminal) HideCursor() { t.out.WriteString("\x1b[?25l") }

// DrainForceFull reports whether a resize forced a full repaint since
// the last call, and clears the flag — the render loop's single point
// of contact with ForceFull, narrow enough to belong to the interface
// it depends on instead of reaching into the field directly.
func (t *Terminal) DrainForceFull() bool {
	f := t.ForceFull
	t.ForceFull = false
	return f
}

// Input returns the channel of decoded-ready bytes: every raw byte
// from stdin except OSC terminal responses, which are intercepted and
// routed to QueryPalette's caller instead. Package input consumes this
// channel exactly the way the teacher's inputLoop consumed its own
// raw byte channel.
func (t *Terminal) Input() <-chan byte { return t.passCh }

// SetDebugLog installs a sink for internal diagnostics (malformed OSC
// responses, signal delivery) that must never reach the alternate
// screen. Nil disables logging.
func (t *Terminal) SetDebugLog(fn func(string)) { t.debugLog = fn }

func (t *Terminal) logf(format string, args ...any) {
	if t.debugLog != nil {
		t.debugLog(fmt.Sprintf(format, args...))
	}
}

// readLoop is the single goroutine that ever touches the stdin file
// descriptor directly, exactly the teacher's inputLoop/rawCh shape in
// tui/input.go — eliminating data races on the reader.
func (t *Terminal) readLoop() {
	buf := make([]byte, 1)
	for {
		n, err := t.in.Read(buf)
		if n > 0 {
			select {
			case t.rawCh <- buf[0]:
			case <-t.done:
				close(t.rawCh)
				return
			}
		}
		if err != nil {
			close(t.rawCh)
			return
		}
	}
}

// Close idempotently restores the terminal: shows the cursor, exits
// the alternate screen, restores the prior termios state, and stops
// the signal/resize goroutines. Safe to call multiple times or
// concurrently, satisfying the teardown-idempotence requirement.
func (t *Terminal) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		signal.Stop(t.sigCh)
		signal.Stop(t.winchCh)

		t.out.WriteString("\x1b[?25h")
		t.out.WriteString("\x1b[?1049l")
		t.out.Flush()

		if t.rawEnabled && t.oldState != nil {
			err = xterm.Restore(int(t.in.Fd()), t.oldState)
			t.rawEnabled = false
		}
	})
	return err
}

// watchSignals installs handlers for SIGWINCH (resize), SIGINT/SIGTERM
// (teardown then re-raise, so the process exits with the signal-standard
// 128+signo code), and SIGTSTP/SIGCONT (job-control suspend and resume)
// — the teacher has none of the job-control handling; it is new here,
// grounded on the explicit signal-driven-teardown requirement.
func (t *Terminal) watchSignals() {
	t.winchCh = make(chan os.Signal, 1)
	signal.Notify(t.winchCh, syscall.SIGWINCH)

	t.sigCh = make(chan os.Signal, 1)
	signal.Notify(t.sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP, syscall.SIGCONT)

	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.winchCh:
				cols, rows, err := t.Size()
				if err != nil {
					t.logf("resize: %v", err)
					continue
				}
				t.ForceFull = true
				if t.OnResize != nil {
					t.OnResize(cols, rows)
				}
			case sig := <-t.sigCh:
				switch sig {
				case syscall.SIGINT, syscall.SIGTERM:
					t.Close()
					t.reraise(sig)
					return
				case syscall.SIGTSTP:
					t.suspend()
				case syscall.SIGCONT:
					t.resume()
				}
			}
		}
	}()
}

// reraise restores sig's default disposition and resends it to this
// process, so the shell observes the signal-standard 128+signo exit
// code instead of the 0 a plain return would leave behind, per §6.
func (t *Terminal) reraise(sig os.Signal) {
	signal.Reset(sig)
	syscall.Kill(syscall.Getpid(), sig.(syscall.Signal))
}

// suspend restores the terminal to cooked mode and sends SIGSTOP to
// itself so the shell sees the process stopped, per
// §4.8's explicit SIGTSTP requirement.
func (t *Terminal) suspend() {
	if t.oldState != nil {
		xterm.Restore(int(t.in.Fd()), t.oldState)
	}
	t.out.WriteString("\x1b[?25h\x1b[?1049l")
	t.out.Flush()
	if t.OnSuspend != nil {
		t.OnSuspend()
	}
	syscall.Kill(syscall.Getpid(), syscall.SIGSTOP)
}

// resume re-enters raw mode and the alternate screen after SIGCONT,
// undoing suspend, and forces a full repaint since the terminal's
// actual contents changed while we were stopped.
func (t *Terminal) resume() {
	oldState, err := xterm.MakeRaw(int(t.in.Fd()))
	if err == nil {
		t.oldState = oldState
	}
	t.out.WriteString("\x1b[?1049h\x1b[?25l\x1b[2J")
	t.out.Flush()
	t.ForceFull = true
	if t.OnResume != nil {
		t.OnResume()
	}
}

// NewPalette is a convenience wrapper so callers don't need to import
// color just to construct the fallback-seeded default.
func NewPalette() *color.Palette { return color.NewPalette() }
