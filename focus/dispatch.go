package focus

import (
	"fmt"

	"glyph/input"
)

// Dispatch routes one decoded event through the exact six-step order
// of §4.10: Ctrl+C exit, Ctrl+Z suspend, priority handlers, the
// focused node's own handlers, Tab/Shift+Tab advance, then global
// handlers. It returns true if any step consumed the event. Every
// handler invocation runs inside a recover() boundary so a host
// handler panic is caught, logged via DebugLog, and never crashes the
// render loop — this is §7 item 5 ("host handler exceptions... do not
// crash the render loop") expressed the way Go actually expresses a
// caught exception.
func (r *Registry) Dispatch(ev input.Event) bool {
	if ev.Name == "char" && ev.Rune == 'c' && ev.Ctrl {
		if r.OnExit != nil {
			r.safeCall(func() { r.OnExit() })
		}
		return true
	}
	if ev.Name == "char" && ev.Rune == 'z' && ev.Ctrl {
		if r.OnSuspend != nil {
			r.safeCall(func() { r.OnSuspend() })
		}
		return true
	}

	for _, h := range r.priorityHandlers {
		if r.safeHandle(h, ev) {
			return true
		}
	}

	for _, h := range r.focusedHandlers[r.focusedID] {
		if r.safeHandle(h, ev) {
			return true
		}
	}

	if ev.Name == "tab" {
		if ev.Shift {
			r.FocusPrev()
		} else {
			r.FocusNext()
		}
		return true
	}

	for _, h := range r.globalHandlers {
		if r.safeHandle(h, ev) {
			return true
		}
	}

	return false
}

func (r *Registry) safeHandle(h Handler, ev input.Event) (consumed bool) {
	defer func() {
		if v := recover(); v != nil {
			r.logf("focus: handler panic recovered: %v", v)
			consumed = false
		}
	}()
	return h(ev)
}

func (r *Registry) safeCall(fn func()) {
	defer func() {
		if v := recover(); v != nil {
			r.logf("focus: callback panic recovered: %v", v)
		}
	}()
	fn()
}

func (r *Registry) logf(format string, args ...any) {
	if r.DebugLog == nil {
		return
	}
	r.DebugLog(fmt.Sprintf(format, args...))
}
