// Package focus implements Glyph's focus registry and event dispatch,
// per spec §4.10. The teacher has no equivalent subsystem to
// generalize from, so this is built directly from the spec's state
// list using the teacher's plain struct-plus-map bookkeeping idiom —
// the same shape as signals.Signal's map[Subscriber]struct{} set,
// mirrored here as map[string]struct{} for the skippable set.
package focus

import (
	"sort"

	"glyph/input"
	"glyph/tree"
)

// Handler is a host-registered event callback. It returns true when it
// consumed the event, stopping further dispatch per §4.10's six-step
// order.
type Handler func(input.Event) bool

// Registry holds every focusable node, the skip and trap state that
// filters ActiveFocusables, and the handler chains Dispatch consults.
type Registry struct {
	registry  map[string]*tree.Node
	order     []string // registration order, for a stable ActiveFocusables fallback
	skippable map[string]struct{}
	trapStack []*tree.Node

	focusedID string

	priorityHandlers []Handler
	focusedHandlers  map[string][]Handler
	globalHandlers   []Handler

	// OnExit/OnSuspend back the Ctrl+C/Ctrl+Z steps of Dispatch's
	// six-step order; nil means that step is a no-op.
	OnExit    func()
	OnSuspend func()

	DebugLog func(string)
}

// NewRegistry returns an empty focus registry.
func NewRegistry() *Registry {
	return &Registry{
		registry:        map[string]*tree.Node{},
		skippable:       map[string]struct{}{},
		focusedHandlers: map[string][]Handler{},
	}
}

// Register adds a focusable node under its own FocusID. Re-registering
// the same FocusID replaces the node (e.g. after a re-render produced
// a new Node for the same logical element).
func (r *Registry) Register(n *tree.Node) {
	if n.FocusID == "" {
		return
	}
	if _, exists := r.registry[n.FocusID]; !exists {
		r.order = append(r.order, n.FocusID)
	}
	r.registry[n.FocusID] = n
}

// Unregister removes a node from the registry, per §4.5's
// bottom-up-free bookkeeping when a focusable subtree is torn down. If
// it held focus, focus moves to the first remaining active focusable
// (or is cleared if none remain).
func (r *Registry) Unregister(focusID string) {
	delete(r.registry, focusID)
	delete(r.skippable, focusID)
	delete(r.focusedHandlers, focusID)
	for i, id := range r.order {
		if id == focusID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.focusedID == focusID {
		if ids := r.ActiveFocusables(); len(ids) > 0 {
			r.focusedID = ids[0]
		} else {
			r.focusedID = ""
		}
	}
}

// SetSkippable marks a registered node as excluded from Tab cycling
// (still focusable programmatically via Focus) without removing it.
func (r *Registry) SetSkippable(focusID string, skip bool) {
	if skip {
		r.skippable[focusID] = struct{}{}
	} else {
		delete(r.skippable, focusID)
	}
}

// PushTrap restricts ActiveFocusables to descendants of root (e.g. for
// a modal dialog), per §4.10's trapStack.
func (r *Registry) PushTrap(root *tree.Node) { r.trapStack = append(r.trapStack, root) }

// PopTrap removes the most recently pushed trap.
func (r *Registry) PopTrap() {
	if len(r.trapStack) == 0 {
		return
	}
	r.trapStack = r.trapStack[:len(r.trapStack)-1]
}

// Focused returns the currently focused FocusID, or "" if none.
func (r *Registry) Focused() string { return r.focusedID }

// FocusedNode returns the currently focused node, or nil if none is
// focused or it was unregistered since, used by the render loop to
// locate cursor info (§4.12 step 4).
func (r *Registry) FocusedNode() *tree.Node {
	if r.focusedID == "" {
		return nil
	}
	return r.registry[r.focusedID]
}

// Focus sets the focused FocusID directly, bypassing ActiveFocusables
// ordering — used for host-driven focus (e.g. a mouse click or an
// explicit .focus() call).
func (r *Registry) Focus(focusID string) {
	if _, ok := r.registry[focusID]; ok || focusID == "" {
		r.focusedID = focusID
	}
}

// ActiveFocusables returns the FocusIDs eligible for Tab cycling: not
// skippable, and (when a trap is active) a descendant of the top
// trap's root — sorted by each node's visual position (y, x) pulled
// from its solved Layout rect, independent of registration order, per
// §8's "Focus monotonicity" invariant.
func (r *Registry) ActiveFocusables() []string {
	var trap *tree.Node
	if len(r.trapStack) > 0 {
		trap = r.trapStack[len(r.trapStack)-1]
	}

	var ids []string
	for _, id := range r.order {
		n, ok := r.registry[id]
		if !ok {
			continue
		}
		if _, skip := r.skippable[id]; skip {
			continue
		}
		if trap != nil && !isDescendant(n, trap) {
			continue
		}
		ids = append(ids, id)
	}

	sort.SliceStable(ids, func(i, j int) bool {
		a, b := r.registry[ids[i]].Layout, r.registry[ids[j]].Layout
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return ids
}

func isDescendant(n, ancestor *tree.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// FocusNext/FocusPrev advance focus along ActiveFocusables, wrapping
// around at either end.
func (r *Registry) FocusNext() { r.advance(1) }
func (r *Registry) FocusPrev() { r.advance(-1) }

func (r *Registry) advance(dir int) {
	ids := r.ActiveFocusables()
	if len(ids) == 0 {
		r.focusedID = ""
		return
	}
	idx := indexOf(ids, r.focusedID)
	if idx < 0 {
		if dir > 0 {
			r.focusedID = ids[0]
		} else {
			r.focusedID = ids[len(ids)-1]
		}
		return
	}
	idx = (idx + dir + len(ids)) % len(ids)
	r.focusedID = ids[idx]
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// AddPriorityHandler registers a handler consulted before the focused
// node's own handlers, per §4.10 step 3 — e.g. a host-level "Ctrl+S
// saves regardless of what's focused" binding.
func (r *Registry) AddPriorityHandler(h Handler) { r.priorityHandlers = append(r.priorityHandlers, h) }

// AddFocusedHandler attaches h to a specific FocusID; it only runs
// when that node currently holds focus.
func (r *Registry) AddFocusedHandler(focusID string, h Handler) {
	r.focusedHandlers[focusID] = append(r.focusedHandlers[focusID], h)
}

// AddGlobalHandler registers a fallback handler consulted last, after
// Tab/Shift+Tab advancement has had its chance, per §4.10 step 6.
func (r *Registry) AddGlobalHandler(h Handler) { r.globalHandlers = append(r.globalHandlers, h) }
