// Package schedule implements Glyph's microtask-coalescing commit
// scheduler, per spec §4.11/§4.12/§5. It keeps the teacher's
// signals.Batch/Effect.onDependencyUpdated collapsing semantics
// ("multiple commits within the same microtask queue collapse to one
// frame") but narrows the API from the teacher's N-subscriber pub/sub
// to the single render-loop consumer Glyph actually has, and drops the
// teacher's sync.Mutex-guarded subscriber maps entirely: §5 makes the
// render loop single-threaded, so there is nothing left to guard.
package schedule

// Coalescer tracks whether a render has been requested since the last
// Drain. It satisfies tree.Scheduler.
type Coalescer struct {
	pending bool
}

// NewCoalescer returns a Coalescer with no render pending.
func NewCoalescer() *Coalescer { return &Coalescer{} }

// Request marks a render pending. Calling it any number of times
// before the next Drain has the same effect as calling it once,
// exactly the teacher's batchQueue[e] = struct{}{} deduplication of a
// subscriber that's already queued for its one re-run.
func (c *Coalescer) Request() { c.pending = true }

// Drain reports whether a render was pending and clears the flag.
func (c *Coalescer) Drain() bool {
	p := c.pending
	c.pending = false
	return p
}
