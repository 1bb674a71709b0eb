package cell

import (
	"fmt"
	"sync"

	"github.com/wippyai/hostcell/fault"
	"github.com/wippyai/hostcell/internal/callsite"
)

// Mode selects how conflicting acquisitions are handled.
type Mode uint8

const (
	// FailFast reports a borrow conflict immediately as a fault.
	FailFast Mode = iota

	// Blocking waits for the cell to become available instead of failing.
	Blocking
)

func (m Mode) String() string {
	switch m {
	case FailFast:
		return "fail-fast"
	case Blocking:
		return "blocking"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// State is the cell's borrow state.
type State uint8

const (
	Free State = iota
	Shared
	Exclusive
	Inaccessible
)

func (s State) String() string {
	switch s {
	case Free:
		return "free"
	case Shared:
		return "shared"
	case Exclusive:
		return "exclusive"
	case Inaccessible:
		return "inaccessible"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Cell owns one instance value plus its borrow state. All access to the
// value goes through a guard; there is no unguarded path to the data.
type Cell[T any] struct {
	mu    sync.Mutex
	avail sync.Cond

	value T
	state State

	shared      int
	sharedSites []*callsite.Snapshot
	holderSite  callsite.Snapshot

	mode      Mode
	capture   bool
	onRelease func()
	closed    bool
}

// Option configures a Cell at construction.
type Option func(*options)

type options struct {
	mode      Mode
	capture   bool
	onRelease func()
}

// WithMode selects the acquisition mode. The default is FailFast.
func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithSiteCapture toggles call-site snapshots on acquisition. Enabled by
// default; disabling it leaves conflict faults without holder stacks.
func WithSiteCapture(enabled bool) Option {
	return func(o *options) { o.capture = enabled }
}

// WithReleaseHook registers a function invoked after every guard release,
// outside the cell's lock.
func WithReleaseHook(fn func()) Option {
	return func(o *options) { o.onRelease = fn }
}

// New creates a cell owning value.
func New[T any](value T, opts ...Option) *Cell[T] {
	o := options{capture: true}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Cell[T]{
		value:     value,
		mode:      o.mode,
		capture:   o.capture,
		onRelease: o.onRelease,
	}
	c.avail.L = &c.mu
	return c
}

// AcquireShared grants read access. It succeeds from Free or Shared and
// conflicts with an outstanding Exclusive or Inaccessible borrow; the fault
// carries the conflicting holder's call site.
func (c *Cell[T]) AcquireShared() (*SharedGuard[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		if c.closed {
			return nil, fault.Closed()
		}
		if c.state == Free || c.state == Shared {
			break
		}
		if c.mode == Blocking {
			c.avail.Wait()
			continue
		}
		return nil, fault.ExclusivelyBorrowed(c.conflictDetail(), c.holdersLocked()...)
	}

	c.shared++
	c.state = Shared
	var site *callsite.Snapshot
	if c.capture {
		s := callsite.Capture(1)
		site = &s
		c.sharedSites = append(c.sharedSites, site)
	}
	return &SharedGuard[T]{cell: c, site: site}, nil
}

// AcquireExclusive grants mutable access. It succeeds only from Free; the
// fault on conflict lists every current holder.
func (c *Cell[T]) AcquireExclusive() (*ExclusiveGuard[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.waitFreeLocked(); err != nil {
		return nil, err
	}

	c.state = Exclusive
	if c.capture {
		c.holderSite = callsite.Capture(1)
	}
	return &ExclusiveGuard[T]{cell: c}, nil
}

// MakeInaccessible swaps the value out for replacement and transitions to
// Inaccessible. It succeeds only from Free. Releasing the returned guard
// swaps the original value back in and restores Free.
//
// This supports the reentrant-callback path: a caller that must let the host
// mutate the instance through a parallel path first returns the cell to
// Free, then parks the real value here so the host never observes a
// half-borrowed cell.
func (c *Cell[T]) MakeInaccessible(replacement T) (*InaccessibleGuard[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.waitFreeLocked(); err != nil {
		return nil, err
	}

	original := c.value
	c.value = replacement
	c.state = Inaccessible
	if c.capture {
		c.holderSite = callsite.Capture(1)
	}
	return &InaccessibleGuard[T]{cell: c, original: original}, nil
}

// waitFreeLocked gates the exclusive-class acquisitions: wait for Free in
// Blocking mode, fault otherwise.
func (c *Cell[T]) waitFreeLocked() error {
	for {
		if c.closed {
			return fault.Closed()
		}
		if c.state == Free {
			return nil
		}
		if c.mode == Blocking {
			c.avail.Wait()
			continue
		}
		return fault.Borrowed(c.conflictDetail(), c.holdersLocked()...)
	}
}

// IsBound reports whether any borrow is outstanding.
func (c *Cell[T]) IsBound() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != Free
}

// State returns the current borrow state.
func (c *Cell[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mode returns the cell's acquisition mode.
func (c *Cell[T]) Mode() Mode {
	return c.mode
}

// Close releases the owned value and refuses all further acquisitions.
// Closing while any borrow is outstanding is a programming-error fault; a
// guard pointing at a released value must never exist.
func (c *Cell[T]) Close() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if c.closed {
		return zero, fault.Closed()
	}
	if c.state != Free {
		return zero, fault.DestroyWhileBound(c.holdersLocked()...)
	}

	c.closed = true
	value := c.value
	c.value = zero
	c.avail.Broadcast()
	return value, nil
}

// Holders returns snapshots of every outstanding acquisition site.
func (c *Cell[T]) Holders() []callsite.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.holdersLocked()
}

func (c *Cell[T]) holdersLocked() []callsite.Snapshot {
	switch c.state {
	case Shared:
		out := make([]callsite.Snapshot, 0, len(c.sharedSites))
		for _, s := range c.sharedSites {
			out = append(out, *s)
		}
		return out
	case Exclusive, Inaccessible:
		if c.holderSite.IsZero() {
			return nil
		}
		return []callsite.Snapshot{c.holderSite}
	default:
		return nil
	}
}

func (c *Cell[T]) conflictDetail() string {
	switch c.state {
	case Shared:
		if c.shared == 1 {
			return "1 shared borrow outstanding"
		}
		return fmt.Sprintf("%d shared borrows outstanding", c.shared)
	case Exclusive:
		return "exclusive borrow outstanding"
	case Inaccessible:
		return "value is temporarily inaccessible"
	default:
		return ""
	}
}

// releaseDone broadcasts availability and runs the release hook outside the
// lock; the hook may reenter the cell.
func (c *Cell[T]) releaseDone() {
	hook := c.onRelease
	c.avail.Broadcast()
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
}
