package cell

import "github.com/wippyai/hostcell/internal/callsite"

// SharedGuard is an active shared borrow. The pointer returned by Value is
// read-only by contract: mutation requires an ExclusiveGuard.
type SharedGuard[T any] struct {
	cell     *Cell[T]
	site     *callsite.Snapshot
	released bool
}

// Value returns the borrowed value. The guard must still be held.
func (g *SharedGuard[T]) Value() *T {
	return &g.cell.value
}

// Release ends the borrow. Releasing the last shared guard returns the cell
// to Free. Calling Release again does nothing.
func (g *SharedGuard[T]) Release() {
	c := g.cell
	c.mu.Lock()
	if g.released {
		c.mu.Unlock()
		return
	}
	g.released = true

	c.shared--
	if g.site != nil {
		for i, s := range c.sharedSites {
			if s == g.site {
				c.sharedSites = append(c.sharedSites[:i], c.sharedSites[i+1:]...)
				break
			}
		}
	}
	if c.shared == 0 {
		c.state = Free
	}
	c.releaseDone()
}

// ExclusiveGuard is an active exclusive borrow with mutable access.
type ExclusiveGuard[T any] struct {
	cell     *Cell[T]
	released bool
}

// Value returns the borrowed value for mutation. The guard must still be
// held.
func (g *ExclusiveGuard[T]) Value() *T {
	return &g.cell.value
}

// Set replaces the borrowed value.
func (g *ExclusiveGuard[T]) Set(value T) {
	g.cell.value = value
}

// Release ends the borrow and returns the cell to Free. Calling Release
// again does nothing.
func (g *ExclusiveGuard[T]) Release() {
	c := g.cell
	c.mu.Lock()
	if g.released {
		c.mu.Unlock()
		return
	}
	g.released = true

	c.state = Free
	c.holderSite = callsite.Snapshot{}
	c.releaseDone()
}

// InaccessibleGuard holds the real value while the cell exposes a
// replacement. Release swaps the original back in, bit for bit, and
// restores Free.
type InaccessibleGuard[T any] struct {
	cell     *Cell[T]
	original T
	released bool
}

// Release restores the original value and returns the cell to Free. Calling
// Release again does nothing.
func (g *InaccessibleGuard[T]) Release() {
	c := g.cell
	c.mu.Lock()
	if g.released {
		c.mu.Unlock()
		return
	}
	g.released = true

	c.value = g.original
	var zero T
	g.original = zero
	c.state = Free
	c.holderSite = callsite.Snapshot{}
	c.releaseDone()
}
