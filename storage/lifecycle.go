package storage

import (
	"fmt"
	"sync/atomic"

	"github.com/wippyai/hostcell/fault"
)

// Lifecycle is a storage unit's position in its two-state machine.
type Lifecycle int32

const (
	Alive Lifecycle = iota
	Destroying
)

func (l Lifecycle) String() string {
	switch l {
	case Alive:
		return "alive"
	case Destroying:
		return "destroying"
	default:
		return fmt.Sprintf("lifecycle(%d)", int32(l))
	}
}

// LifecycleLatch is the one-way Alive→Destroying controller. Destroying is
// terminal; both teardown entry points race on BeginDestroy and exactly one
// wins.
type LifecycleLatch struct {
	v atomic.Int32
}

// Get returns the current lifecycle.
func (l *LifecycleLatch) Get() Lifecycle {
	return Lifecycle(l.v.Load())
}

// Set moves the latch forward. Setting Alive after Destroying is a usage
// fault and panics; the machine is monotone in one direction only.
func (l *LifecycleLatch) Set(next Lifecycle) {
	if next == Alive && l.Get() == Destroying {
		panic(fault.New(fault.PhaseTeardown, fault.KindRevived).
			Detail("lifecycle set back to alive after destroying").
			Build())
	}
	l.v.Store(int32(next))
}

// BeginDestroy atomically latches Alive→Destroying. It reports whether this
// caller won the race and now owns the whole teardown sequence.
func (l *LifecycleLatch) BeginDestroy() bool {
	return l.v.CompareAndSwap(int32(Alive), int32(Destroying))
}
