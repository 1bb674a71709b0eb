package host

import (
	"errors"
	"sync"
)

var (
	ErrUnknownObject = errors.New("host: unknown object")
	ErrDeadObject    = errors.New("host: object already destroyed")
)

// Finalizer runs when an object's last strong reference is dropped. It is
// invoked outside the system's lock, so it may call back into the system;
// the host-initiated teardown path does exactly that.
type Finalizer func(id ObjectID)

// MemorySystem is an in-memory reference implementation of System: a
// refcounted object table with destructor hooks and slot recycling.
type MemorySystem struct {
	entries  []memEntry
	freeList []ObjectID
	mu       sync.RWMutex
}

type memEntry struct {
	value     any
	finalizer Finalizer
	refs      uint32
	live      bool
}

// NewMemorySystem creates an empty host object table.
func NewMemorySystem() *MemorySystem {
	return &MemorySystem{
		entries:  make([]memEntry, 0, 64),
		freeList: make([]ObjectID, 0, 16),
	}
}

// Register creates a host object holding value with an initial strong count
// of 1 and returns its identity. The finalizer, if any, runs when the count
// reaches zero.
func (s *MemorySystem) Register(value any, finalizer Finalizer) ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memEntry{
		value:     value,
		finalizer: finalizer,
		refs:      1,
		live:      true,
	}

	if len(s.freeList) > 0 {
		id := s.freeList[len(s.freeList)-1]
		s.freeList = s.freeList[:len(s.freeList)-1]
		s.entries[id-1] = e
		return id
	}

	s.entries = append(s.entries, e)
	return ObjectID(len(s.entries))
}

// IncRef adds a strong reference.
func (s *MemorySystem) IncRef(id ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupLocked(id)
	if err != nil {
		return err
	}
	e.refs++
	return nil
}

// DecRef drops a strong reference. On the last one the object dies, its
// finalizer runs, and the slot is recycled.
func (s *MemorySystem) DecRef(id ObjectID) (bool, error) {
	s.mu.Lock()

	e, err := s.lookupLocked(id)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}

	e.refs--
	if e.refs > 0 {
		s.mu.Unlock()
		return false, nil
	}

	finalizer := e.finalizer
	e.live = false
	e.value = nil
	e.finalizer = nil
	s.freeList = append(s.freeList, id)
	s.mu.Unlock()

	// Outside the lock: the finalizer may reenter the system.
	if finalizer != nil {
		finalizer(id)
	}
	return true, nil
}

// IsLive reports whether the object still exists.
func (s *MemorySystem) IsLive(id ObjectID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.lookupLocked(id)
	return err == nil
}

// Value returns the payload stored for a live object.
func (s *MemorySystem) Value(id ObjectID) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.lookupLocked(id)
	if err != nil {
		return nil, false
	}
	return e.value, true
}

// RefCount returns the authoritative strong count for a live object.
func (s *MemorySystem) RefCount(id ObjectID) (uint32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.lookupLocked(id)
	if err != nil {
		return 0, false
	}
	return e.refs, true
}

// Len returns the number of live objects.
func (s *MemorySystem) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for i := range s.entries {
		if s.entries[i].live {
			count++
		}
	}
	return count
}

func (s *MemorySystem) lookupLocked(id ObjectID) (*memEntry, error) {
	if id.IsZero() || int(id) > len(s.entries) {
		return nil, ErrUnknownObject
	}
	e := &s.entries[id-1]
	if !e.live {
		return nil, ErrDeadObject
	}
	return e, nil
}
