package host

import (
	"fmt"

	"github.com/wippyai/hostcell/fault"
)

// WeakHandle is a non-owning reference to a host wrapper object. It must
// never be the reference that keeps the wrapper alive: the wrapper
// transitively owns the storage that holds this handle, and a strong edge
// here would close the ownership cycle. See the package documentation for
// the full chain.
type WeakHandle struct {
	sys System
	id  ObjectID
}

// Weak constructs a weak handle from an identity token. No reference count
// is touched, by contract. Panics on a zero identity: a storage unit's base
// handle is non-null for its entire Alive lifetime.
func Weak(sys System, id ObjectID) WeakHandle {
	if id.IsZero() {
		panic("host: weak handle to the null object")
	}
	if sys == nil {
		panic("host: weak handle without a host system")
	}
	return WeakHandle{sys: sys, id: id}
}

// ID returns the identity token.
func (h WeakHandle) ID() ObjectID {
	return h.id
}

// IsZero reports whether the handle has been cleared.
func (h WeakHandle) IsZero() bool {
	return h.id.IsZero()
}

// Upgrade turns the weak handle into a transient strong reference,
// re-validating liveness through the host rather than trusting the cached
// identity. Fails with an expired fault once the host object is gone; the
// caller must then treat the instance as unreachable from the host side.
func (h WeakHandle) Upgrade() (*StrongRef, error) {
	if h.IsZero() || !h.sys.IsLive(h.id) {
		return nil, fault.Expired(h.id)
	}
	if err := h.sys.IncRef(h.id); err != nil {
		return nil, fault.New(fault.PhaseUpgrade, fault.KindExpired).
			Detail("host refused a strong reference to %s", h.id).
			Cause(err).
			Build()
	}
	return &StrongRef{sys: h.sys, id: h.id}, nil
}

// String exposes the host identity for diagnostics only.
func (h WeakHandle) String() string {
	return fmt.Sprintf("WeakHandle{id: %s}", h.id)
}

// StrongRef is a transient owning reference obtained from a weak handle's
// Upgrade. Hold it only for the duration of a host call.
type StrongRef struct {
	sys      System
	id       ObjectID
	released bool
}

// ID returns the identity token.
func (r *StrongRef) ID() ObjectID {
	return r.id
}

// Release drops the strong reference. last reports whether this was the
// host object's final reference. Calling Release again does nothing.
func (r *StrongRef) Release() (last bool) {
	if r.released {
		return false
	}
	r.released = true
	last, _ = r.sys.DecRef(r.id)
	return last
}
