package host

import "fmt"

// ObjectID is an opaque identity token for a host-managed wrapper object.
// It is comparable for equality and carries no liveness guarantee; validate
// through System.IsLive before trusting it. 0 is reserved and never valid.
type ObjectID uint64

// IsZero reports whether the token is the reserved invalid identity.
func (id ObjectID) IsZero() bool {
	return id == 0
}

func (id ObjectID) String() string {
	return fmt.Sprintf("object(%d)", uint64(id))
}

// System is the host object system's refcount surface. The host is the
// authority over object lifetime; this library only shadows the count for
// diagnostics and never decides destruction from it.
type System interface {
	// IncRef adds a strong reference to the object.
	IncRef(id ObjectID) error

	// DecRef drops a strong reference. last reports whether this was the
	// final reference; the host destroys the object as a consequence.
	DecRef(id ObjectID) (last bool, err error)

	// IsLive reports whether the object still exists.
	IsLive(id ObjectID) bool
}
