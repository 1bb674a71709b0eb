// Package host defines the boundary to the external, reference-counted
// object system: opaque identity tokens, the authoritative refcount
// operations, and the weak handle an extension instance holds back to its
// own wrapper.
//
// # The Cycle the Weak Handle Breaks
//
// The host wrapper transitively owns the extension instance:
//
//	host wrapper → instance storage → instance → back-reference → host wrapper
//
// If the back-reference contributed to the wrapper's strong count, the
// wrapper could never reach zero: its own instance would keep it alive.
// WeakHandle therefore never increments the count; it re-validates liveness
// through the host's own predicate on every Upgrade instead of assuming a
// cached pointer is still good. Keep it that way: reintroducing a strong
// edge here reintroduces the leak.
//
// MemorySystem is a reference System for tests and embedders without a real
// host; production embedders wrap their host's native refcount operations.
package host
