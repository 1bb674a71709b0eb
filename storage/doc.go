// Package storage bridges one extension instance to the host object system.
//
// A Unit composes the borrow-checked cell owning the instance, the weak
// handle back to the host wrapper, a monotone Alive→Destroying lifecycle
// latch, and a shadow of the host's strong-reference count kept purely for
// diagnostics.
//
// # Teardown
//
// Two independent triggers converge on one resource. The host-initiated
// path runs when the wrapper's destructor fires; the extension-initiated
// path runs when extension code drops its last strong handle without the
// host destructor ever being involved. Whichever entry point latches
// Alive→Destroying first owns the entire sequence:
//
//  1. latch the lifecycle (loser of the race is a DoubleTeardown fault)
//  2. verify no guard is alive (DestroyWhileBound fault otherwise)
//  3. release the cell's instance
//  4. clear the weak base handle
//
// The shadow refcount never drives any of this; the host is the authority.
package storage
