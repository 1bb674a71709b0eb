// Package fault defines the structured error type shared by the borrow cell,
// the weak host handle and the storage unit.
//
// A Fault pairs a Phase (where it happened) with a Kind (what happened), and
// borrow conflicts additionally carry the call-site snapshots of every
// current guard holder. Faults compare with errors.Is on Phase and Kind:
//
//	if errors.Is(err, fault.Borrowed("")) {
//		// an exclusive borrow conflicted with outstanding guards
//	}
//
// Borrow-conflict faults are logic errors, not transient conditions; nothing
// in this library retries them.
package fault
