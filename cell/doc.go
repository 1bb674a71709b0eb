// Package cell implements a dynamic borrow-checked cell for a single
// instance value.
//
// The aliasing hazard it guards against arises across an opaque host call
// boundary: extension code borrows the instance, calls into the host, and
// the host reenters the same instance before the first borrow is released.
// No static analysis can see through that boundary, so the cell checks at
// runtime and fails fast with the call sites of every conflicting holder.
//
// # State Machine
//
//	Free ⇄ Shared(n)
//	Free → Exclusive → Free
//	Free → Inaccessible → Free
//
// No transition skips Free. Shared never coexists with Exclusive or
// Inaccessible, and at most one Exclusive or Inaccessible borrow exists at
// any time. A guard's Release is the only way a borrow ends; every success
// path, early return and recovered panic must end in Release.
//
// # Modes
//
// The mode is a deploy-time choice, not a per-instance one:
//
//   - FailFast (default): a conflict is a logic error, reported immediately.
//     Reentrancy, not parallelism, is the dominant hazard on a single
//     calling thread.
//   - Blocking: conflicting acquisitions from other goroutines wait until
//     the cell becomes available. Cross-goroutine contention is transient,
//     not a bug. There is no cancellation, and fairness between waiters is
//     unordered beyond eventual progress. A goroutine that blocks on a cell
//     it already holds exclusively deadlocks; keep reentrant call paths on
//     FailFast semantics.
package cell
