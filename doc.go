// Package hostcell provides borrow-safe instance storage for natively
// implemented extension objects shared with an external, reference-counted
// host object system.
//
// The host may call back into an extension instance at any time after
// construction, including reentrantly from code the extension author does not
// control. This library keeps that safe without OS-level locking in the
// common case, and tears the instance down exactly once no matter which side
// triggers destruction.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	hostcell/         Root package with the described-instance contract
//	├── cell/         Dynamic borrow-checked cell and guards
//	├── host/         Host system interface, identity tokens, weak handles
//	├── storage/      Per-instance storage unit and lifecycle latch
//	├── fault/        Structured faults with holder call-site snapshots
//	├── trace/        Borrow/lifecycle event capture (JSONL)
//	├── config/       Deploy-time scheduling mode and diagnostics options
//	└── cmd/          Trace inspection tooling
//
// # Quick Start
//
// Construct a storage unit for an instance the host just created:
//
//	base := host.Weak(sys, wrapperID)
//	unit := storage.Construct(&Counter{}, base)
//
//	// Host call path: borrow the instance for the duration of a method call.
//	guard, err := unit.GetExclusive()
//	if err != nil {
//		return err
//	}
//	defer guard.Release()
//	guard.Value().Increment()
//
// When the host wrapper is destroyed, run the host-initiated teardown:
//
//	unit.DestroyByHost()
//
// # The Three Hazards
//
// Aliasing: a borrow held across a host callback that reenters the same
// instance would hand out two mutable views of one value. The cell detects
// this dynamically and fails fast with the call sites of every holder.
//
// Ownership cycle: the instance needs a back-reference to its host wrapper,
// but the wrapper transitively owns the instance. The back-reference is a
// weak handle that never contributes to the host's strong count and
// re-validates liveness on every upgrade.
//
// Double destruction: the host's refcount reaching zero and the extension
// side dropping its last handle are independent triggers with different
// teardown orders. A single atomic Alive→Destroying latch lets whichever
// fires first own the entire sequence; the second entry is a reported fault.
package hostcell
