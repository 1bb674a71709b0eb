package storage

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/hostcell/cell"
	"github.com/wippyai/hostcell/fault"
	"github.com/wippyai/hostcell/host"
	"github.com/wippyai/hostcell/internal/callsite"
)

const (
	hintAccessor = "prefer the accessor the binding provides over re-fetching a handle to the instance"
	hintReport   = "this should not happen outside the binding layer; please report it"
)

// Unit is the bridging storage for one live extension instance: the
// borrow-checked cell owning the instance, the weak handle back to the host
// wrapper, the lifecycle latch and the diagnostic shadow of the host's
// strong count.
type Unit[T any] struct {
	cell *cell.Cell[T]

	baseMu sync.Mutex
	base   host.WeakHandle

	life       LifecycleLatch
	shadowRefs atomic.Uint32

	object    host.ObjectID
	typeName  string
	log       *zap.Logger
	observers []Observer
}

// Option configures a Unit at construction.
type Option func(*options)

type options struct {
	mode      cell.Mode
	capture   bool
	typeName  string
	log       *zap.Logger
	observers []Observer
}

// WithMode selects the borrow acquisition mode (deploy-time choice).
func WithMode(m cell.Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithSiteCapture toggles call-site snapshots on borrows.
func WithSiteCapture(enabled bool) Option {
	return func(o *options) { o.capture = enabled }
}

// WithTypeName overrides the declared type name used in diagnostics.
// Defaults to the instance's Go type.
func WithTypeName(name string) Option {
	return func(o *options) { o.typeName = name }
}

// WithLogger overrides the package logger for this unit.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithObserver registers an observer for this unit's events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// Construct creates the storage for an instance the host just constructed.
// The unit starts Alive with a shadow count of 1: the host holds the first
// strong reference at construction time, by contract of the host API. The
// base handle must be non-zero and stays valid for the unit's entire Alive
// lifetime.
func Construct[T any](instance T, base host.WeakHandle, opts ...Option) *Unit[T] {
	if base.IsZero() {
		panic("storage: constructed with a null base handle")
	}

	o := options{capture: true, log: Logger()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.typeName == "" {
		o.typeName = fmt.Sprintf("%T", instance)
	}

	u := &Unit[T]{
		base:      base,
		object:    base.ID(),
		typeName:  o.typeName,
		log:       o.log,
		observers: o.observers,
	}
	u.shadowRefs.Store(1)
	u.cell = cell.New(instance,
		cell.WithMode(o.mode),
		cell.WithSiteCapture(o.capture),
		cell.WithReleaseHook(u.onGuardReleased),
	)

	u.log.Debug("storage construct",
		zap.String("type", u.typeName),
		zap.Stringer("object", u.object))
	u.notify(OpConstructed, nil)
	return u
}

// IsBound reports whether any borrow guard is outstanding.
func (u *Unit[T]) IsBound() bool {
	return u.cell.IsBound()
}

// Base returns the weak handle to the host wrapper. It is zero only after
// teardown.
func (u *Unit[T]) Base() host.WeakHandle {
	u.baseMu.Lock()
	defer u.baseMu.Unlock()
	return u.base
}

// TypeName returns the declared instance type name used in diagnostics.
func (u *Unit[T]) TypeName() string {
	return u.typeName
}

// Lifecycle returns the unit's current lifecycle.
func (u *Unit[T]) Lifecycle() Lifecycle {
	return u.life.Get()
}

// HostRefCount returns the shadow of the host's strong count. Diagnostics
// only; never read for correctness.
func (u *Unit[T]) HostRefCount() uint32 {
	return u.shadowRefs.Load()
}

// GetShared borrows the instance for reading.
func (u *Unit[T]) GetShared() (*cell.SharedGuard[T], error) {
	if u.life.Get() == Destroying {
		return nil, fault.Destroying(u.typeName)
	}
	g, err := u.cell.AcquireShared()
	if err != nil {
		return nil, u.upgradeFault(err, hintAccessor)
	}
	u.notify(OpBorrowShared, u.holderSites())
	return g, nil
}

// GetExclusive borrows the instance for mutation.
func (u *Unit[T]) GetExclusive() (*cell.ExclusiveGuard[T], error) {
	if u.life.Get() == Destroying {
		return nil, fault.Destroying(u.typeName)
	}
	g, err := u.cell.AcquireExclusive()
	if err != nil {
		return nil, u.upgradeFault(err, hintAccessor)
	}
	u.notify(OpBorrowExclusive, u.holderSites())
	return g, nil
}

// GetInaccessible swaps the instance out for replacement so the host can
// reenter through a parallel path without observing a borrowed cell.
func (u *Unit[T]) GetInaccessible(replacement T) (*cell.InaccessibleGuard[T], error) {
	if u.life.Get() == Destroying {
		return nil, fault.Destroying(u.typeName)
	}
	g, err := u.cell.MakeInaccessible(replacement)
	if err != nil {
		return nil, u.upgradeFault(err, hintReport)
	}
	u.notify(OpBorrowInaccessible, u.holderSites())
	return g, nil
}

// Bind is the generated-bindings entry point for shared access: a borrow
// conflict here is unexpected reentrancy, a logic error, so it aborts the
// current call path by panicking with the full diagnostic fault.
func (u *Unit[T]) Bind() *cell.SharedGuard[T] {
	g, err := u.GetShared()
	if err != nil {
		panic(err)
	}
	return g
}

// BindMut is the generated-bindings entry point for mutable access. Panics
// on conflict, like Bind.
func (u *Unit[T]) BindMut() *cell.ExclusiveGuard[T] {
	g, err := u.GetExclusive()
	if err != nil {
		panic(err)
	}
	return g
}

// OnIncRef mirrors a host-side strong reference increment into the shadow
// count. Pure bookkeeping; no effect on lifecycle.
func (u *Unit[T]) OnIncRef() {
	refs := u.shadowRefs.Add(1)
	u.log.Debug("storage inc-ref",
		zap.Uint32("refs", refs),
		zap.String("type", u.typeName),
		zap.Stringer("object", u.object))
	u.notify(OpRefInc, nil)
}

// OnDecRef mirrors a host-side strong reference decrement. Reaching zero
// does not trigger teardown: the host, not this shadow, decides when to
// destroy. Underflow is clamped and logged, since the count is advisory.
func (u *Unit[T]) OnDecRef() {
	for {
		cur := u.shadowRefs.Load()
		if cur == 0 {
			u.log.Warn("storage dec-ref below zero",
				zap.String("type", u.typeName),
				zap.Stringer("object", u.object))
			break
		}
		if u.shadowRefs.CompareAndSwap(cur, cur-1) {
			u.log.Debug("storage dec-ref",
				zap.Uint32("refs", cur-1),
				zap.String("type", u.typeName),
				zap.Stringer("object", u.object))
			break
		}
	}
	u.notify(OpRefDec, nil)
}

// DestroyByHost is the host-initiated teardown entry point, called when the
// host wrapper's destructor runs.
func (u *Unit[T]) DestroyByHost() {
	u.destroy("host")
}

// DestroyByExtension is the extension-initiated teardown entry point,
// called when extension code releases its last strong handle without the
// host destructor ever running.
func (u *Unit[T]) DestroyByExtension() {
	u.destroy("extension")
}

func (u *Unit[T]) destroy(origin string) {
	if !u.life.BeginDestroy() {
		panic(fault.DoubleTeardown(u.typeName))
	}

	// Lifecycle is latched; no new borrows can be granted past this point.
	if _, err := u.cell.Close(); err != nil {
		var f *fault.Fault
		if errors.As(err, &f) {
			panic(fault.From(f).TypeName(u.typeName).Build())
		}
		panic(err)
	}

	u.baseMu.Lock()
	u.base = host.WeakHandle{}
	u.baseMu.Unlock()

	u.log.Debug("storage destroy",
		zap.String("origin", origin),
		zap.Uint32("refs", u.shadowRefs.Load()),
		zap.String("type", u.typeName),
		zap.Stringer("object", u.object))
	u.notify(OpDestroyed, nil)
}

// Holders returns snapshots of every outstanding borrow site.
func (u *Unit[T]) Holders() []callsite.Snapshot {
	return u.cell.Holders()
}

func (u *Unit[T]) holderSites() []string {
	holders := u.cell.Holders()
	if len(holders) == 0 {
		return nil
	}
	sites := make([]string, 0, len(holders))
	for _, h := range holders {
		frames := h.Frames()
		if len(frames) > 0 {
			sites = append(sites, frames[0])
		}
	}
	return sites
}

func (u *Unit[T]) upgradeFault(err error, hint string) error {
	var f *fault.Fault
	if !errors.As(err, &f) {
		return err
	}
	return fault.From(f).TypeName(u.typeName).Hint(hint).Build()
}

func (u *Unit[T]) onGuardReleased() {
	u.notify(OpBorrowReturned, nil)
}

func (u *Unit[T]) notify(op Op, sites []string) {
	if len(u.observers) == 0 {
		return
	}
	e := Event{
		Time:     time.Now(),
		Op:       op,
		TypeName: u.typeName,
		Object:   u.object,
		Refs:     u.shadowRefs.Load(),
		Sites:    sites,
	}
	for _, obs := range u.observers {
		obs.OnStorageEvent(e)
	}
}
