package fault

import (
	"fmt"
	"strings"

	"github.com/wippyai/hostcell/internal/callsite"
)

// Phase indicates where in the instance lifecycle the fault occurred
type Phase string

const (
	PhaseBorrow   Phase = "borrow"   // guard acquisition
	PhaseUpgrade  Phase = "upgrade"  // weak handle upgrade
	PhaseTeardown Phase = "teardown" // instance destruction
	PhaseConfig   Phase = "config"   // deploy-time configuration
)

// Kind categorizes the fault
type Kind string

const (
	// KindBorrowed: exclusive or inaccessible access requested while any
	// borrow is outstanding.
	KindBorrowed Kind = "already_borrowed"

	// KindExclusivelyBorrowed: shared access requested while an exclusive or
	// inaccessible borrow is outstanding.
	KindExclusivelyBorrowed Kind = "already_exclusively_borrowed"

	// KindExpired: weak handle upgraded after the host object is gone.
	KindExpired Kind = "expired"

	// KindDestroyWhileBound: teardown attempted while a guard is alive.
	KindDestroyWhileBound Kind = "destroy_while_bound"

	// KindDoubleTeardown: a second teardown path entered an already
	// destroying unit.
	KindDoubleTeardown Kind = "double_teardown"

	// KindRevived: lifecycle set back to Alive after Destroying.
	KindRevived Kind = "lifecycle_revived"

	// KindDestroying: borrow requested on a unit that began teardown.
	KindDestroying Kind = "destroying"

	// KindClosed: cell accessed after its value was released.
	KindClosed Kind = "closed"

	// KindInvalidConfig: configuration failed validation.
	KindInvalidConfig Kind = "invalid_config"
)

// Fault is the structured error type used throughout the library.
// Borrow-conflict faults carry the call-site snapshots of every current
// holder so the conflicting acquisition path is debuggable without a
// debugger attached.
type Fault struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Detail   string
	Hint     string
	Holders  []callsite.Snapshot
}

// Error implements the error interface
func (f *Fault) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(f.Phase))
	b.WriteString("] ")
	b.WriteString(string(f.Kind))

	if f.TypeName != "" {
		b.WriteString("; T = ")
		b.WriteString(f.TypeName)
	}

	if f.Detail != "" {
		b.WriteString(": ")
		b.WriteString(f.Detail)
	}

	if f.Hint != "" {
		b.WriteString("\n  hint: ")
		b.WriteString(f.Hint)
	}

	for i, h := range f.Holders {
		if h.IsZero() {
			continue
		}
		fmt.Fprintf(&b, "\n  holder %d:\n", i+1)
		for _, frame := range h.Frames() {
			b.WriteString("    ")
			b.WriteString(frame)
			b.WriteByte('\n')
		}
	}

	if f.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(f.Cause.Error())
		b.WriteByte(')')
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Unwrap returns the underlying error
func (f *Fault) Unwrap() error {
	return f.Cause
}

// Is reports whether target matches this fault
func (f *Fault) Is(target error) bool {
	if t, ok := target.(*Fault); ok {
		return f.Phase == t.Phase && f.Kind == t.Kind
	}
	return false
}

// Builder provides structured fault construction
type Builder struct {
	f Fault
}

// New creates a new fault builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		f: Fault{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// From starts a builder from an existing fault, preserving its phase, kind,
// detail and holders. Used by storage to upgrade cell-level faults with the
// instance type name and an actionable hint.
func From(f *Fault) *Builder {
	return &Builder{f: *f}
}

// TypeName sets the declared instance type name
func (b *Builder) TypeName(t string) *Builder {
	b.f.TypeName = t
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.f.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.f.Detail = msg
	}
	return b
}

// Hint sets the suggested fix
func (b *Builder) Hint(hint string) *Builder {
	b.f.Hint = hint
	return b
}

// Holders attaches the call-site snapshots of the conflicting borrows
func (b *Builder) Holders(holders ...callsite.Snapshot) *Builder {
	b.f.Holders = holders
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.f.Cause = err
	return b
}

// Build returns the constructed fault
func (b *Builder) Build() *Fault {
	return &b.f
}

// Convenience constructors for the fault taxonomy

// Borrowed creates an already-borrowed fault listing every current holder.
func Borrowed(detail string, holders ...callsite.Snapshot) *Fault {
	return &Fault{
		Phase:   PhaseBorrow,
		Kind:    KindBorrowed,
		Detail:  detail,
		Holders: holders,
	}
}

// ExclusivelyBorrowed creates a shared-denied fault carrying the snapshot of
// the conflicting exclusive borrow.
func ExclusivelyBorrowed(detail string, holders ...callsite.Snapshot) *Fault {
	return &Fault{
		Phase:   PhaseBorrow,
		Kind:    KindExclusivelyBorrowed,
		Detail:  detail,
		Holders: holders,
	}
}

// Expired creates an expired weak handle fault.
func Expired(object fmt.Stringer) *Fault {
	return &Fault{
		Phase:  PhaseUpgrade,
		Kind:   KindExpired,
		Detail: fmt.Sprintf("host object %s is gone", object),
	}
}

// DestroyWhileBound creates a fatal teardown-while-borrowed fault.
func DestroyWhileBound(holders ...callsite.Snapshot) *Fault {
	return &Fault{
		Phase:   PhaseTeardown,
		Kind:    KindDestroyWhileBound,
		Detail:  "instance torn down while a guard is alive",
		Holders: holders,
	}
}

// DoubleTeardown creates a fatal second-teardown fault.
func DoubleTeardown(typeName string) *Fault {
	return &Fault{
		Phase:    PhaseTeardown,
		Kind:     KindDoubleTeardown,
		TypeName: typeName,
		Detail:   "teardown entered twice; the first entry owns the whole sequence",
	}
}

// Destroying creates a borrow-after-teardown-began fault.
func Destroying(typeName string) *Fault {
	return &Fault{
		Phase:    PhaseBorrow,
		Kind:     KindDestroying,
		TypeName: typeName,
		Detail:   "no new borrows once teardown has begun",
	}
}

// Closed creates a cell-accessed-after-release fault.
func Closed() *Fault {
	return &Fault{
		Phase:  PhaseBorrow,
		Kind:   KindClosed,
		Detail: "cell value already released",
	}
}

// InvalidConfig creates a configuration validation fault.
func InvalidConfig(detail string, cause error) *Fault {
	return &Fault{
		Phase:  PhaseConfig,
		Kind:   KindInvalidConfig,
		Detail: detail,
		Cause:  cause,
	}
}
