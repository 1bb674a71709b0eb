package host

import (
	"errors"
	"testing"
)

func TestMemorySystemBasic(t *testing.T) {
	sys := NewMemorySystem()

	id := sys.Register("wrapper", nil)
	if id.IsZero() {
		t.Fatal("expected non-zero identity")
	}
	if !sys.IsLive(id) {
		t.Fatal("freshly registered object should be live")
	}

	v, ok := sys.Value(id)
	if !ok || v != "wrapper" {
		t.Fatalf("Value = %v, %v", v, ok)
	}

	refs, ok := sys.RefCount(id)
	if !ok || refs != 1 {
		t.Fatalf("RefCount = %d, want 1", refs)
	}
}

func TestMemorySystemRefCounting(t *testing.T) {
	sys := NewMemorySystem()
	id := sys.Register("x", nil)

	if err := sys.IncRef(id); err != nil {
		t.Fatalf("IncRef failed: %v", err)
	}

	last, err := sys.DecRef(id)
	if err != nil || last {
		t.Fatalf("DecRef = %v, %v; two refs remained", last, err)
	}

	last, err = sys.DecRef(id)
	if err != nil {
		t.Fatalf("DecRef failed: %v", err)
	}
	if !last {
		t.Fatal("final DecRef should report last")
	}
	if sys.IsLive(id) {
		t.Fatal("object should be dead after the last DecRef")
	}
	if sys.Len() != 0 {
		t.Fatalf("Len = %d, want 0", sys.Len())
	}
}

func TestMemorySystemFinalizer(t *testing.T) {
	sys := NewMemorySystem()

	var finalized []ObjectID
	id := sys.Register("x", func(dead ObjectID) {
		finalized = append(finalized, dead)
		// Reentrancy: the finalizer may call back into the system.
		if sys.IsLive(dead) {
			t.Error("object must be dead inside its own finalizer")
		}
	})

	if _, err := sys.DecRef(id); err != nil {
		t.Fatalf("DecRef failed: %v", err)
	}
	if len(finalized) != 1 || finalized[0] != id {
		t.Fatalf("finalized = %v, want [%v]", finalized, id)
	}
}

func TestMemorySystemDeadObjectOperations(t *testing.T) {
	sys := NewMemorySystem()
	id := sys.Register("x", nil)
	if _, err := sys.DecRef(id); err != nil {
		t.Fatalf("DecRef failed: %v", err)
	}

	if err := sys.IncRef(id); !errors.Is(err, ErrDeadObject) {
		t.Fatalf("IncRef on dead object = %v, want ErrDeadObject", err)
	}
	if _, err := sys.DecRef(id); !errors.Is(err, ErrDeadObject) {
		t.Fatalf("DecRef on dead object = %v, want ErrDeadObject", err)
	}
	if err := sys.IncRef(0); !errors.Is(err, ErrUnknownObject) {
		t.Fatalf("IncRef(0) = %v, want ErrUnknownObject", err)
	}
}

func TestMemorySystemRecyclesSlots(t *testing.T) {
	sys := NewMemorySystem()

	a := sys.Register("a", nil)
	if _, err := sys.DecRef(a); err != nil {
		t.Fatalf("DecRef failed: %v", err)
	}

	b := sys.Register("b", nil)
	if b != a {
		t.Fatalf("expected the freed slot to be recycled: got %v, freed %v", b, a)
	}
	v, ok := sys.Value(b)
	if !ok || v != "b" {
		t.Fatalf("recycled slot holds %v", v)
	}
}
