package host

import (
	"errors"
	"strings"
	"testing"

	"github.com/wippyai/hostcell/fault"
)

func TestWeakDoesNotOwn(t *testing.T) {
	sys := NewMemorySystem()
	id := sys.Register("wrapper", nil)

	h := Weak(sys, id)
	refs, _ := sys.RefCount(id)
	if refs != 1 {
		t.Fatalf("constructing a weak handle must not touch the count; refs = %d", refs)
	}
	if h.ID() != id {
		t.Fatal("handle should carry the identity it was built from")
	}
}

func TestWeakPanicsOnNullIdentity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a null identity")
		}
	}()
	Weak(NewMemorySystem(), 0)
}

func TestUpgradeIncrementsAndReleases(t *testing.T) {
	sys := NewMemorySystem()
	id := sys.Register("wrapper", nil)
	h := Weak(sys, id)

	strong, err := h.Upgrade()
	if err != nil {
		t.Fatalf("upgrade failed: %v", err)
	}
	refs, _ := sys.RefCount(id)
	if refs != 2 {
		t.Fatalf("upgrade should add a strong reference; refs = %d", refs)
	}

	if last := strong.Release(); last {
		t.Fatal("host still holds a reference, release must not be last")
	}
	refs, _ = sys.RefCount(id)
	if refs != 1 {
		t.Fatalf("release should drop the strong reference; refs = %d", refs)
	}

	if last := strong.Release(); last {
		t.Fatal("second release must be a no-op")
	}
}

func TestUpgradeAfterHostDestroyed(t *testing.T) {
	sys := NewMemorySystem()
	id := sys.Register("wrapper", nil)
	h := Weak(sys, id)

	if _, err := sys.DecRef(id); err != nil {
		t.Fatalf("DecRef failed: %v", err)
	}

	_, err := h.Upgrade()
	if !errors.Is(err, fault.Expired(ObjectID(0))) {
		t.Fatalf("expected expired fault, got %v", err)
	}
}

func TestWeakStringIsDiagnosticOnly(t *testing.T) {
	sys := NewMemorySystem()
	id := sys.Register("wrapper", nil)
	h := Weak(sys, id)

	if !strings.Contains(h.String(), "WeakHandle") {
		t.Fatalf("debug format = %q", h.String())
	}
}
