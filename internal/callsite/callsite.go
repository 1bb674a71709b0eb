// Package callsite captures lightweight acquisition snapshots for borrow
// diagnostics. A snapshot is a raw program-counter stack; symbolization is
// deferred until the snapshot is rendered, so capture stays cheap on the
// borrow fast path.
package callsite

import (
	"runtime"
	"strconv"
	"strings"
)

const maxDepth = 32

// Snapshot is a captured call stack.
type Snapshot struct {
	pcs []uintptr
}

// Capture records the current call stack. skip counts frames to omit on top
// of Capture itself; 0 makes the caller of Capture the first frame.
func Capture(skip int) Snapshot {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, pcs)
	return Snapshot{pcs: pcs[:n]}
}

// IsZero reports whether the snapshot holds no frames.
func (s Snapshot) IsZero() bool {
	return len(s.pcs) == 0
}

// Frames symbolizes the snapshot into "function (file:line)" strings.
func (s Snapshot) Frames() []string {
	if len(s.pcs) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.pcs))
	frames := runtime.CallersFrames(s.pcs)
	for {
		f, more := frames.Next()
		if f.Function != "" {
			var b strings.Builder
			b.WriteString(f.Function)
			b.WriteString(" (")
			b.WriteString(f.File)
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(f.Line))
			b.WriteByte(')')
			out = append(out, b.String())
		}
		if !more {
			break
		}
	}
	return out
}

// String renders the snapshot one frame per line.
func (s Snapshot) String() string {
	return strings.Join(s.Frames(), "\n")
}
