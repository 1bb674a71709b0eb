// Package trace captures a storage unit's borrow and lifecycle events as
// JSON lines, one event per line, for offline inspection with the
// borrowtrace tool.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/wippyai/hostcell/storage"
)

// Recorder writes storage events to a stream as JSON lines. It implements
// storage.Observer and is safe for units living on different goroutines.
type Recorder struct {
	mu  sync.Mutex
	enc *json.Encoder
	c   io.Closer
}

// NewRecorder creates a recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	r := &Recorder{enc: json.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		r.c = c
	}
	return r
}

// Open creates a recorder writing to a file, truncating any previous
// capture at that path.
func Open(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open capture: %w", err)
	}
	return NewRecorder(f), nil
}

// OnStorageEvent appends one event to the capture. Encoding failures are
// dropped; a diagnostics capture must never take down the instance path.
func (r *Recorder) OnStorageEvent(e storage.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.enc.Encode(e)
}

// Close closes the underlying stream if it is closable.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.c == nil {
		return nil
	}
	return r.c.Close()
}

// Decode reads a capture back into events. Blank lines are skipped; a
// malformed line fails the whole decode with its line number.
func Decode(r io.Reader) ([]storage.Event, error) {
	var events []storage.Event
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var e storage.Event
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("trace: line %d: %w", line, err)
		}
		events = append(events, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: read capture: %w", err)
	}
	return events, nil
}

// DecodeFile reads a capture file back into events.
func DecodeFile(path string) ([]storage.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open capture: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
