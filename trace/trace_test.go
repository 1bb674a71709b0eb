package trace

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/hostcell/host"
	"github.com/wippyai/hostcell/storage"
)

type sprite struct {
	frame int
}

func TestRecorderCapturesUnitEvents(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	sys := host.NewMemorySystem()
	id := sys.Register("wrapper", nil)
	u := storage.Construct(sprite{}, host.Weak(sys, id), storage.WithObserver(rec))

	g, err := u.GetExclusive()
	require.NoError(t, err)
	g.Value().frame = 3
	g.Release()
	u.DestroyByHost()

	events, err := Decode(&buf)
	require.NoError(t, err)

	ops := make([]storage.Op, 0, len(events))
	for _, e := range events {
		ops = append(ops, e.Op)
	}
	assert.Equal(t, []storage.Op{
		storage.OpConstructed,
		storage.OpBorrowExclusive,
		storage.OpBorrowReturned,
		storage.OpDestroyed,
	}, ops)

	for _, e := range events {
		assert.Equal(t, "trace.sprite", e.TypeName)
		assert.Equal(t, id, e.Object)
		assert.False(t, e.Time.IsZero())
	}
	assert.NotEmpty(t, events[1].Sites, "borrow events carry acquisition sites")
}

func TestOpenAndDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	rec, err := Open(path)
	require.NoError(t, err)

	sys := host.NewMemorySystem()
	id := sys.Register("wrapper", nil)
	u := storage.Construct(sprite{}, host.Weak(sys, id), storage.WithObserver(rec))
	u.OnIncRef()
	u.OnDecRef()
	u.DestroyByExtension()
	require.NoError(t, rec.Close())

	events, err := DecodeFile(path)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, storage.OpRefInc, events[1].Op)
	assert.Equal(t, uint32(2), events[1].Refs)
}

func TestDecodeRejectsMalformedLine(t *testing.T) {
	_, err := Decode(bytes.NewBufferString("{\"op\":\"constructed\"}\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestDecodeSkipsBlankLines(t *testing.T) {
	events, err := Decode(bytes.NewBufferString("\n{\"op\":\"destroyed\",\"type\":\"sprite\",\"object\":1,\"refs\":0,\"time\":\"2026-08-25T10:00:00Z\"}\n\n"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, storage.OpDestroyed, events[0].Op)
}
