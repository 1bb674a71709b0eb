package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wippyai/hostcell/host"
)

// Op identifies a storage lifecycle or borrow event.
type Op uint8

const (
	OpConstructed Op = iota
	OpBorrowShared
	OpBorrowExclusive
	OpBorrowInaccessible
	OpBorrowReturned
	OpRefInc
	OpRefDec
	OpDestroyed
)

var opNames = map[Op]string{
	OpConstructed:        "constructed",
	OpBorrowShared:       "borrow_shared",
	OpBorrowExclusive:    "borrow_exclusive",
	OpBorrowInaccessible: "borrow_inaccessible",
	OpBorrowReturned:     "borrow_returned",
	OpRefInc:             "ref_inc",
	OpRefDec:             "ref_dec",
	OpDestroyed:          "destroyed",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// MarshalJSON encodes the op by name.
func (o Op) MarshalJSON() ([]byte, error) {
	name, ok := opNames[o]
	if !ok {
		return nil, fmt.Errorf("storage: unknown op %d", uint8(o))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes an op name.
func (o *Op) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for op, n := range opNames {
		if n == name {
			*o = op
			return nil
		}
	}
	return fmt.Errorf("storage: unknown op %q", name)
}

// Event describes one storage lifecycle or borrow event. Events are scoped
// per unit, never process-wide, so captures from concurrently alive units
// compose without cross-talk.
type Event struct {
	Time     time.Time     `json:"time"`
	TypeName string        `json:"type"`
	Sites    []string      `json:"sites,omitempty"`
	Object   host.ObjectID `json:"object"`
	Refs     uint32        `json:"refs"`
	Op       Op            `json:"op"`
}

// Observer receives a unit's events. Observers are fixed at construction.
type Observer interface {
	OnStorageEvent(Event)
}
