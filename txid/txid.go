// Package txid issues ordered identifiers for sessions and commits.
package txid

import (
	"strconv"
	"time"
)

// An ID that represents one particular session or commit. Ordered, and can be
// compared using [ID.Less]. Zero value is a valid ID.
type ID struct {
	epoch uint32
	xid   uint32 // allowed to wrap
}

func (id ID) Uint64() uint64 {
	return uint64(id.epoch)<<32 + uint64(id.xid)
}

// Split destructures the id into its epoch and sequence parts.
func (id ID) Split() (epoch uint32, xid uint32) {
	return id.epoch, id.xid
}

// Inc assigns time.Now() to epoch and adds 1 to xid.
func (id ID) Inc() ID {
	return ID{
		epoch: uint32(time.Now().Unix()),
		xid:   id.xid + 1,
	}
}

func (id ID) Less(rhs ID) bool {
	return id.Uint64() < rhs.Uint64()
}

func (id ID) IsZero() bool {
	return id == ID{}
}

func (id ID) String() string {
	return strconv.FormatUint(id.Uint64(), 16)
}

func FromUint64(n uint64) ID {
	return ID{
		epoch: uint32(n >> 32),
		xid:   uint32(n),
	}
}

func FromString(s string) (ID, error) {
	raw, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return ID{}, err
	}

	return FromUint64(raw), nil
}

func New(t time.Time, xid uint32) ID {
	return ID{epoch: uint32(t.Unix()), xid: xid}
}
