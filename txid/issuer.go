package txid

import (
	"sync"
	"sync/atomic"
	"time"
)

type Issuer interface {
	Issue() ID
}

var (
	_ Issuer = (*MxIssuer)(nil)
	_ Issuer = (*AtomicIssuer)(nil)
)

// MxIssuer keeps ids strictly increasing even when the wall clock goes back.
type MxIssuer struct {
	latest ID
	mx     sync.Mutex
}

func (c *MxIssuer) Issue() ID {
	c.mx.Lock()
	defer c.mx.Unlock()

	id := c.latest.Inc()
	if !c.latest.Less(id) {
		id.epoch = c.latest.epoch
	}
	c.latest = id
	return id
}

// AtomicIssuer only counts the 'xid' part and stamps the current epoch.
type AtomicIssuer struct {
	xid atomic.Uint32
}

func NewAtomicIssuer() *AtomicIssuer {
	return &AtomicIssuer{}
}

func (a *AtomicIssuer) Issue() ID {
	return ID{epoch: uint32(time.Now().Unix()), xid: a.xid.Add(1)}
}
