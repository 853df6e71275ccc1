package engine

import (
	"dbhelper/storage"
	"dbhelper/txid"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// Engine owns the storage and hands out sessions over it.
type Engine struct {
	storage storage.Storage[[]byte]
	model   *Model
	txidiss txid.Issuer
	log     *slog.Logger

	// saves from different sessions go one at a time
	commitMx sync.Mutex

	ownersMx sync.Mutex
	owners   map[Record]txid.ID
}

func New(stg storage.Storage[[]byte], model *Model, txidiss txid.Issuer, opts ...Option) *Engine {
	e := &Engine{
		storage: stg,
		model:   model,
		txidiss: txidiss,
		log:     slog.Default(),
		owners:  make(map[Record]txid.ID),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Model() *Model {
	return e.model
}

func (e *Engine) NewSession() *Session {
	id := e.txidiss.Issue()
	return &Session{
		id:       id,
		engine:   e,
		objects:  make(map[string]*tracked),
		byRecord: make(map[Record]*tracked),
		log:      e.log.With("session", id.String()),
	}
}

// Close closes the underlying storage when it holds resources.
func (e *Engine) Close() error {
	if c, ok := e.storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (e *Engine) claim(r Record, session txid.ID) error {
	e.ownersMx.Lock()
	defer e.ownersMx.Unlock()

	if owner, ok := e.owners[r]; ok && owner != session {
		return fmt.Errorf("%w: tracked by session %s", ErrNotOwned, owner)
	}
	e.owners[r] = session
	return nil
}

func (e *Engine) release(r Record, session txid.ID) {
	e.ownersMx.Lock()
	defer e.ownersMx.Unlock()

	if owner, ok := e.owners[r]; ok && owner == session {
		delete(e.owners, r)
	}
}
