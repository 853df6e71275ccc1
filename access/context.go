package access

import (
	"dbhelper"
	"dbhelper/engine"
	"errors"
	"fmt"
	"log/slog"
)

type Option func(*Context)

func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		c.log = l
	}
}

// Context is a unit of work over one engine session. Records fetched or
// created through a context belong to it until it is closed, and every
// store bound to the context commits through it.
//
// A Context is not safe for concurrent use.
type Context struct {
	engine  *engine.Engine
	session *engine.Session
	log     *slog.Logger
}

func NewContext(e *engine.Engine, opts ...Option) *Context {
	c := &Context{
		engine:  e,
		session: e.NewSession(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("session", c.session.ID().String())
	return c
}

// Commit persists every staged change. A failed commit leaves the staged
// changes in place; call Rollback to drop them.
func (c *Context) Commit() error {
	if err := c.session.Save(); err != nil {
		if errors.Is(err, engine.ErrSessionClosed) {
			return dbhelper.Errorf(dbhelper.KindContract, "commit", err)
		}
		c.log.Debug("commit failed", "err", err)
		return dbhelper.Errorf(dbhelper.KindWrite, "commit", err)
	}
	c.log.Debug("committed", "txid", c.session.LastCommit().String())
	return nil
}

// StageInsert marks r as new. It is written by the next Commit.
func (c *Context) StageInsert(r engine.Record) error {
	if err := c.session.Insert(r); err != nil {
		return dbhelper.Errorf(dbhelper.KindContract, "insert", err)
	}
	return nil
}

// StageDeletion marks r for removal. r must have been fetched or created
// through this context.
func (c *Context) StageDeletion(r engine.Record) error {
	if err := c.session.Delete(r); err != nil {
		return dbhelper.Errorf(dbhelper.KindContract, "delete", err)
	}
	return nil
}

func (c *Context) Owns(r engine.Record) bool {
	return c.session.Owns(r)
}

func (c *Context) HasChanges() bool {
	return c.session.HasChanges()
}

// Rollback drops staged changes and restores owned records to what was
// last committed.
func (c *Context) Rollback() error {
	if err := c.session.Rollback(); err != nil {
		kind := dbhelper.KindWrite
		if errors.Is(err, engine.ErrSessionClosed) {
			kind = dbhelper.KindContract
		}
		return dbhelper.Errorf(kind, "rollback", err)
	}
	return nil
}

// Close releases every owned record. Uncommitted changes are lost.
func (c *Context) Close() error {
	if c.session.HasChanges() {
		c.log.Warn("closing with uncommitted changes")
	}
	return c.session.Close()
}

func (c *Context) fetch(req engine.FetchRequest) ([]engine.Record, error) {
	recs, err := c.session.Fetch(req)
	if err != nil {
		if errors.Is(err, engine.ErrSessionClosed) {
			return nil, dbhelper.Errorf(dbhelper.KindContract, "fetch", err)
		}
		return nil, dbhelper.Errorf(dbhelper.KindQuery, "fetch", fmt.Errorf("%s: %w", req.Entity, err))
	}
	return recs, nil
}
