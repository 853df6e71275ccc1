package engine

import (
	"bytes"
	"dbhelper/key"
	"dbhelper/storage"
	"dbhelper/txid"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
)

type state uint8

const (
	stateInserted state = iota + 1
	statePersistent
	stateDeleted
)

type tracked struct {
	rec    Record
	entity *entity
	key    string
	// last committed encoding, nil until the record has been committed
	snapshot []byte
	state    state
	// committed record this one took the key of, restored on rollback
	replaced *tracked
}

// Session tracks records and stages changes to them until Save.
// A session is meant to be driven by one goroutine at a time.
type Session struct {
	id       txid.ID
	engine   *Engine
	objects  map[string]*tracked // by storage key
	byRecord map[Record]*tracked
	last     txid.ID
	closed   bool
	log      *slog.Logger
}

func (s *Session) ID() txid.ID {
	return s.id
}

// LastCommit is the id issued to this session's latest successful save.
func (s *Session) LastCommit() txid.ID {
	return s.last
}

// Owns reports whether r is tracked by this session.
func (s *Session) Owns(r Record) bool {
	if isNil(r) {
		return false
	}
	_, ok := s.byRecord[r]
	return ok
}

// Insert stages r as a new record.
func (s *Session) Insert(r Record) error {
	if s.closed {
		return ErrSessionClosed
	}
	ent, err := s.engine.model.entityOf(r)
	if err != nil {
		return err
	}
	rk, err := key.Record(ent.name, r.RecordID())
	if err != nil {
		return err
	}
	k := rk.String()

	if t, ok := s.byRecord[r]; ok {
		switch t.state {
		case stateInserted:
			return nil
		case statePersistent:
			return fmt.Errorf("%w: %s", ErrDuplicateID, t.key)
		}
		// staged for deletion: insert it back
		t.state = stateInserted
		return nil
	}

	if t, ok := s.objects[k]; ok {
		if t.state != stateDeleted {
			return fmt.Errorf("%w: %s", ErrDuplicateID, k)
		}
		// a deleted record is replaced, the new one overwrites it on save
		orig := t
		if t.replaced != nil {
			orig = t.replaced
		}
		s.detach(t)
		if err := s.attach(&tracked{rec: r, entity: ent, key: k, snapshot: t.snapshot, state: stateInserted, replaced: orig}); err != nil {
			_ = s.attach(t)
			return err
		}
		return nil
	}

	return s.attach(&tracked{rec: r, entity: ent, key: k, state: stateInserted})
}

// Delete stages r for removal. r must be tracked by this session.
func (s *Session) Delete(r Record) error {
	if s.closed {
		return ErrSessionClosed
	}
	if isNil(r) {
		return ErrNilRecord
	}
	t, ok := s.byRecord[r]
	if !ok {
		return fmt.Errorf("%w: %T %s", ErrNotOwned, r, r.RecordID())
	}

	if t.snapshot == nil {
		// never committed, nothing to remove from storage
		s.detach(t)
		return nil
	}
	t.state = stateDeleted
	return nil
}

// HasChanges reports whether Save would write anything.
func (s *Session) HasChanges() bool {
	batch, _, err := s.changes()
	return err != nil || batch.Len() > 0
}

type pending struct {
	t    *tracked
	data []byte
}

// Save commits staged inserts, deletes and every tracked record whose encoding
// changed, atomically. On failure nothing is written and the staged state is kept.
func (s *Session) Save() error {
	if s.closed {
		return ErrSessionClosed
	}
	batch, changed, err := s.changes()
	if err != nil {
		return err
	}
	if batch.Len() == 0 {
		return nil
	}

	e := s.engine
	e.commitMx.Lock()
	defer e.commitMx.Unlock()

	for _, p := range changed {
		if p.t.state != stateInserted || p.t.snapshot != nil {
			continue
		}
		_, exists, err := e.storage.Get(p.t.key)
		if err != nil {
			return fmt.Errorf("check %s: %w", p.t.key, err)
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrDuplicateID, p.t.key)
		}
	}

	if err := e.storage.Apply(batch); err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	s.last = e.txidiss.Issue()

	var written, deleted int
	for _, p := range changed {
		if p.t.state == stateDeleted {
			s.detach(p.t)
			deleted++
			continue
		}
		p.t.snapshot = p.data
		p.t.state = statePersistent
		p.t.replaced = nil
		written++
	}

	s.log.Debug("saved", "txid", s.last.String(), "written", written, "deleted", deleted)
	return nil
}

func (s *Session) changes() (*storage.Batch[[]byte], []pending, error) {
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	batch := storage.NewBatch[[]byte]()
	var changed []pending
	for _, k := range keys {
		t := s.objects[k]
		if t.state == stateDeleted {
			batch.Del(t.key)
			changed = append(changed, pending{t: t})
			continue
		}

		if cur, err := key.Record(t.entity.name, t.rec.RecordID()); err != nil || cur.String() != t.key {
			return nil, nil, fmt.Errorf("%w: %s", ErrIDChanged, t.key)
		}
		data, err := t.entity.encode(t.rec)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s: %w", t.key, err)
		}
		if t.state == statePersistent && bytes.Equal(data, t.snapshot) {
			continue
		}
		batch.Set(t.key, data)
		changed = append(changed, pending{t: t, data: data})
	}

	return batch, changed, nil
}

// Rollback drops staged inserts and deletes and restores every tracked record
// to its last committed state.
func (s *Session) Rollback() error {
	if s.closed {
		return ErrSessionClosed
	}

	objects := make([]*tracked, 0, len(s.objects))
	for _, t := range s.objects {
		objects = append(objects, t)
	}

	var errs []error
	for _, t := range objects {
		switch {
		case t.replaced != nil:
			s.detach(t)
			t = t.replaced
			if err := s.attach(t); err != nil {
				errs = append(errs, fmt.Errorf("restore %s: %w", t.key, err))
				continue
			}
		case t.snapshot == nil:
			s.detach(t)
			continue
		}

		committed, err := t.entity.decode(t.snapshot)
		if err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", t.key, err))
			continue
		}
		reflect.ValueOf(t.rec).Elem().Set(reflect.ValueOf(committed).Elem())
		t.state = statePersistent
	}

	s.log.Debug("rolled back", "tracked", len(s.objects))
	return errors.Join(errs...)
}

// Close releases every tracked record. The session can't be used afterwards.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	for _, t := range s.objects {
		s.detach(t)
	}
	s.closed = true
	return nil
}

func (s *Session) attach(t *tracked) error {
	if err := s.engine.claim(t.rec, s.id); err != nil {
		return err
	}
	s.objects[t.key] = t
	s.byRecord[t.rec] = t
	return nil
}

func (s *Session) detach(t *tracked) {
	delete(s.objects, t.key)
	delete(s.byRecord, t.rec)
	s.engine.release(t.rec, s.id)
}
