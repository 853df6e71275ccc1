package access

import (
	"dbhelper"
	"dbhelper/engine"
	"dbhelper/predicate"
	"fmt"

	"github.com/samber/mo"
)

var _ dbhelper.RecordStore[engine.Record, predicate.Predicate] = (*Store[engine.Record])(nil)

// Store gives CRUD and queries over one record type, inside one Context.
type Store[R engine.Record] struct {
	ctx    *Context
	entity string
}

// Use binds a store for R to ctx. R must be registered in the engine's model.
func Use[R engine.Record](ctx *Context) (*Store[R], error) {
	name, err := engine.EntityOf[R](ctx.engine.Model())
	if err != nil {
		return nil, dbhelper.Errorf(dbhelper.KindContract, "use", err)
	}
	return &Store[R]{ctx: ctx, entity: name}, nil
}

func (s *Store[R]) Entity() string {
	return s.entity
}

func (s *Store[R]) Create(r R) error {
	if err := s.ctx.StageInsert(r); err != nil {
		return err
	}
	return s.ctx.Commit()
}

// Update commits r along with anything else changed in the context.
func (s *Store[R]) Update(r R) error {
	if !s.ctx.Owns(r) {
		return dbhelper.Errorf(dbhelper.KindContract, "update", fmt.Errorf("%w: %T", engine.ErrNotOwned, r))
	}
	return s.ctx.Commit()
}

func (s *Store[R]) Delete(r R) error {
	if err := s.ctx.StageDeletion(r); err != nil {
		return err
	}
	return s.ctx.Commit()
}

func (s *Store[R]) Fetch(pred mo.Option[predicate.Predicate], limit mo.Option[int]) mo.Result[[]R] {
	recs, err := s.ctx.fetch(engine.FetchRequest{
		Entity:    s.entity,
		Predicate: pred.OrEmpty(),
		Limit:     limit,
	})
	if err != nil {
		return mo.Err[[]R](err)
	}

	out := make([]R, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.(R))
	}
	return mo.Ok(out)
}

func (s *Store[R]) FetchFirst(pred mo.Option[predicate.Predicate]) mo.Result[mo.Option[R]] {
	recs, err := s.Fetch(pred, mo.Some(1)).Get()
	if err != nil {
		return mo.Err[mo.Option[R]](err)
	}
	if len(recs) == 0 {
		return mo.Ok(mo.None[R]())
	}
	return mo.Ok(mo.Some(recs[0]))
}
